package dto

type CheckoutResponse struct {
	SessionID   string `json:"session_id"`
	CheckoutURL string `json:"checkout_url"`
}

// BillingWebhook mirrors the provider's event envelope. Only the fields the
// subscription lifecycle needs are decoded.
type BillingWebhook struct {
	ID   string            `json:"id"`
	Type string            `json:"type"`
	Data BillingWebhookData `json:"data"`
}

type BillingWebhookData struct {
	Object BillingObject `json:"object"`
}

type BillingObject struct {
	ID                string `json:"id"`
	ClientReferenceID string `json:"client_reference_id"`
	CustomerEmail     string `json:"customer_email"`
	Status            string `json:"status"`
}

package dto

type CreateContractRequest struct {
	CounterpartName  string  `json:"counterpart_name"`
	CounterpartEmail string  `json:"counterpart_email,omitempty"`
	PaymentTerms     string  `json:"payment_terms"`
	ScopeText        string  `json:"scope_text"`
	Amount           float64 `json:"amount"`
}

type UpdateContractRequest struct {
	CounterpartName  *string  `json:"counterpart_name,omitempty"`
	CounterpartEmail *string  `json:"counterpart_email,omitempty"`
	PaymentTerms     *string  `json:"payment_terms,omitempty"`
	ScopeText        *string  `json:"scope_text,omitempty"`
	Amount           *float64 `json:"amount,omitempty"`
	Status           *string  `json:"status,omitempty"`
}

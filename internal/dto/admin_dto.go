package dto

import "github.com/resolveai/resolve-backend/internal/models"

type AdminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AdminSessionResponse struct {
	Authenticated bool   `json:"authenticated"`
	Email         string `json:"email,omitempty"`
	ExpiresAt     string `json:"expires_at,omitempty"`
}

// AdminCaseResponse pairs a case with its owner's identity, which the case
// JSON otherwise omits.
type AdminCaseResponse struct {
	models.Case
	OwnerEmail string `json:"owner_email"`
	OwnerName  string `json:"owner_name"`
}

type UpdateCaseStatusRequest struct {
	Status string `json:"status"`
}

type SendDocumentationRequest struct {
	CaseID    string `json:"case_id"`
	Recipient string `json:"recipient"`
	Subject   string `json:"subject,omitempty"`
	Message   string `json:"message,omitempty"`
}

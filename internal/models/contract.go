package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ContractStatusDraft     = "draft"
	ContractStatusSent      = "sent"
	ContractStatusSigned    = "signed"
	ContractStatusDisputed  = "disputed"
	ContractStatusCompleted = "completed"
)

// Contract records the terms agreed with a counterpart for a job.
type Contract struct {
	ID               uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID           uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	CounterpartName  string         `gorm:"size:255;not null" json:"counterpart_name"`
	CounterpartEmail string         `gorm:"size:255" json:"counterpart_email"`
	PaymentTerms     string         `gorm:"size:500" json:"payment_terms"`
	ScopeText        string         `gorm:"type:text" json:"scope_text"`
	Amount           float64        `gorm:"type:decimal(12,2);default:0" json:"amount"`
	Status           string         `gorm:"size:50;not null;default:'draft'" json:"status"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Case statuses form a soft lifecycle; rows are never hard-deleted.
const (
	CaseStatusNew              = "new"
	CaseStatusInProgress       = "in_progress"
	CaseStatusAwaitingResponse = "awaiting_response"
	CaseStatusResolved         = "resolved"
	CaseStatusClosed           = "closed"
)

// Case is a payment dispute or contract issue opened by a tradesperson.
// Mood fields are optional sentiment metadata for client-relationship
// tracking; they are only set once the user records a check-in.
type Case struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	IssueType   string     `gorm:"size:50;not null" json:"issue_type"`
	Amount      float64    `gorm:"type:decimal(12,2);default:0" json:"amount"`
	Status      string     `gorm:"size:50;not null;default:'new'" json:"status"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Description string     `gorm:"type:text" json:"description"`

	MoodScore         *int       `gorm:"check:mood_score >= 1 AND mood_score <= 10" json:"mood_score,omitempty"`
	StressLevel       string     `gorm:"size:20" json:"stress_level,omitempty"`
	Urgency           string     `gorm:"size:20" json:"urgency,omitempty"`
	ConfidenceScore   *int       `json:"confidence_score,omitempty"`
	SatisfactionScore *int       `json:"satisfaction_score,omitempty"`
	MoodNotes         string     `gorm:"size:1000" json:"mood_notes,omitempty"`
	MoodUpdatedAt     *time.Time `json:"mood_updated_at,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Document points at an object held in external storage. The row owns the
// metadata; the bytes live under StorageKey in the bucket.
type Document struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	CaseID      *uuid.UUID `gorm:"type:uuid;index" json:"case_id,omitempty"`
	ContractID  *uuid.UUID `gorm:"type:uuid;index" json:"contract_id,omitempty"`
	FileName    string     `gorm:"size:255;not null" json:"file_name"`
	StorageKey  string     `gorm:"size:512;not null" json:"storage_key"`
	MimeType    string     `gorm:"size:100" json:"mime_type"`
	FileType    string     `gorm:"size:20" json:"file_type"`
	Size        int64      `json:"size"`
	Category    string     `gorm:"size:50;not null" json:"category"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

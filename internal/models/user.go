package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the closed set of roles a resolved identity can carry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
)

// ParseRole maps a stored role string onto the closed set, defaulting to user.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin
	case RoleModerator:
		return RoleModerator
	default:
		return RoleUser
	}
}

// In reports whether r is a member of the allowed set.
func (r Role) In(allowed ...Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}

// User mirrors an identity-provider account. Rows are provisioned lazily on
// the first authenticated request and never hard-deleted.
type User struct {
	ID                  uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AuthID              string         `gorm:"size:128;not null;uniqueIndex" json:"-"`
	Email               string         `gorm:"size:255;not null;index" json:"email"`
	DisplayName         string         `gorm:"size:255" json:"display_name"`
	TradeType           string         `gorm:"size:100" json:"trade_type"`
	Role                string         `gorm:"size:20;default:'user'" json:"role"`
	SubscriptionStatus  string         `gorm:"size:50;default:'active'" json:"subscription_status"`
	PlanType            string         `gorm:"size:50;default:'strategy_pack'" json:"plan_type"`
	StrategyPackCredits int            `gorm:"default:5" json:"strategy_pack_credits"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`
}

package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/resolveai/resolve-backend/internal/dto"
	"github.com/resolveai/resolve-backend/internal/identity"
	"github.com/resolveai/resolve-backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrNoCredits    = errors.New("no strategy pack credits remaining")
)

// Default subscription grant for a newly provisioned user. A business rule,
// not a security control: every first sign-in starts with five credits.
const (
	defaultSubscriptionStatus = "active"
	defaultPlanType           = "strategy_pack"
	defaultStrategyCredits    = 5
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// EnsureUser resolves the local row for an introspected identity, creating it
// with defaults on first sight. Existing rows are returned untouched, so
// profile edits survive later logins.
func (s *UserService) EnsureUser(ident *identity.Identity) (*models.User, error) {
	var user models.User
	err := s.db.Where("auth_id = ?", ident.UID).First(&user).Error
	if err == nil {
		if user.Role == "" {
			user.Role = string(models.RoleUser)
		}
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	user = models.User{
		ID:                  uuid.New(),
		AuthID:              ident.UID,
		Email:               ident.Email,
		DisplayName:         displayNameFor(ident),
		Role:                string(models.RoleUser),
		SubscriptionStatus:  defaultSubscriptionStatus,
		PlanType:            defaultPlanType,
		StrategyPackCredits: defaultStrategyCredits,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to provision user: %w", err)
	}
	return &user, nil
}

func (s *UserService) GetByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return &user, nil
}

func (s *UserService) UpdateProfile(id uuid.UUID, req *dto.UpdateProfileRequest) (*models.User, error) {
	user, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.DisplayName != nil {
		updates["display_name"] = strings.TrimSpace(*req.DisplayName)
	}
	if req.TradeType != nil {
		updates["trade_type"] = strings.TrimSpace(*req.TradeType)
	}
	if len(updates) == 0 {
		return user, nil
	}

	if err := s.db.Model(user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

// ConsumeStrategyCredit decrements one credit for strategy-pack users. The
// guarded UPDATE keeps concurrent case creations from going negative.
func (s *UserService) ConsumeStrategyCredit(id uuid.UUID) error {
	result := s.db.Model(&models.User{}).
		Where("id = ? AND strategy_pack_credits > 0", id).
		UpdateColumn("strategy_pack_credits", gorm.Expr("strategy_pack_credits - 1"))
	if result.Error != nil {
		return fmt.Errorf("failed to consume credit: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNoCredits
	}
	return nil
}

func (s *UserService) GrantStrategyCredits(id uuid.UUID, n int) error {
	return s.db.Model(&models.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"strategy_pack_credits": gorm.Expr("strategy_pack_credits + ?", n),
			"plan_type":             defaultPlanType,
			"subscription_status":   defaultSubscriptionStatus,
		}).Error
}

func displayNameFor(ident *identity.Identity) string {
	if ident.Name != "" {
		return ident.Name
	}
	if ident.Email != "" {
		return strings.Split(ident.Email, "@")[0]
	}
	return ""
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/resolveai/resolve-backend/internal/config"
	"github.com/resolveai/resolve-backend/internal/dto"
	"github.com/resolveai/resolve-backend/internal/models"
	"gorm.io/gorm"
)

var ErrBillingNotConfigured = errors.New("billing provider not configured")

// Credits granted per strategy-pack purchase.
const strategyPackGrant = 5

type BillingService struct {
	db    *gorm.DB
	cfg   *config.Config
	users *UserService
}

func NewBillingService(db *gorm.DB, cfg *config.Config, users *UserService) *BillingService {
	return &BillingService{db: db, cfg: cfg, users: users}
}

// CreateCheckoutSession opens a hosted checkout session with the billing
// provider and returns the URL the dashboard redirects to.
func (s *BillingService) CreateCheckoutSession(ctx context.Context, user *models.User) (*dto.CheckoutResponse, error) {
	if s.cfg.BillingAPIKey == "" || s.cfg.StrategyPackPriceID == "" {
		return nil, ErrBillingNotConfigured
	}

	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("client_reference_id", user.ID.String())
	form.Set("customer_email", user.Email)
	form.Set("line_items[0][price]", s.cfg.StrategyPackPriceID)
	form.Set("line_items[0][quantity]", "1")
	form.Set("success_url", s.cfg.CheckoutSuccessURL)
	form.Set("cancel_url", s.cfg.CheckoutCancelURL)

	httpReq, err := http.NewRequestWithContext(ctx, "POST", s.cfg.BillingAPIURL+"/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Authorization", "Bearer "+s.cfg.BillingAPIKey)

	client := &http.Client{Timeout: 30 * time.Second}
	httpResp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call billing provider: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(httpResp.Body)
		return nil, fmt.Errorf("billing provider error (status %d): %s", httpResp.StatusCode, string(bodyBytes))
	}

	var session struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	if err := json.NewDecoder(httpResp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("failed to decode checkout session: %w", err)
	}

	return &dto.CheckoutResponse{SessionID: session.ID, CheckoutURL: session.URL}, nil
}

// HandleWebhookEvent applies a billing provider event to the local user row.
// Unrecognized event types are acknowledged and ignored.
func (s *BillingService) HandleWebhookEvent(event *dto.BillingWebhook) error {
	switch event.Type {
	case "checkout.session.completed":
		return s.handleCheckoutCompleted(&event.Data.Object)
	case "customer.subscription.updated":
		return s.handleSubscriptionUpdated(&event.Data.Object)
	case "customer.subscription.deleted":
		return s.updateSubscriptionStatus(&event.Data.Object, "cancelled")
	default:
		return nil
	}
}

func (s *BillingService) handleCheckoutCompleted(obj *dto.BillingObject) error {
	userID, err := uuid.Parse(obj.ClientReferenceID)
	if err != nil {
		return fmt.Errorf("checkout session has no usable client reference: %w", err)
	}
	return s.users.GrantStrategyCredits(userID, strategyPackGrant)
}

func (s *BillingService) handleSubscriptionUpdated(obj *dto.BillingObject) error {
	status := "active"
	switch obj.Status {
	case "past_due", "unpaid":
		status = "past_due"
	case "canceled":
		status = "cancelled"
	}
	return s.updateSubscriptionStatus(obj, status)
}

func (s *BillingService) updateSubscriptionStatus(obj *dto.BillingObject, status string) error {
	if obj.CustomerEmail == "" {
		return errors.New("subscription event has no customer email")
	}
	return s.db.Model(&models.User{}).
		Where("email = ?", obj.CustomerEmail).
		Update("subscription_status", status).Error
}

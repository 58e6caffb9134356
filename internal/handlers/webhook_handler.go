package handlers

import (
	"crypto/subtle"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/resolveai/resolve-backend/internal/config"
	"github.com/resolveai/resolve-backend/internal/dto"
	"github.com/resolveai/resolve-backend/internal/services"
)

type WebhookHandler struct {
	billingService *services.BillingService
	cfg            *config.Config
}

func NewWebhookHandler(billingService *services.BillingService, cfg *config.Config) *WebhookHandler {
	return &WebhookHandler{billingService: billingService, cfg: cfg}
}

// HandleBilling receives billing provider events with shared-secret auth.
func (h *WebhookHandler) HandleBilling(c *fiber.Ctx) error {
	if h.cfg.BillingWebhookSecret == "" {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: "Webhooks are not configured",
		})
	}

	authHeader := c.Get("Authorization")
	if subtle.ConstantTimeCompare([]byte(authHeader), []byte(h.cfg.BillingWebhookSecret)) != 1 {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var event dto.BillingWebhook
	if err := c.BodyParser(&event); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid webhook payload",
		})
	}

	if err := h.billingService.HandleWebhookEvent(&event); err != nil {
		slog.Error("webhook processing failed", "event_id", event.ID, "event_type", event.Type, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to process webhook event",
		})
	}

	slog.Info("webhook processed", "event_id", event.ID, "event_type", event.Type)
	return c.JSON(fiber.Map{"received": true})
}

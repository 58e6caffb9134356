package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/resolveai/resolve-backend/internal/dto"
	"github.com/resolveai/resolve-backend/internal/middleware"
	"github.com/resolveai/resolve-backend/internal/services"
)

type BillingHandler struct {
	billingService *services.BillingService
}

func NewBillingHandler(billingService *services.BillingService) *BillingHandler {
	return &BillingHandler{billingService: billingService}
}

// CreateCheckout opens a hosted checkout session for the strategy pack and
// returns the redirect URL.
func (h *BillingHandler) CreateCheckout(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	session, err := h.billingService.CreateCheckoutSession(c.Context(), user)
	if err != nil {
		if errors.Is(err, services.ErrBillingNotConfigured) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to create checkout session",
		})
	}
	return c.JSON(session)
}

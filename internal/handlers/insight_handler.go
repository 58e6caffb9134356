package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/resolveai/resolve-backend/internal/dto"
	"github.com/resolveai/resolve-backend/internal/middleware"
	"github.com/resolveai/resolve-backend/internal/services"
)

type InsightHandler struct {
	insightService *services.InsightService
}

func NewInsightHandler(insightService *services.InsightService) *InsightHandler {
	return &InsightHandler{insightService: insightService}
}

// Personalized builds the dashboard insight set from the caller's recent
// cases and contracts. Degrades to the curated fallback set rather than
// failing, so this endpoint never surfaces a model error to the client.
func (h *InsightHandler) Personalized(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	set := h.insightService.GeneratePersonalizedInsights(c.Context(), user.ID)
	return c.JSON(set)
}

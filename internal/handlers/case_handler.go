package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/resolveai/resolve-backend/internal/dto"
	"github.com/resolveai/resolve-backend/internal/middleware"
	"github.com/resolveai/resolve-backend/internal/services"
)

type CaseHandler struct {
	caseService *services.CaseService
}

func NewCaseHandler(caseService *services.CaseService) *CaseHandler {
	return &CaseHandler{caseService: caseService}
}

func (h *CaseHandler) Create(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.CreateCaseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	kase, err := h.caseService.Create(user, &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidIssueType) || errors.Is(err, services.ErrInvalidDeadline) ||
			errors.Is(err, services.ErrNoCredits) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to create case",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(kase)
}

func (h *CaseHandler) List(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	cases, total, err := h.caseService.List(user.ID, page, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to fetch cases",
		})
	}
	return c.JSON(fiber.Map{"cases": cases, "total": total, "page": page, "limit": limit})
}

func (h *CaseHandler) Get(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid case ID",
		})
	}

	kase, err := h.caseService.Get(user, id)
	if err != nil {
		return caseError(c, err)
	}
	return c.JSON(kase)
}

func (h *CaseHandler) Update(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid case ID",
		})
	}

	var req dto.UpdateCaseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	kase, err := h.caseService.Update(user, id, &req)
	if err != nil {
		return caseError(c, err)
	}
	return c.JSON(kase)
}

func (h *CaseHandler) UpdateMood(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid case ID",
		})
	}

	var req dto.UpdateMoodRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	kase, err := h.caseService.UpdateMood(user, id, &req)
	if err != nil {
		return caseError(c, err)
	}
	return c.JSON(kase)
}

// CaseInsight returns the deterministic single-case insight. No model call
// is involved on this path.
func (h *CaseHandler) CaseInsight(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid case ID",
		})
	}

	kase, err := h.caseService.Get(user, id)
	if err != nil {
		return caseError(c, err)
	}
	return c.JSON(services.BuildCaseInsight(kase, time.Now().UTC()))
}

func caseError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrCaseNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrNotCaseOwner):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrInvalidIssueType), errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidDeadline), errors.Is(err, services.ErrInvalidMoodScore),
		errors.Is(err, services.ErrInvalidStress), errors.Is(err, services.ErrInvalidUrgency):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to process case",
		})
	}
}

package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/resolveai/resolve-backend/internal/dto"
	"github.com/resolveai/resolve-backend/internal/middleware"
	"github.com/resolveai/resolve-backend/internal/services"
)

type AdminHandler struct {
	adminService *services.AdminService
	caseService  *services.CaseService
}

func NewAdminHandler(adminService *services.AdminService, caseService *services.CaseService) *AdminHandler {
	return &AdminHandler{adminService: adminService, caseService: caseService}
}

// Login verifies the configured admin credentials and sets the session
// cookie. The response body never includes the token itself.
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	if req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Email and password are required",
		})
	}

	token, expiresAt, err := h.adminService.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAdminLoginDisabled):
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrInvalidAdminLogin):
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Failed to create session",
			})
		}
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.AdminSessionCookie,
		Value:    token,
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
		Path:     "/",
	})

	return c.JSON(dto.AdminSessionResponse{
		Authenticated: true,
		Email:         req.Email,
		ExpiresAt:     expiresAt.UTC().Format(time.RFC3339),
	})
}

// Logout clears the session cookie. Always succeeds.
func (h *AdminHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.AdminSessionCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
		Path:     "/",
	})
	return c.JSON(dto.AdminSessionResponse{Authenticated: false})
}

// Session reports on the current admin session. Runs behind the session
// cookie guard, so reaching it means the token already validated.
func (h *AdminHandler) Session(c *fiber.Ctx) error {
	resp := dto.AdminSessionResponse{Authenticated: true}
	if token, ok := c.Locals("user").(*jwt.Token); ok {
		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			resp.Email, _ = claims["email"].(string)
			if exp, ok := claims["exp"].(float64); ok {
				resp.ExpiresAt = time.Unix(int64(exp), 0).UTC().Format(time.RFC3339)
			}
		}
	}
	return c.JSON(resp)
}

// ListCases returns every case across all users, optionally filtered by
// status, with the owning user preloaded.
func (h *AdminHandler) ListCases(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))

	cases, total, err := h.caseService.AdminList(c.Query("status"), page, limit)
	if err != nil {
		return caseError(c, err)
	}

	out := make([]dto.AdminCaseResponse, 0, len(cases))
	for _, kase := range cases {
		out = append(out, dto.AdminCaseResponse{
			Case:       kase,
			OwnerEmail: kase.User.Email,
			OwnerName:  kase.User.DisplayName,
		})
	}
	return c.JSON(fiber.Map{"cases": out, "total": total, "page": page, "limit": limit})
}

func (h *AdminHandler) UpdateCaseStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid case ID",
		})
	}

	var req dto.UpdateCaseStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	kase, err := h.caseService.AdminUpdateStatus(id, req.Status)
	if err != nil {
		return caseError(c, err)
	}
	return c.JSON(kase)
}

// SendDocumentation emails a case's document links to an external recipient,
// typically an adjudicator or the client's own records address.
func (h *AdminHandler) SendDocumentation(c *fiber.Ctx) error {
	var req dto.SendDocumentationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	caseID, err := uuid.Parse(req.CaseID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid case ID",
		})
	}
	if req.Recipient == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "A recipient email is required",
		})
	}

	if err := h.adminService.SendDocumentation(caseID, req.Recipient, req.Subject, req.Message); err != nil {
		switch {
		case errors.Is(err, services.ErrCaseNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		case errors.Is(err, services.ErrDocumentationNoTarget):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Failed to send documentation",
			})
		}
	}
	return c.JSON(fiber.Map{"sent": true})
}

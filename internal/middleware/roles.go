package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/resolveai/resolve-backend/internal/dto"
	"github.com/resolveai/resolve-backend/internal/models"
)

// RequireRole gates a route on role membership. No resolved identity is a
// 401; a resolved role outside the allowed set is a 403.
func RequireRole(allowed ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := CurrentRole(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}
		if !role.In(allowed...) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Forbidden: insufficient role",
			})
		}
		return c.Next()
	}
}

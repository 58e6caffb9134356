package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/resolveai/resolve-backend/internal/models"
)

const (
	localsUserKey = "currentUser"
	localsRoleKey = "currentRole"
)

// CurrentUser returns the resolved user for the request, if identity
// resolution ran and succeeded. Admin cookie sessions carry a role but no
// user row.
func CurrentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(localsUserKey).(*models.User)
	return user, ok
}

// CurrentRole returns the role attached to the request, from either a bearer
// identity or an admin session.
func CurrentRole(c *fiber.Ctx) (models.Role, bool) {
	role, ok := c.Locals(localsRoleKey).(models.Role)
	return role, ok
}

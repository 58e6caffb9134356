package middleware

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/resolveai/resolve-backend/internal/dto"
	"github.com/resolveai/resolve-backend/internal/identity"
	"github.com/resolveai/resolve-backend/internal/models"
)

// UserProvisioner lazily resolves the local user row for an introspected
// identity.
type UserProvisioner interface {
	EnsureUser(ident *identity.Identity) (*models.User, error)
}

// RequireAuth resolves the bearer token against the identity provider and
// attaches the local user and role to the request. Missing or invalid tokens
// fail with 401 before any handler runs.
func RequireAuth(verifier identity.TokenVerifier, users UserProvisioner) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized: missing bearer token",
			})
		}

		ident, err := verifier.Verify(c.Context(), token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized: invalid or expired token",
			})
		}

		user, err := users.EnsureUser(ident)
		if err != nil {
			slog.Error("user provisioning failed", "auth_id", ident.UID, "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Failed to resolve user",
			})
		}

		c.Locals(localsUserKey, user)
		c.Locals(localsRoleKey, models.ParseRole(user.Role))
		return c.Next()
	}
}

// OptionalAuth performs the same resolution but proceeds unauthenticated
// when the token is absent or invalid.
func OptionalAuth(verifier identity.TokenVerifier, users UserProvisioner) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return c.Next()
		}

		ident, err := verifier.Verify(c.Context(), token)
		if err != nil {
			return c.Next()
		}

		user, err := users.EnsureUser(ident)
		if err != nil {
			slog.Error("user provisioning failed", "auth_id", ident.UID, "error", err)
			return c.Next()
		}

		c.Locals(localsUserKey, user)
		// An admin session earlier in the chain already fixed the role;
		// the bearer identity must not downgrade it.
		if _, ok := CurrentRole(c); !ok {
			c.Locals(localsRoleKey, models.ParseRole(user.Role))
		}
		return c.Next()
	}
}

// bearerToken pulls the credential from the Authorization header, falling
// back to the token query parameter for contexts that cannot set headers
// (image tags, iframes).
func bearerToken(c *fiber.Ctx) string {
	header := c.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return c.Query("token")
}

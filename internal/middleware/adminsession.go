package middleware

import (
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/resolveai/resolve-backend/internal/config"
	"github.com/resolveai/resolve-backend/internal/dto"
	"github.com/resolveai/resolve-backend/internal/models"
)

// AdminSessionCookie is the cookie carrying the signed admin session token.
const AdminSessionCookie = "resolve_admin_session"

// AdminSessionProtected rejects requests without a valid admin session
// cookie. Used by the session introspection endpoint.
func AdminSessionProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:  jwtware.SigningKey{Key: []byte(cfg.SessionSecret)},
		TokenLookup: "cookie:" + AdminSessionCookie,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized: no active admin session",
			})
		},
		SuccessHandler: func(c *fiber.Ctx) error {
			c.Locals(localsRoleKey, models.RoleAdmin)
			return c.Next()
		},
	})
}

// OptionalAdminSession attaches the admin role when a valid session cookie is
// present and falls through silently otherwise, so admin routes can also be
// reached by bearer identities carrying the right role.
func OptionalAdminSession(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Cookies(AdminSessionCookie)
		if raw == "" || cfg.SessionSecret == "" {
			return c.Next()
		}

		token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(cfg.SessionSecret), nil
		})
		if err != nil || !token.Valid {
			return c.Next()
		}

		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			if role, _ := claims["role"].(string); role == string(models.RoleAdmin) {
				c.Locals(localsRoleKey, models.RoleAdmin)
			}
		}
		return c.Next()
	}
}

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/resolveai/resolve-backend/internal/config"
	"github.com/resolveai/resolve-backend/internal/middleware"
	"github.com/resolveai/resolve-backend/internal/models"
)

func sessionConfig() *config.Config {
	return &config.Config{SessionSecret: "test-session-secret"}
}

func signSession(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func TestAdminSessionProtected_NoCookie(t *testing.T) {
	app := fiber.New()
	app.Get("/session", middleware.AdminSessionProtected(sessionConfig()), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/session", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("expected 401 without a session cookie, got %d", resp.StatusCode)
	}
}

func TestAdminSessionProtected_ValidCookie(t *testing.T) {
	cfg := sessionConfig()
	app := fiber.New()
	app.Get("/session", middleware.AdminSessionProtected(cfg), func(c *fiber.Ctx) error {
		role, ok := middleware.CurrentRole(c)
		if !ok || role != models.RoleAdmin {
			t.Errorf("expected admin role in locals, got %q (present=%v)", role, ok)
		}
		return c.SendStatus(fiber.StatusOK)
	})

	signed := signSession(t, cfg.SessionSecret, jwt.MapClaims{
		"sub": "admin", "role": "admin", "exp": time.Now().Add(time.Hour).Unix(),
	})
	req := httptest.NewRequest("GET", "/session", nil)
	req.AddCookie(&http.Cookie{Name: middleware.AdminSessionCookie, Value: signed})

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("expected 200 with a valid cookie, got %d", resp.StatusCode)
	}
}

func TestAdminSessionProtected_ExpiredCookie(t *testing.T) {
	cfg := sessionConfig()
	app := fiber.New()
	app.Get("/session", middleware.AdminSessionProtected(cfg), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	signed := signSession(t, cfg.SessionSecret, jwt.MapClaims{
		"sub": "admin", "role": "admin", "exp": time.Now().Add(-time.Hour).Unix(),
	})
	req := httptest.NewRequest("GET", "/session", nil)
	req.AddCookie(&http.Cookie{Name: middleware.AdminSessionCookie, Value: signed})

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("expected 401 for an expired session, got %d", resp.StatusCode)
	}
}

func TestOptionalAdminSession_GrantsRoleThroughGate(t *testing.T) {
	cfg := sessionConfig()
	app := fiber.New()
	app.Get("/admin/cases",
		middleware.OptionalAdminSession(cfg),
		middleware.RequireRole(models.RoleAdmin),
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) },
	)

	// No cookie: the optional middleware falls through and the gate 401s.
	resp, err := app.Test(httptest.NewRequest("GET", "/admin/cases", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("expected 401 without any identity, got %d", resp.StatusCode)
	}

	// Valid cookie: role attaches and the gate passes.
	signed := signSession(t, cfg.SessionSecret, jwt.MapClaims{
		"sub": "admin", "role": "admin", "exp": time.Now().Add(time.Hour).Unix(),
	})
	req := httptest.NewRequest("GET", "/admin/cases", nil)
	req.AddCookie(&http.Cookie{Name: middleware.AdminSessionCookie, Value: signed})
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("expected 200 with an admin session, got %d", resp.StatusCode)
	}

	// Tampered cookie: falls through silently, gate 401s.
	req = httptest.NewRequest("GET", "/admin/cases", nil)
	req.AddCookie(&http.Cookie{Name: middleware.AdminSessionCookie, Value: signed + "garbage"})
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("expected 401 with a tampered session, got %d", resp.StatusCode)
	}
}

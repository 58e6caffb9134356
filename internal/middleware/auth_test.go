package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/resolveai/resolve-backend/internal/identity"
	"github.com/resolveai/resolve-backend/internal/middleware"
	"github.com/resolveai/resolve-backend/internal/models"
)

// --- Mocks ---

type stubVerifier struct {
	ident *identity.Identity
	err   error
}

func (s *stubVerifier) Verify(_ context.Context, _ string) (*identity.Identity, error) {
	return s.ident, s.err
}

type stubProvisioner struct {
	user *models.User
	err  error
}

func (s *stubProvisioner) EnsureUser(_ *identity.Identity) (*models.User, error) {
	return s.user, s.err
}

func newApp(verifier identity.TokenVerifier, users middleware.UserProvisioner, roles ...models.Role) *fiber.App {
	app := fiber.New()
	chain := []fiber.Handler{middleware.RequireAuth(verifier, users)}
	if len(roles) > 0 {
		chain = append(chain, middleware.RequireRole(roles...))
	}
	chain = append(chain, func(c *fiber.Ctx) error {
		user, _ := middleware.CurrentUser(c)
		return c.JSON(fiber.Map{"email": user.Email})
	})
	app.Get("/secure", chain...)
	return app
}

func validStubs() (*stubVerifier, *stubProvisioner) {
	ident := &identity.Identity{UID: "firebase-uid-1", Email: "sparky@example.com"}
	user := &models.User{ID: uuid.New(), AuthID: ident.UID, Email: ident.Email, Role: string(models.RoleUser)}
	return &stubVerifier{ident: ident}, &stubProvisioner{user: user}
}

// --- Tests ---

func TestRequireAuth_MissingToken(t *testing.T) {
	verifier, users := validStubs()
	app := newApp(verifier, users)

	req := httptest.NewRequest("GET", "/secure", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("expected 401 without a token, got %d", resp.StatusCode)
	}
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	_, users := validStubs()
	app := newApp(&stubVerifier{err: errors.New("token expired")}, users)

	req := httptest.NewRequest("GET", "/secure", nil)
	req.Header.Set("Authorization", "Bearer expired-token")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("expected 401 for an invalid token, got %d", resp.StatusCode)
	}
}

func TestRequireAuth_ProvisioningFailure(t *testing.T) {
	verifier, _ := validStubs()
	app := newApp(verifier, &stubProvisioner{err: errors.New("db down")})

	req := httptest.NewRequest("GET", "/secure", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Errorf("expected 500 when provisioning fails, got %d", resp.StatusCode)
	}
}

func TestRequireAuth_ValidToken(t *testing.T) {
	verifier, users := validStubs()
	app := newApp(verifier, users)

	req := httptest.NewRequest("GET", "/secure", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("expected 200 with a valid token, got %d", resp.StatusCode)
	}
}

func TestRequireRole_InsufficientRole(t *testing.T) {
	verifier, users := validStubs()
	app := newApp(verifier, users, models.RoleAdmin)

	req := httptest.NewRequest("GET", "/secure", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusForbidden {
		t.Errorf("expected 403 for an authenticated non-admin, got %d", resp.StatusCode)
	}
}

func TestRequireRole_AllowedRole(t *testing.T) {
	verifier, users := validStubs()
	users.user.Role = string(models.RoleModerator)
	app := newApp(verifier, users, models.RoleAdmin, models.RoleModerator)

	req := httptest.NewRequest("GET", "/secure", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("expected 200 for an allowed role, got %d", resp.StatusCode)
	}
}

func TestOptionalAuth_KeepsAdminSessionRole(t *testing.T) {
	cfg := sessionConfig()
	verifier, users := validStubs()
	app := fiber.New()
	app.Get("/admin/cases",
		middleware.OptionalAdminSession(cfg),
		middleware.OptionalAuth(verifier, users),
		middleware.RequireRole(models.RoleAdmin),
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) },
	)

	// Admin session cookie plus a plain-user bearer token: the session role
	// must survive the bearer identity.
	signed := signSession(t, cfg.SessionSecret, jwt.MapClaims{
		"sub": "admin", "role": "admin", "exp": time.Now().Add(time.Hour).Unix(),
	})
	req := httptest.NewRequest("GET", "/admin/cases", nil)
	req.AddCookie(&http.Cookie{Name: middleware.AdminSessionCookie, Value: signed})
	req.Header.Set("Authorization", "Bearer good-token")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("expected 200 for an admin session alongside a user bearer, got %d", resp.StatusCode)
	}

	// Bearer alone still carries only the user's own role.
	req = httptest.NewRequest("GET", "/admin/cases", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusForbidden {
		t.Errorf("expected 403 for a plain user without a session, got %d", resp.StatusCode)
	}
}

func TestRequireRole_Unauthenticated(t *testing.T) {
	app := fiber.New()
	app.Get("/admin-only", middleware.RequireRole(models.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/admin-only", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("expected 401 with no identity at all, got %d", resp.StatusCode)
	}
}

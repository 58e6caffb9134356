package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/resolveai/resolve-backend/internal/config"
	"github.com/resolveai/resolve-backend/internal/handlers"
	"github.com/resolveai/resolve-backend/internal/identity"
	"github.com/resolveai/resolve-backend/internal/middleware"
	"github.com/resolveai/resolve-backend/internal/models"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	verifier identity.TokenVerifier,
	users middleware.UserProvisioner,
	healthHandler *handlers.HealthHandler,
	profileHandler *handlers.ProfileHandler,
	caseHandler *handlers.CaseHandler,
	contractHandler *handlers.ContractHandler,
	documentHandler *handlers.DocumentHandler,
	insightHandler *handlers.InsightHandler,
	adminHandler *handlers.AdminHandler,
	billingHandler *handlers.BillingHandler,
	webhookHandler *handlers.WebhookHandler,
	legalHandler *handlers.LegalHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	// Public
	api.Get("/health", healthHandler.Check)
	api.Get("/legal/privacy", legalHandler.PrivacyPolicy)
	api.Get("/legal/terms", legalHandler.TermsOfService)

	// Webhooks — shared-secret auth, no bearer token
	api.Post("/webhooks/billing", webhookHandler.HandleBilling)

	// Authenticated user surface
	authed := api.Group("", middleware.RequireAuth(verifier, users))

	authed.Get("/profile", profileHandler.Get)
	authed.Put("/profile", profileHandler.Update)

	authed.Post("/cases", caseHandler.Create)
	authed.Get("/cases", caseHandler.List)
	authed.Get("/cases/:id", caseHandler.Get)
	authed.Put("/cases/:id", caseHandler.Update)
	authed.Put("/cases/:id/mood", caseHandler.UpdateMood)
	authed.Get("/cases/:id/insight", caseHandler.CaseInsight)
	authed.Post("/cases/:id/upload", documentHandler.UploadForCase)
	authed.Get("/cases/:id/documents", documentHandler.ListForCase)

	authed.Post("/contracts", contractHandler.Create)
	authed.Get("/contracts", contractHandler.List)
	authed.Get("/contracts/:id", contractHandler.Get)
	authed.Put("/contracts/:id", contractHandler.Update)
	authed.Post("/contracts/:id/upload", documentHandler.UploadForContract)
	authed.Get("/contracts/:id/documents", documentHandler.ListForContract)

	authed.Post("/documents/upload", documentHandler.Upload)
	authed.Get("/documents", documentHandler.List)
	authed.Get("/documents/:id", documentHandler.Get)
	authed.Get("/documents/:id/download", documentHandler.Download)
	authed.Delete("/documents/:id", documentHandler.Delete)

	authed.Get("/insights", insightHandler.Personalized)

	authed.Post("/billing/checkout", billingHandler.CreateCheckout)

	// Admin login rate limit: 10 req/min per IP (stricter)
	login := api.Group("/admin/login")
	login.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	login.Post("", adminHandler.Login)

	api.Post("/admin/logout", adminHandler.Logout)
	api.Get("/admin/session", middleware.AdminSessionProtected(cfg), adminHandler.Session)

	// Admin panel: reachable with the session cookie or a bearer identity
	// holding the admin role. Moderators may read cases but not mutate.
	admin := api.Group("/admin",
		middleware.OptionalAdminSession(cfg),
		middleware.OptionalAuth(verifier, users),
	)
	admin.Get("/cases", middleware.RequireRole(models.RoleAdmin, models.RoleModerator), adminHandler.ListCases)
	admin.Put("/cases/:id/status", middleware.RequireRole(models.RoleAdmin), adminHandler.UpdateCaseStatus)
	admin.Post("/send-documentation", middleware.RequireRole(models.RoleAdmin), adminHandler.SendDocumentation)
}

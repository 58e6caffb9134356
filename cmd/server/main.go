package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/joho/godotenv"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/resolveai/resolve-backend/internal/config"
	"github.com/resolveai/resolve-backend/internal/database"
	"github.com/resolveai/resolve-backend/internal/handlers"
	"github.com/resolveai/resolve-backend/internal/identity"
	"github.com/resolveai/resolve-backend/internal/logging"
	"github.com/resolveai/resolve-backend/internal/mailer"
	"github.com/resolveai/resolve-backend/internal/middleware"
	"github.com/resolveai/resolve-backend/internal/routes"
	"github.com/resolveai/resolve-backend/internal/services"
	"github.com/resolveai/resolve-backend/internal/storage"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment")
	}

	cfg := config.Load()

	if cfg.DBPassword == "" {
		slog.Error("DB_PASSWORD environment variable is required")
		os.Exit(1)
	}

	// Database
	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	if err := database.Migrate(); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	// PostgreSQL log handler (ERROR+ async batch)
	pgLogHandler := logging.NewPGHandler(database.DB)
	slog.SetDefault(slog.New(logging.NewMultiHandler(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		pgLogHandler,
	)))

	// Log cleanup (30-day retention)
	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cleanupDone)

	ctx := context.Background()

	// Identity provider. The server still boots without credentials so the
	// public surface and webhooks stay reachable.
	verifier, err := identity.NewFirebaseVerifier(ctx, cfg)
	if err != nil {
		slog.Error("identity provider init failed, bearer auth disabled", "error", err)
		verifier = &identity.FirebaseVerifier{}
	}

	// Object storage, same degradation policy.
	store, err := storage.NewGCSStore(ctx, cfg)
	if err != nil {
		slog.Error("object storage init failed, document transfer disabled", "error", err)
		store = &storage.GCSStore{}
	}

	// Services
	userService := services.NewUserService(database.DB)
	caseService := services.NewCaseService(database.DB, userService)
	contractService := services.NewContractService(database.DB)
	documentService := services.NewDocumentService(database.DB, store, cfg.MaxUploadSize)
	insightService := services.NewInsightService(database.DB, cfg)
	billingService := services.NewBillingService(database.DB, cfg, userService)
	adminService := services.NewAdminService(database.DB, cfg, mailer.New(cfg))

	// Handlers
	healthHandler := handlers.NewHealthHandler()
	profileHandler := handlers.NewProfileHandler(userService)
	caseHandler := handlers.NewCaseHandler(caseService)
	contractHandler := handlers.NewContractHandler(contractService)
	documentHandler := handlers.NewDocumentHandler(documentService, caseService, contractService)
	insightHandler := handlers.NewInsightHandler(insightService)
	adminHandler := handlers.NewAdminHandler(adminService, caseService)
	billingHandler := handlers.NewBillingHandler(billingService)
	webhookHandler := handlers.NewWebhookHandler(billingService, cfg)
	legalHandler := handlers.NewLegalHandler()

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      os.Getenv("APP_ENV"),
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit:    int(cfg.MaxUploadSize) + 1024*1024,
		ErrorHandler: customErrorHandler,
	})

	// Sentry middleware
	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	// Routes
	routes.Setup(app, cfg, verifier, userService,
		healthHandler, profileHandler, caseHandler, contractHandler,
		documentHandler, insightHandler, adminHandler, billingHandler,
		webhookHandler, legalHandler)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	close(cleanupDone)
	pgLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := app.Shutdown(); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	// Close database connections
	if sqlDB, err := database.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("database close error", "error", err)
		}
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}

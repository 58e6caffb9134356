package handlers_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/resolveai/resolve-backend/internal/config"
	"github.com/resolveai/resolve-backend/internal/handlers"
	"github.com/resolveai/resolve-backend/internal/services"
)

func webhookApp(cfg *config.Config) *fiber.App {
	billing := services.NewBillingService(nil, cfg, nil)
	handler := handlers.NewWebhookHandler(billing, cfg)

	app := fiber.New()
	app.Post("/api/webhooks/billing", handler.HandleBilling)
	return app
}

func postWebhook(t *testing.T, app *fiber.App, auth, body string) int {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/webhooks/billing", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp.StatusCode
}

func TestHandleBilling_NotConfigured(t *testing.T) {
	app := webhookApp(&config.Config{})
	if code := postWebhook(t, app, "whsec_123", `{}`); code != fiber.StatusNotFound {
		t.Errorf("expected 404 when webhooks are unconfigured, got %d", code)
	}
}

func TestHandleBilling_BadSecret(t *testing.T) {
	app := webhookApp(&config.Config{BillingWebhookSecret: "whsec_123"})
	if code := postWebhook(t, app, "whsec_456", `{}`); code != fiber.StatusUnauthorized {
		t.Errorf("expected 401 for a wrong secret, got %d", code)
	}
	if code := postWebhook(t, app, "", `{}`); code != fiber.StatusUnauthorized {
		t.Errorf("expected 401 for a missing secret, got %d", code)
	}
}

func TestHandleBilling_UnknownEventAcknowledged(t *testing.T) {
	app := webhookApp(&config.Config{BillingWebhookSecret: "whsec_123"})
	body := `{"id":"evt_1","type":"invoice.finalized","data":{"object":{}}}`
	if code := postWebhook(t, app, "whsec_123", body); code != fiber.StatusOK {
		t.Errorf("expected unknown events to be acknowledged with 200, got %d", code)
	}
}

func TestHandleBilling_MalformedPayload(t *testing.T) {
	app := webhookApp(&config.Config{BillingWebhookSecret: "whsec_123"})
	if code := postWebhook(t, app, "whsec_123", `{not json`); code != fiber.StatusBadRequest {
		t.Errorf("expected 400 for a malformed payload, got %d", code)
	}
}

func TestHandleBilling_CheckoutWithoutReferenceFails(t *testing.T) {
	app := webhookApp(&config.Config{BillingWebhookSecret: "whsec_123"})
	body := `{"id":"evt_2","type":"checkout.session.completed","data":{"object":{"id":"cs_1"}}}`
	if code := postWebhook(t, app, "whsec_123", body); code != fiber.StatusInternalServerError {
		t.Errorf("expected 500 when the checkout carries no client reference, got %d", code)
	}
}

package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Identity provider (Firebase Auth)
	FirebaseProjectID    string
	FirebaseCredsFile    string
	FirebaseCredsJSONB64 string

	// Object storage
	StorageBucket string

	// Admin session
	SessionSecret     string
	SessionExpiry     time.Duration
	AdminEmail        string
	AdminPasswordHash string

	// AI provider
	OpenAIAPIKey string
	OpenAIAPIURL string
	OpenAIModel  string
	AITimeout    time.Duration

	// Billing provider
	BillingAPIKey        string
	BillingAPIURL        string
	BillingWebhookSecret string
	StrategyPackPriceID  string
	CheckoutSuccessURL   string
	CheckoutCancelURL    string

	// Outbound email
	SMTPHost  string
	SMTPPort  string
	SMTPUser  string
	SMTPPass  string
	EmailFrom string

	// Server
	Port          string
	CORSOrigins   string
	PublicBaseURL string
	MaxUploadSize int64
}

func Load() *Config {
	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "resolve_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		FirebaseProjectID:    getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseCredsFile:    getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
		FirebaseCredsJSONB64: getEnv("FIREBASE_SERVICE_ACCOUNT_JSON_BASE64", ""),

		StorageBucket: getEnv("STORAGE_BUCKET", ""),

		SessionSecret:     getEnv("SESSION_SECRET", ""),
		SessionExpiry:     parseDuration(getEnv("SESSION_EXPIRY", "24h")),
		AdminEmail:        getEnv("ADMIN_EMAIL", ""),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),

		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		OpenAIAPIURL: getEnv("OPENAI_API_URL", "https://api.openai.com/v1/chat/completions"),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		AITimeout:    parseDuration(getEnv("AI_TIMEOUT", "60s")),

		BillingAPIKey:        getEnv("BILLING_API_KEY", ""),
		BillingAPIURL:        getEnv("BILLING_API_URL", "https://api.stripe.com/v1"),
		BillingWebhookSecret: getEnv("BILLING_WEBHOOK_SECRET", ""),
		StrategyPackPriceID:  getEnv("STRATEGY_PACK_PRICE_ID", ""),
		CheckoutSuccessURL:   getEnv("CHECKOUT_SUCCESS_URL", "https://app.resolveai.com.au/billing/success"),
		CheckoutCancelURL:    getEnv("CHECKOUT_CANCEL_URL", "https://app.resolveai.com.au/billing/cancelled"),

		SMTPHost:  getEnv("SMTP_HOST", ""),
		SMTPPort:  getEnv("SMTP_PORT", "587"),
		SMTPUser:  getEnv("SMTP_USER", ""),
		SMTPPass:  getEnv("SMTP_PASS", ""),
		EmailFrom: getEnv("EMAIL_FROM", "documentation@resolveai.com.au"),

		Port:          getEnv("PORT", "8080"),
		CORSOrigins:   getEnv("CORS_ORIGINS", "*"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
		MaxUploadSize: parseInt64(getEnv("MAX_UPLOAD_SIZE", "10485760")),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

func parseInt64(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 10 * 1024 * 1024
	}
	return n
}

package identity

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/resolveai/resolve-backend/internal/config"
	"google.golang.org/api/option"
)

var ErrNotConfigured = errors.New("identity provider not configured")

// Identity is the result of introspecting a bearer token with the provider.
type Identity struct {
	UID   string
	Email string
	Name  string
}

// TokenVerifier introspects a bearer token against the identity provider.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// FirebaseVerifier verifies Firebase ID tokens. A nil client means the
// provider was never configured; Verify then always fails.
type FirebaseVerifier struct {
	client *auth.Client
}

func NewFirebaseVerifier(ctx context.Context, cfg *config.Config) (*FirebaseVerifier, error) {
	if cfg.FirebaseProjectID == "" {
		return &FirebaseVerifier{}, nil
	}

	var opts []option.ClientOption
	if cfg.FirebaseCredsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.FirebaseCredsFile))
	} else if cfg.FirebaseCredsJSONB64 != "" {
		jsonKey, err := base64.StdEncoding.DecodeString(cfg.FirebaseCredsJSONB64)
		if err != nil {
			return nil, errors.New("FIREBASE_SERVICE_ACCOUNT_JSON_BASE64 is not valid base64")
		}
		opts = append(opts, option.WithCredentialsJSON(jsonKey))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID:     cfg.FirebaseProjectID,
		StorageBucket: cfg.StorageBucket,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase auth client: %w", err)
	}

	return &FirebaseVerifier{client: client}, nil
}

func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	if v.client == nil {
		return nil, ErrNotConfigured
	}

	decoded, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("token verification failed: %w", err)
	}

	ident := &Identity{UID: decoded.UID}
	if email, ok := decoded.Claims["email"].(string); ok {
		ident.Email = email
	}
	if name, ok := decoded.Claims["name"].(string); ok {
		ident.Name = name
	}
	return ident, nil
}

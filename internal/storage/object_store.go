package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	gcs "cloud.google.com/go/storage"
	"github.com/resolveai/resolve-backend/internal/config"
	"google.golang.org/api/option"
)

var ErrNotConfigured = errors.New("object storage not configured")

// ObjectStore is the narrow surface the document proxy needs from the
// external object store.
type ObjectStore interface {
	Upload(ctx context.Context, key, contentType string, r io.Reader) error
	NewReader(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// GCSStore stores objects in a Google Cloud Storage bucket. A nil bucket
// means storage was never configured; every call then fails.
type GCSStore struct {
	bucket *gcs.BucketHandle
}

func NewGCSStore(ctx context.Context, cfg *config.Config) (*GCSStore, error) {
	if cfg.StorageBucket == "" {
		return &GCSStore{}, nil
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

	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &GCSStore{bucket: client.Bucket(cfg.StorageBucket)}, nil
}

func (s *GCSStore) Upload(ctx context.Context, key, contentType string, r io.Reader) error {
	if s.bucket == nil {
		return ErrNotConfigured
	}

	w := s.bucket.Object(key).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return fmt.Errorf("failed to write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize object: %w", err)
	}
	return nil
}

func (s *GCSStore) NewReader(ctx context.Context, key string) (io.ReadCloser, error) {
	if s.bucket == nil {
		return nil, ErrNotConfigured
	}

	r, err := s.bucket.Object(key).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open object: %w", err)
	}
	return r, nil
}

func (s *GCSStore) Delete(ctx context.Context, key string) error {
	if s.bucket == nil {
		return ErrNotConfigured
	}
	return s.bucket.Object(key).Delete(ctx)
}

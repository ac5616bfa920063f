// Package storage keeps uploaded media (avatars and recipe images) either on
// the local filesystem or in an S3 bucket.
package storage

import (
	"context"
	"fmt"

	"github.com/pageza/foodgram/backend/config"
	"go.uber.org/zap"
)

// Storage persists media objects under opaque keys.
type Storage interface {
	Save(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	// URL returns the public location of key. It may be relative to the
	// serving host for local storage.
	URL(key string) string
}

// New builds the storage backend selected by the configuration.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Storage, error) {
	switch cfg.StorageBackend {
	case config.StorageLocal:
		return NewLocalStorage(cfg.MediaRoot, cfg.MediaURL, logger)
	case config.StorageS3:
		s3cfg, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return NewS3Storage(s3cfg.Client, s3cfg.BucketName, s3cfg.PublicURL, logger), nil
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.StorageBackend)
	}
}

package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/timmy/siscrap/internal/config"
	"github.com/timmy/siscrap/internal/logger"
)

const StorageTypeLocal StorageType = "local"

// NewStorage creates an ObjectStorage from configuration. Bucket-backed types make
// sure the bucket exists.
// Parameters:
//   - ctx: used for the bucket check.
//   - cfg: storage section of the configuration.
//
// Returns:
//   - ObjectStorage: initialized storage implementation.
//   - error: non-nil if the storage cannot be created.
func NewStorage(ctx context.Context, cfg *config.StorageConfig) (ObjectStorage, error) {
	t := StorageType(strings.ToLower(cfg.Type))
	if t == "" || t == StorageTypeLocal {
		logger.Info("Using local storage at %s", cfg.Dir)
		return NewLocalStorage(cfg.Dir)
	}

	s3cfg := &S3Config{
		Type:      t,
		Endpoint:  cfg.Endpoint,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		UseSSL:    cfg.UseSSL,
		Bucket:    cfg.Bucket,
		Region:    cfg.Region,
		PublicURL: cfg.PublicURL,
	}
	switch t {
	case StorageTypeS3, StorageTypeR2, StorageTypeS3Compatible:
	case "auto":
		s3cfg.Type = detectStorageType(cfg.Endpoint)
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}

	s, err := NewS3Storage(s3cfg)
	if err != nil {
		return nil, err
	}
	if err := s.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	logger.Info("Using %s storage, bucket %s", s3cfg.Type, cfg.Bucket)
	return s, nil
}

// detectStorageType guesses the provider from the endpoint.
func detectStorageType(endpoint string) StorageType {
	endpoint = strings.ToLower(endpoint)

	switch {
	case strings.Contains(endpoint, "r2.cloudflarestorage.com"):
		return StorageTypeR2
	case strings.Contains(endpoint, "amazonaws.com"):
		return StorageTypeS3
	default:
		return StorageTypeS3Compatible
	}
}

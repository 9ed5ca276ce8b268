// Package storage persists document artifacts by key. Keys are flat names such
// as "7_9f1c...pdf"; backends map them onto a directory or a bucket prefix.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pdflex/pdflex-backend/pkg/config"
	"github.com/pdflex/pdflex-backend/pkg/logger"
)

// ErrNotFound is returned by Get when the key does not exist.
var ErrNotFound = errors.New("storage: object not found")

// Store is the artifact store used by the document pipeline.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

// New builds the backend selected by cfg.Driver.
func New(ctx context.Context, cfg config.StorageConfig, logg *logger.Logger) (Store, error) {
	var (
		store Store
		err   error
	)
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case config.StorageDriverLocal:
		store, err = NewLocal(cfg.LocalDir)
	case config.StorageDriverS3:
		store, err = NewS3(S3Options{
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			Endpoint:     cfg.S3Endpoint,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
			Prefix:       cfg.S3Prefix,
			UsePathStyle: cfg.S3UsePathStyle,
		})
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}
	if logg != nil {
		logg.Info(logg.WithField(ctx, "driver", cfg.Driver), "storage initialized")
	}
	return store, nil
}

func validateKey(key string) error {
	switch {
	case strings.TrimSpace(key) == "":
		return errors.New("storage: empty key")
	case strings.Contains(key, ".."), strings.ContainsAny(key, `/\`):
		return fmt.Errorf("storage: invalid key %q", key)
	}
	return nil
}

// Package storage stores product images behind a provider-neutral
// interface with local filesystem and Cloudflare R2 backends.
package storage

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/miradev/mira/internal"
)

// Storage defines the interface for file storage operations.
// Implementations can use local filesystem, R2, or any other backend.
type Storage interface {
	// Put stores a file and returns its public URL.
	// The key should come from ObjectKey so uploads never collide.
	Put(ctx context.Context, key string, content io.Reader, contentType string) (string, error)

	// Get retrieves a file by its key.
	// Returns an io.ReadCloser that must be closed by the caller.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes a file by its key.
	// Returns nil if the file doesn't exist (idempotent).
	Delete(ctx context.Context, key string) error

	// URL returns the public URL for accessing a stored file.
	// For local storage this is a relative path; for R2 the full HTTPS URL.
	URL(key string) string

	// Exists checks if a file exists at the given key.
	Exists(ctx context.Context, key string) (bool, error)
}

// NewStorage creates a Storage implementation based on configuration.
// Returns LocalStorage for "local" provider, R2Storage for "r2" provider.
func NewStorage(cfg internal.StorageConfig) (Storage, error) {
	switch cfg.Provider {
	case "local", "":
		return NewLocalStorage(cfg.LocalPath, cfg.LocalURL)
	case "r2":
		return NewR2Storage(R2Config{
			AccountID:   cfg.R2AccountID,
			AccessKeyID: cfg.R2AccessKeyID,
			SecretKey:   cfg.R2SecretKey,
			BucketName:  cfg.R2BucketName,
			PublicURL:   cfg.R2PublicURL,
		})
	default:
		return nil, ErrUnknownProvider(cfg.Provider)
	}
}

// ObjectKey builds a collision-resistant key for an uploaded product image:
// a millisecond timestamp plus a random token, keeping the original file
// extension. Two admins uploading the same filename in the same millisecond
// still get distinct keys.
func ObjectKey(filename string) (string, error) {
	token := make([]byte, 6)
	if _, err := rand.Read(token); err != nil {
		return "", fmt.Errorf("failed to generate random token: %w", err)
	}

	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("products/%d-%s%s", time.Now().UnixMilli(), hex.EncodeToString(token), ext), nil
}

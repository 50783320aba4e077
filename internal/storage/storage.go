// Package storage provides S3-compatible object storage for mirrored image
// bytes, so saved items survive their upstream disappearing.
package storage

import (
	"context"
	"io"
	"strings"
)

// ObjectStorage defines the object storage operations the mirror needs.
type ObjectStorage interface {
	// Upload uploads an object to storage.
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error

	// Delete deletes an object from storage. Deleting an absent key is not
	// an error.
	Delete(ctx context.Context, key string) error

	// Exists checks if an object exists.
	Exists(ctx context.Context, key string) (bool, error)

	// GetURL returns the URL for accessing an object.
	GetURL(key string) string

	// EnsureBucket creates the bucket if it does not exist.
	EnsureBucket(ctx context.Context) error
}

// New creates an ObjectStorage instance based on the configuration,
// auto-detecting the storage flavor from the endpoint when unset.
// Parameters:
//   - cfg: storage configuration including endpoint, credentials, and bucket.
// Returns:
//   - ObjectStorage: initialized storage client.
//   - error: non-nil if the client cannot be created.
func New(cfg *S3Config) (ObjectStorage, error) {
	if cfg.Type == "" {
		cfg.Type = detectStorageType(cfg.Endpoint)
	}
	return NewS3Storage(cfg)
}

// detectStorageType guesses the storage flavor from the endpoint host.
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

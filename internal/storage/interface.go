package storage

import (
	"context"
	"io"
)

// ObjectStorage is where exported spreadsheets and the robot installer are kept.
type ObjectStorage interface {
	// Upload writes an object. size may be -1 when unknown.
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error

	// Download opens a stored object.
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// GetURL returns where the object can be found: a file path or a URL.
	GetURL(key string) string

	Delete(ctx context.Context, key string) error

	Exists(ctx context.Context, key string) (bool, error)
}

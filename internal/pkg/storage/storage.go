package storage

import (
	"context"
	"io"
)

// Storage is the minimal interface media backends implement.
type Storage interface {
	// Put stores a file at the given key.
	Put(ctx context.Context, key string, reader io.Reader, contentType string) error

	// Delete removes a file by key. Returns nil if the file doesn't exist.
	Delete(ctx context.Context, key string) error

	// Exists reports whether a file is present.
	Exists(ctx context.Context, key string) (bool, error)

	// URL returns the public URL for a stored file.
	URL(key string) string
}

// Config holds S3 backend settings.
type Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	PublicURL string
}

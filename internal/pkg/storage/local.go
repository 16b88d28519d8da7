package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage implements Storage on the local filesystem, for development.
type LocalStorage struct {
	baseDir   string
	publicURL string
}

// NewLocalStorage creates a filesystem-backed storage rooted at baseDir
func NewLocalStorage(baseDir, publicURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media dir: %w", err)
	}
	return &LocalStorage{baseDir: baseDir, publicURL: strings.TrimSuffix(publicURL, "/")}, nil
}

// Put stores a file under baseDir
func (l *LocalStorage) Put(ctx context.Context, key string, reader io.Reader, contentType string) error {
	path := filepath.Join(l.baseDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(f, reader)
	return err
}

// Delete removes a file; missing files are not an error
func (l *LocalStorage) Delete(ctx context.Context, key string) error {
	err := os.Remove(filepath.Join(l.baseDir, filepath.FromSlash(key)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Exists reports whether the file is present
func (l *LocalStorage) Exists(ctx context.Context, key string) (bool, error) {
	_, err := os.Stat(filepath.Join(l.baseDir, filepath.FromSlash(key)))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// URL returns the public URL for a file
func (l *LocalStorage) URL(key string) string {
	if l.publicURL != "" {
		return l.publicURL + "/" + key
	}
	return "/media/" + key
}

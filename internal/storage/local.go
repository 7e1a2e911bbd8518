package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalBackend stores assets on the local filesystem under a base
// directory served at a configured base URL.
type LocalBackend struct {
	baseDir string
	baseURL string
}

// NewLocalBackend creates a local disk backend
func NewLocalBackend(baseDir, baseURL string) *LocalBackend {
	return &LocalBackend{
		baseDir: baseDir,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// Provider returns the backend identifier
func (b *LocalBackend) Provider() string {
	return "local"
}

// Store writes the asset under baseDir/folder and returns its URL
func (b *LocalBackend) Store(ctx context.Context, folder, filename string, data []byte, contentType string) (string, error) {
	dir := filepath.Join(b.baseDir, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}

	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write media file: %w", err)
	}

	if folder != "" {
		return fmt.Sprintf("%s/%s/%s", b.baseURL, folder, filename), nil
	}
	return fmt.Sprintf("%s/%s", b.baseURL, filename), nil
}

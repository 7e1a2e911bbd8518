package storage

import (
	"context"
	"fmt"
	"path"

	gcs "cloud.google.com/go/storage"
)

// GCSBackend stores assets in a Google Cloud Storage bucket
type GCSBackend struct {
	client *gcs.Client
	bucket string
}

// NewGCSBackend creates an object store backend for the given bucket
func NewGCSBackend(ctx context.Context, bucket string) (*GCSBackend, error) {
	client, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &GCSBackend{client: client, bucket: bucket}, nil
}

// Provider returns the backend identifier
func (b *GCSBackend) Provider() string {
	return "gcs"
}

// Store uploads the asset and returns its public URL
func (b *GCSBackend) Store(ctx context.Context, folder, filename string, data []byte, contentType string) (string, error) {
	object := path.Join(folder, filename)
	w := b.client.Bucket(b.bucket).Object(object).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := w.Write(data); err != nil {
		w.Close()
		return "", fmt.Errorf("failed to upload object: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize upload: %w", err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", b.bucket, object), nil
}

// Close closes the underlying storage client
func (b *GCSBackend) Close() error {
	return b.client.Close()
}

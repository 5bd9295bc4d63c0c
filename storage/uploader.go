package storage

import (
	"context"
	"io"
)

type UploadResult struct {
	Key      string
	Location string
}

// FileUploader stores team logos and player photos.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)
	Delete(ctx context.Context, key string) error
	GetPublicURL(key string) string
}

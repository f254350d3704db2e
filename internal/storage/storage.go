package storage

import (
	"context"
	"io"
)

// Uploader stores chat attachments and returns a URL the LLM provider can fetch.
type Uploader interface {
	Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (publicURL string, err error)
	Delete(ctx context.Context, objectName string) error
}

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"

	gcs "cloud.google.com/go/storage"
)

const maxObjectBytes = 10 << 20

type GCSUploader struct {
	client *gcs.Client
	bucket string
}

func NewGCSUploader(ctx context.Context, bucket string) (*GCSUploader, error) {
	if bucket == "" {
		return nil, fmt.Errorf("gcs bucket is required")
	}
	c, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &GCSUploader{client: c, bucket: bucket}, nil
}

func (u *GCSUploader) Close() error { return u.client.Close() }

func (u *GCSUploader) Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (string, error) {
	obj := u.client.Bucket(u.bucket).Object(objectName)

	w := obj.NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=86400"

	n, err := io.Copy(w, io.LimitReader(r, maxObjectBytes+1))
	if err != nil {
		_ = w.Close()
		return "", err
	}
	if n > maxObjectBytes {
		_ = w.Close()
		_ = obj.Delete(ctx)
		return "", fmt.Errorf("object %s exceeds %d bytes", objectName, maxObjectBytes)
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	// public read so the LLM provider can fetch the image by URL
	if err := obj.ACL().Set(ctx, gcs.AllUsers, gcs.RoleReader); err != nil {
		return "", err
	}

	return PublicURL(u.bucket, objectName), nil
}

func (u *GCSUploader) Delete(ctx context.Context, objectName string) error {
	err := u.client.Bucket(u.bucket).Object(objectName).Delete(ctx)
	if errors.Is(err, gcs.ErrObjectNotExist) {
		return nil
	}
	return err
}

func PublicURL(bucket, objectName string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, (&url.URL{Path: objectName}).EscapedPath())
}

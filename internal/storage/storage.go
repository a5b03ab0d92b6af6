package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"medintake/config"
)

// Handle identifies an uploaded object.
type Handle struct {
	Bucket string
	Key    string
}

type BlobStore interface {
	Upload(ctx context.Context, key string, data io.Reader, size int64, contentType string) (Handle, error)

	RetrievalURL(ctx context.Context, h Handle) (string, error)
}

// NewBlobStore builds the Blob Store selected by cfg.Storage.BlobProvider.
func NewBlobStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (BlobStore, error) {
	switch cfg.Storage.BlobProvider {
	case config.BlobProviderMinio:
		return NewMinioStore(ctx, cfg.S3, logger)
	case config.BlobProviderS3:
		return NewS3Store(ctx, cfg.S3, logger)
	case config.BlobProviderMemory:
		return NewMemoryStore(cfg.S3.Bucket), nil
	}
	return nil, fmt.Errorf("unsupported blob provider %q", cfg.Storage.BlobProvider)
}

// publicURL joins base and an object key, escaping each key segment.
func publicURL(base, key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.TrimRight(base, "/") + "/" + strings.Join(segments, "/")
}

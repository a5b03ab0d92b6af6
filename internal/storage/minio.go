package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"medintake/config"
)

type MinioStore struct {
	client *minio.Client
	cfg    config.S3Config
	logger *zap.Logger
}

func NewMinioStore(ctx context.Context, cfg config.S3Config, logger *zap.Logger) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.Bucket, err)
	}

	if !exists {
		err = client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{
			Region: cfg.Region,
		})
		if err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.Bucket, err)
		}
		logger.Info("bucket created", zap.String("bucket", cfg.Bucket))
	}

	return &MinioStore{
		client: client,
		cfg:    cfg,
		logger: logger,
	}, nil
}

func (s *MinioStore) Upload(ctx context.Context, key string, data io.Reader, size int64, contentType string) (Handle, error) {
	if key == "" {
		return Handle{}, errors.New("empty object key")
	}

	info, err := s.client.PutObject(ctx, s.cfg.Bucket, key, data, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return Handle{}, fmt.Errorf("put object %s: %w", key, err)
	}

	s.logger.Debug("object uploaded",
		zap.String("bucket", info.Bucket),
		zap.String("key", info.Key),
		zap.Int64("size", info.Size),
	)

	return Handle{Bucket: s.cfg.Bucket, Key: key}, nil
}

func (s *MinioStore) RetrievalURL(ctx context.Context, h Handle) (string, error) {
	if h.Key == "" {
		return "", errors.New("empty object key")
	}

	if s.cfg.PublicURL != "" {
		return publicURL(s.cfg.PublicURL, h.Key), nil
	}

	// Path-style URL served by the MinIO endpoint itself.
	endpoint := s.client.EndpointURL()
	return publicURL(endpoint.String()+"/"+h.Bucket, h.Key), nil
}

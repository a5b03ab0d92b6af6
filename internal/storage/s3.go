package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"medintake/config"
)

// s3API is the subset of *s3.Client the store needs.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store talks to AWS S3 or any S3-compatible endpoint (R2, Wasabi) through the AWS SDK.
type S3Store struct {
	client s3API
	cfg    config.S3Config
	logger *zap.Logger
}

func NewS3Store(ctx context.Context, cfg config.S3Config, logger *zap.Logger) (*S3Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			scheme := "https://"
			if !cfg.UseSSL {
				scheme = "http://"
			}
			o.BaseEndpoint = aws.String(scheme + cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return newS3Store(client, cfg, logger), nil
}

func newS3Store(client s3API, cfg config.S3Config, logger *zap.Logger) *S3Store {
	return &S3Store{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

func (s *S3Store) Upload(ctx context.Context, key string, data io.Reader, size int64, contentType string) (Handle, error) {
	if key == "" {
		return Handle{}, errors.New("empty object key")
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(key),
		Body:          data,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return Handle{}, fmt.Errorf("put object %s: %w", key, err)
	}

	s.logger.Debug("object uploaded", zap.String("bucket", s.cfg.Bucket), zap.String("key", key), zap.Int64("size", size))

	return Handle{Bucket: s.cfg.Bucket, Key: key}, nil
}

func (s *S3Store) RetrievalURL(_ context.Context, h Handle) (string, error) {
	if h.Key == "" {
		return "", errors.New("empty object key")
	}

	if s.cfg.PublicURL != "" {
		return publicURL(s.cfg.PublicURL, h.Key), nil
	}

	base := fmt.Sprintf("https://%s.s3.%s.amazonaws.com", h.Bucket, s.cfg.Region)
	return publicURL(base, h.Key), nil
}

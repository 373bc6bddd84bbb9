package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinioOpts func(c *minioConfig)

type minioConfig struct {
	endpoint        string
	bucket          string
	accessKey       string
	secretAccessKey string
	useSSL          bool
	urlExpiry       time.Duration
}

func WithEndpoint(endpoint string) MinioOpts {
	return func(c *minioConfig) { c.endpoint = endpoint }
}

func WithBucket(bucket string) MinioOpts {
	return func(c *minioConfig) { c.bucket = bucket }
}

func WithCredentials(accessKey, secretAccessKey string) MinioOpts {
	return func(c *minioConfig) {
		c.accessKey = accessKey
		c.secretAccessKey = secretAccessKey
	}
}

func WithSSL(useSSL bool) MinioOpts {
	return func(c *minioConfig) { c.useSSL = useSSL }
}

// WithURLExpiry sets the lifetime of the presigned URLs returned by Save.
func WithURLExpiry(d time.Duration) MinioOpts {
	return func(c *minioConfig) { c.urlExpiry = d }
}

// MinioStore uploads artifacts to an S3 compatible bucket.
type MinioStore struct {
	cfg    *minioConfig
	client *minio.Client
}

func NewMinioStore(opts ...MinioOpts) (*MinioStore, error) {
	cfg := &minioConfig{
		bucket:    "auto-aspen",
		urlExpiry: 24 * time.Hour,
	}
	for _, o := range opts {
		o(cfg)
	}
	if cfg.endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}

	client, err := minio.New(cfg.endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.accessKey, cfg.secretAccessKey, ""),
		Secure: cfg.useSSL,
	})
	if err != nil {
		return nil, err
	}

	return &MinioStore{cfg: cfg, client: client}, nil
}

// EnsureBucket creates the bucket if it does not exist.
func (s *MinioStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.cfg.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", s.cfg.bucket, err)
	}
	if exists {
		return nil
	}
	return s.client.MakeBucket(ctx, s.cfg.bucket, minio.MakeBucketOptions{})
}

func (s *MinioStore) Save(ctx context.Context, name, contentType string, r io.Reader, size int64) (string, error) {
	if _, err := s.client.PutObject(ctx, s.cfg.bucket, name, r, size, minio.PutObjectOptions{ContentType: contentType}); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", name, err)
	}

	u, err := s.client.PresignedGetObject(ctx, s.cfg.bucket, name, s.cfg.urlExpiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", name, err)
	}
	return u.String(), nil
}

package s3

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/vidtube/video-platform/internal/core/domain"
)

// Config captures the settings for the S3-compatible asset bucket.
type Config struct {
	Region        string
	Bucket        string
	Endpoint      string // non-empty for MinIO or other S3-compatible stores
	AccessKey     string
	SecretKey     string
	PublicBaseURL string // prefix for returned asset URLs
}

// AssetStore uploads user assets (avatars, cover images) to an S3 bucket and
// returns their public URLs.
type AssetStore struct {
	client *s3.Client
	cfg    Config
}

// New builds the S3 client once at startup.
func New(ctx context.Context, cfg Config) (*AssetStore, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("s3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &AssetStore{client: client, cfg: cfg}, nil
}

// Upload stores the object under a date-partitioned random key and returns its
// public URL. Failures surface as domain.ErrAssetUpload with the cause logged
// by the caller, never exposed.
func (s *AssetStore) Upload(ctx context.Context, prefix, contentType string, body io.Reader) (string, error) {
	key := storageKey(prefix)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("%w: put %s: %v", domain.ErrAssetUpload, key, err)
	}

	return strings.TrimSuffix(s.cfg.PublicBaseURL, "/") + "/" + key, nil
}

// storageKey builds keys like avatars/2026/8/31/<uuid>.
func storageKey(prefix string) string {
	d := time.Now().UTC()
	return fmt.Sprintf("%s/%d/%d/%d/%s", prefix, d.Year(), d.Month(), d.Day(), uuid.New())
}

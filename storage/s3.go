package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds the S3-compatible target for cover mirroring. The
// upstream serves covers through a resize proxy on the API host; the
// mirror keeps a CDN-friendly copy so the grid does not hammer it.
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string // optional, for DO Spaces / R2
	AccessKeyID     string
	SecretAccessKey string
}

// Configured reports whether the mirror should run at all.
func (c S3Config) Configured() bool {
	return c.Bucket != "" && c.AccessKeyID != ""
}

// S3Mirror uploads cover images to S3-compatible storage.
type S3Mirror struct {
	client *s3.Client
	cfg    S3Config
}

func NewS3Mirror(ctx context.Context, cfg S3Config) (*S3Mirror, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	var client *s3.Client
	if cfg.Endpoint != "" {
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	} else {
		client = s3.NewFromConfig(awsCfg)
	}

	return &S3Mirror{client: client, cfg: cfg}, nil
}

// Upload stores one object under the given key.
func (m *S3Mirror) Upload(ctx context.Context, key string, data io.Reader, contentType string) error {
	_, err := m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.cfg.Bucket),
		Key:         aws.String(key),
		Body:        data,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("put object: %w", err)
	}
	return nil
}

// PublicURL returns the address a mirrored key is served from.
func (m *S3Mirror) PublicURL(key string) string {
	if m.cfg.Endpoint != "" && strings.Contains(m.cfg.Endpoint, "digitaloceanspaces.com") {
		// DO Spaces: https://{bucket}.{region}.digitaloceanspaces.com/{key}
		host := strings.TrimPrefix(m.cfg.Endpoint, "https://")
		return fmt.Sprintf("https://%s.%s/%s", m.cfg.Bucket, host, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", m.cfg.Bucket, m.cfg.Region, key)
}

// Package storage implements the object-store contract over any
// S3-compatible backend (AWS S3, Wasabi, MinIO).
package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Config holds the S3-compatible storage settings.
type Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	Bucket          string
	// Custom endpoint host (e.g. "s3.ap-southeast-1.wasabisys.com").
	// Empty means plain AWS S3.
	Endpoint string
}

// Store uploads objects and derives their public URLs. Objects are never
// deleted here; an orphaned upload after a failed record write is an
// accepted cost (keys carry a uniqueness token so they never collide).
type Store struct {
	client *s3.Client
	bucket string
	// Base URL objects are served from, without trailing slash.
	publicBase string
}

func New(ctx context.Context, cfg Config) (*Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var client *s3.Client
	var publicBase string

	if cfg.Endpoint != "" {
		endpoint := strings.TrimSuffix(cfg.Endpoint, "/")
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String("https://" + endpoint)
			o.UsePathStyle = true // Wasabi/MinIO require path-style
		})
		publicBase = fmt.Sprintf("https://%s/%s", endpoint, cfg.Bucket)
	} else {
		client = s3.NewFromConfig(awsCfg)
		publicBase = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}

	return &Store{
		client:     client,
		bucket:     cfg.Bucket,
		publicBase: publicBase,
	}, nil
}

// Upload stores the object under key and returns its public URL.
func (s *Store) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return s.PublicURL(key), nil
}

// PublicURL resolves the publicly addressable URL for a stored key.
func (s *Store) PublicURL(key string) string {
	return s.publicBase + "/" + strings.TrimPrefix(key, "/")
}

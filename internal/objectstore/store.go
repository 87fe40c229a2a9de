// Package objectstore uploads exported study plans to S3-compatible storage
// (AWS S3, Cloudflare R2, MinIO).
package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
	"github.com/stemsi/studypilot-backend/internal/config"
)

// Store writes objects to a single bucket.
type Store struct {
	client    *s3.Client
	presign   *s3.PresignClient
	bucket    string
	publicURL string
	urlExpiry time.Duration
	log       zerolog.Logger
}

// New builds a Store from configuration. It returns (nil, nil) when no
// bucket is configured so that export can be switched off.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Store, error) {
	if cfg.ExportBucket == "" {
		log.Warn().Msg("EXPORT_BUCKET not set, plan export disabled")
		return nil, nil
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.ExportRegion),
	}
	if cfg.ExportAccessKeyID != "" && cfg.ExportSecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.ExportAccessKeyID, cfg.ExportSecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.ExportEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.ExportEndpoint)
			o.UsePathStyle = true
		}
	})

	log.Info().
		Str("bucket", cfg.ExportBucket).
		Str("endpoint", cfg.ExportEndpoint).
		Msg("Object store initialized")

	return &Store{
		client:    client,
		presign:   s3.NewPresignClient(client),
		bucket:    cfg.ExportBucket,
		publicURL: cfg.ExportPublicBaseURL,
		urlExpiry: cfg.ExportURLExpiry,
		log:       log.With().Str("component", "objectstore").Logger(),
	}, nil
}

// Put uploads body under key and returns a URL for reading it back: a
// public URL when a public base is configured, a presigned GET otherwise.
func (s *Store) Put(ctx context.Context, key, contentType string, body []byte) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	if s.publicURL != "" {
		return PublicURL(s.publicURL, key)
	}

	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.urlExpiry))
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}

	s.log.Debug().Str("key", key).Int("bytes", len(body)).Msg("Object uploaded")
	return req.URL, nil
}

// PlanKey is the object key of a user's exported plan.
func PlanKey(userID, planID string) string {
	return path.Join("plans", userID, planID+".json")
}

// PublicURL joins an object key onto a public bucket URL.
func PublicURL(base, key string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse public url: %w", err)
	}
	u.Path = path.Join("/", u.Path, key)
	return u.String(), nil
}

// Package storage holds the object-store client for anexos (attachments).
// Bytes go to an S3-compatible bucket (AWS S3 in production, MinIO locally);
// only metadata lives in MySQL.
package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dcastrolima/protocolo-municipal/internal/config"
)

// AnexoStore wraps a single bucket.  Object keys are "{protocoloID}/{name}"
// so deleting a protocolo's anexos is a prefix operation if ever needed.
type AnexoStore struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
}

// NewAnexoStore builds the store from StorageConfig.  Credentials come from
// the default AWS chain; a custom Endpoint switches to path-style MinIO-like
// addressing when requested.
func NewAnexoStore(ctx context.Context, cfg config.StorageConfig) (*AnexoStore, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("anexo storage: bucket required")
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.PathStyle {
			o.UsePathStyle = true
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return &AnexoStore{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
	}, nil
}

// Upload streams one anexo to the bucket.
func (s *AnexoStore) Upload(ctx context.Context, key string, r io.Reader, contentType string) error {
	input := &s3.PutObjectInput{Bucket: &s.bucket, Key: &key, Body: r}
	if contentType != "" {
		input.ContentType = &contentType
	}
	_, err := s.client.PutObject(ctx, input)
	return err
}

// PresignDownload returns a time-limited GET URL for an object.  The API
// hands this URL to the browser instead of proxying the bytes itself.
func (s *AnexoStore) PresignDownload(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if expiry <= 0 {
		expiry = time.Minute
	}
	out, err := s.presign.PresignGetObject(ctx,
		&s3.GetObjectInput{Bucket: &s.bucket, Key: &key},
		func(po *s3.PresignOptions) { po.Expires = expiry })
	if err != nil {
		return "", err
	}
	return out.URL, nil
}

// Remove deletes one object.  S3 delete is idempotent; removing a key that is
// already gone is not an error.
func (s *AnexoStore) Remove(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: &s.bucket, Key: &key})
	return err
}

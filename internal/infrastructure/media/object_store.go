// Package media provides attachment storage and image inspection for
// customer uploads.
package media

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/nearcart/nearcart-go/internal/infrastructure/observability/logging"
	"github.com/nearcart/nearcart-go/pkg/config"
)

// S3ObjectStore persists attachment payloads in an S3 bucket and hands back
// a public URL for each stored object.
type S3ObjectStore struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
	logger        *logging.ChanneledLogger
}

// NewS3ObjectStore builds a store from the ambient AWS credential chain.
func NewS3ObjectStore(ctx context.Context, logger *logging.ChanneledLogger) (*S3ObjectStore, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(config.S3Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	baseURL := config.S3PublicBaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", config.S3Bucket, config.S3Region)
	}

	return &S3ObjectStore{
		client:        s3.NewFromConfig(cfg),
		bucket:        config.S3Bucket,
		publicBaseURL: baseURL,
		logger:        logger,
	}, nil
}

// Put uploads a payload under the given key and returns its public URL.
func (s *S3ObjectStore) Put(ctx context.Context, key string, payload []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to store object %s: %w", key, err)
	}

	s.logger.Media().Debug("Stored object", "key", key, "bytes", len(payload), "contentType", contentType)
	return fmt.Sprintf("%s/%s", s.publicBaseURL, key), nil
}

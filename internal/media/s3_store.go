package media

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"shopkart/internal/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// s3Store implements Store on top of an S3 bucket with public-read objects.
type s3Store struct {
	client *s3.Client
	bucket string
	region string
	prefix string
	logger zerolog.Logger
}

// NewS3Store creates a new S3-backed media store.
func NewS3Store(ctx context.Context, bucket, region, prefix string, logger zerolog.Logger) (Store, error) {
	logger = logger.With().Str("component", "s3-media-store").Logger()

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := s3.NewFromConfig(cfg)

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Str("prefix", prefix).
		Msg("S3 media store initialised")

	return &s3Store{
		client: client,
		bucket: bucket,
		region: region,
		prefix: prefix,
		logger: logger,
	}, nil
}

// Upload stores the file under a store-assigned key and returns its ref.
func (s *s3Store) Upload(ctx context.Context, f File) (model.MediaRef, error) {
	format, width, height, err := probeImage(f.Data)
	if err != nil {
		s.logger.Warn().Err(err).Str("file", f.Name).Msg("rejected media upload")
		return model.MediaRef{}, err
	}

	id := objectKey(s.prefix, format)

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(id),
		Body:        bytes.NewReader(f.Data),
		ContentType: aws.String("image/" + format),
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("bucket", s.bucket).
			Str("key", id).
			Msg("failed to put object")
		return model.MediaRef{}, fmt.Errorf("failed to upload media (bucket=%s, key=%s): %w", s.bucket, id, err)
	}

	ref := model.MediaRef{
		ID:     id,
		URL:    publicURL(s.bucket, s.region, id),
		Format: format,
		Width:  width,
		Height: height,
	}

	s.logger.Debug().
		Str("key", id).
		Str("format", format).
		Int("bytes", len(f.Data)).
		Msg("media uploaded")

	return ref, nil
}

// Delete removes the object. S3 DeleteObject succeeds for missing keys, which
// gives us the idempotency the compensation path relies on.
func (s *s3Store) Delete(ctx context.Context, id string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(id),
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("bucket", s.bucket).
			Str("key", id).
			Msg("failed to delete object")
		return fmt.Errorf("failed to delete media (bucket=%s, key=%s): %w", s.bucket, id, err)
	}

	s.logger.Debug().Str("key", id).Msg("media deleted")
	return nil
}

// objectKey builds a store-assigned key: prefix + random UUID + format suffix.
func objectKey(prefix, format string) string {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return prefix + uuid.NewString() + "." + format
}

// publicURL builds the virtual-hosted-style URL for an object.
func publicURL(bucket, region, key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, key)
}

package feed

import (
	"context"
	"errors"
	"fmt"

	"little-lemon/internal/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// ObjectGetter is the subset of the S3 client used by the loader.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// s3Loader implements Loader for a menu document stored in AWS S3.
type s3Loader struct {
	client       ObjectGetter
	bucket       string
	key          string
	imageBaseURL string
	logger       zerolog.Logger
}

// NewS3Loader creates an S3-based menu loader using the default AWS credential chain.
func NewS3Loader(ctx context.Context, bucket, region, key, imageBaseURL string, logger zerolog.Logger) (Loader, error) {
	logger = logger.With().Str("component", "s3-feed-loader").Logger()

	// Load AWS configuration
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Str("key", key).
		Msg("S3 loader initialised")

	return NewS3LoaderWithClient(s3.NewFromConfig(cfg), bucket, key, imageBaseURL, logger), nil
}

// NewS3LoaderWithClient creates an S3-based menu loader around an existing client.
func NewS3LoaderWithClient(client ObjectGetter, bucket, key, imageBaseURL string, logger zerolog.Logger) Loader {
	return &s3Loader{
		client:       client,
		bucket:       bucket,
		key:          key,
		imageBaseURL: imageBaseURL,
		logger:       logger.With().Str("component", "s3-feed-loader").Logger(),
	}
}

func (l *s3Loader) Name() string {
	return "s3"
}

// Load reads and maps the menu document from S3. Keys ending in .gz are decompressed.
func (l *s3Loader) Load(ctx context.Context) ([]model.MenuItem, error) {
	l.logger.Info().
		Str("bucket", l.bucket).
		Str("key", l.key).
		Msg("loading menu feed from S3")

	// Get object from S3
	result, err := l.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(l.key),
	})
	if err != nil {
		l.logger.Error().
			Err(err).
			Str("bucket", l.bucket).
			Str("key", l.key).
			Msg("failed to get object from S3")
		return nil, fmt.Errorf("failed to get object from S3 (bucket=%s, key=%s): %w", l.bucket, l.key, err)
	}
	if result.Body == nil {
		return nil, errors.New("S3 object has no body")
	}
	defer result.Body.Close()

	items, err := decodeMaybeGzip(result.Body, l.key, l.imageBaseURL)
	if err != nil {
		l.logger.Error().
			Err(err).
			Str("bucket", l.bucket).
			Str("key", l.key).
			Msg("failed to read menu feed from S3")
		return nil, err
	}

	l.logger.Info().
		Str("bucket", l.bucket).
		Str("key", l.key).
		Int("items", len(items)).
		Msg("menu feed loaded successfully from S3")

	return items, nil
}

package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"
)

// ObjectGetter is the subset of the S3 client used by the loader.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// s3Loader implements Loader for backing files stored in AWS S3.
type s3Loader struct {
	client ObjectGetter
	bucket string
	logger zerolog.Logger
}

// NewS3Loader creates a new S3-based loader using the default AWS credential chain.
func NewS3Loader(ctx context.Context, bucket, region string, logger zerolog.Logger) (Loader, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Msg("S3 loader initialised")

	return NewS3LoaderWithClient(s3.NewFromConfig(cfg), bucket, logger), nil
}

// NewS3LoaderWithClient creates an S3 loader around an existing client.
func NewS3LoaderWithClient(client ObjectGetter, bucket string, logger zerolog.Logger) Loader {
	return &s3Loader{
		client: client,
		bucket: bucket,
		logger: logger.With().Str("component", "s3-loader").Logger(),
	}
}

// Load fetches the object stored under key.
func (l *s3Loader) Load(ctx context.Context, key string) (io.ReadCloser, error) {
	l.logger.Info().
		Str("bucket", l.bucket).
		Str("key", key).
		Msg("loading inventory file from S3")

	result, err := l.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, fmt.Errorf("object %s not found in bucket %s: %w", key, l.bucket, fs.ErrNotExist)
		}
		l.logger.Error().
			Err(err).
			Str("bucket", l.bucket).
			Str("key", key).
			Msg("failed to get object from S3")
		return nil, fmt.Errorf("failed to get object from S3 (bucket=%s, key=%s): %w", l.bucket, key, err)
	}

	return decompress(key, result.Body)
}

// fallbackLoader reads the local backing file and, only when it does not
// exist, seeds from S3.
type fallbackLoader struct {
	fileLoader Loader
	s3Loader   Loader
	s3Prefix   string
	s3Enabled  bool
	logger     zerolog.Logger
}

// NewFallbackLoader creates a loader that tries the local file system first
// and falls back to S3 when the local file is missing.
// If s3Loader is nil or s3Enabled is false, only the file loader is used.
func NewFallbackLoader(fileLoader, s3Loader Loader, s3Prefix string, s3Enabled bool, logger zerolog.Logger) Loader {
	return &fallbackLoader{
		fileLoader: fileLoader,
		s3Loader:   s3Loader,
		s3Prefix:   s3Prefix,
		s3Enabled:  s3Enabled,
		logger:     logger.With().Str("component", "fallback-loader").Logger(),
	}
}

// Load opens filePath locally. On a missing local file the S3 key is built
// from s3Prefix and the base name of filePath.
func (l *fallbackLoader) Load(ctx context.Context, filePath string) (io.ReadCloser, error) {
	rc, err := l.fileLoader.Load(ctx, filePath)
	if err == nil || !errors.Is(err, fs.ErrNotExist) {
		return rc, err
	}

	if !l.s3Enabled || l.s3Loader == nil {
		l.logger.Debug().
			Bool("s3_enabled", l.s3Enabled).
			Bool("has_s3_loader", l.s3Loader != nil).
			Msg("S3 disabled or not configured, no remote seed")
		return nil, err
	}

	s3Key := l.s3Prefix + filepath.Base(filePath)
	l.logger.Info().
		Str("s3_key", s3Key).
		Str("local_path", filePath).
		Msg("local inventory file missing, seeding from S3")

	return l.s3Loader.Load(ctx, s3Key)
}

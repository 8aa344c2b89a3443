package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Store keeps assets as objects in an S3 bucket under an optional key
// prefix.
type S3Store struct {
	client *s3.Client
	bucket string
	prefix string
	logger *slog.Logger
}

// NewS3Store builds a store from the ambient AWS configuration
// (credentials chain, shared config files, instance metadata).
func NewS3Store(ctx context.Context, bucket, region, prefix string, logger *slog.Logger) (*S3Store, error) {
	if bucket == "" {
		return nil, fmt.Errorf("assets: s3 bucket must not be empty")
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("assets: load aws config: %w", err)
	}

	return &S3Store{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		prefix: prefix,
		logger: logger,
	}, nil
}

// Save uploads the stream under a generated key.
func (s *S3Store) Save(ctx context.Context, r io.Reader, suggestedName string) (string, error) {
	if r == nil {
		return "", fmt.Errorf("assets: save: nil reader")
	}

	ref := newRef(suggestedName)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(ref)),
		Body:   r,
	})
	if err != nil {
		return "", fmt.Errorf("assets: save: %w", err)
	}

	return ref, nil
}

// Open streams the object body for the reference.
func (s *S3Store) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(ref)),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("assets: open %s: %w", ref, err)
	}

	return out.Body, nil
}

// Delete removes the object. S3 treats deleting a missing key as a
// success, which matches the idempotency contract here.
func (s *S3Store) Delete(ctx context.Context, ref string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(ref)),
	})
	if err != nil {
		return fmt.Errorf("assets: delete %s: %w", ref, err)
	}

	return nil
}

// BestEffortDelete removes the object, logging instead of returning
// failures.
func (s *S3Store) BestEffortDelete(ctx context.Context, ref string) {
	if ref == "" {
		return
	}
	if err := s.Delete(ctx, ref); err != nil {
		s.logger.Warn("failed to clean up asset", "ref", ref, "error", err)
	}
}

func (s *S3Store) key(ref string) string {
	if s.prefix == "" {
		return ref
	}
	return path.Join(s.prefix, ref)
}

var _ Store = (*S3Store)(nil)

package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ErrNotConfigured is returned by uploads when no bucket is configured.
var ErrNotConfigured = errors.New("object storage is not configured")

// PutObjectAPI is the subset of the S3 client used for uploads.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Options configures an S3Uploader.
type Options struct {
	Bucket        string
	Region        string
	Endpoint      string
	PublicBaseURL string
}

// S3Uploader writes public objects to an S3-compatible bucket.
type S3Uploader struct {
	client        PutObjectAPI
	bucket        string
	publicBaseURL string
}

// NewS3Uploader loads AWS credentials from the default chain. A custom
// endpoint switches to path-style addressing for MinIO and LocalStack.
func NewS3Uploader(ctx context.Context, opts Options) (*S3Uploader, error) {
	if opts.Bucket == "" {
		return &S3Uploader{}, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(opts.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3UploaderWithClient(client, opts), nil
}

// NewS3UploaderWithClient builds an uploader around an existing client.
func NewS3UploaderWithClient(client PutObjectAPI, opts Options) *S3Uploader {
	base := strings.TrimRight(opts.PublicBaseURL, "/")
	if base == "" && opts.Bucket != "" {
		switch {
		case opts.Endpoint != "":
			base = strings.TrimRight(opts.Endpoint, "/") + "/" + opts.Bucket
		default:
			base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", opts.Bucket, opts.Region)
		}
	}
	return &S3Uploader{client: client, bucket: opts.Bucket, publicBaseURL: base}
}

// Enabled reports whether uploads are possible.
func (u *S3Uploader) Enabled() bool {
	return u.client != nil && u.bucket != ""
}

// Upload stores body at key and returns its public URL.
func (u *S3Uploader) Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	if !u.Enabled() {
		return "", ErrNotConfigured
	}

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
		CacheControl:  aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to put object %s: %w", key, err)
	}
	return u.publicBaseURL + "/" + key, nil
}

package blob

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Storage implements the Store interface against any S3-compatible object
// host (AWS, MinIO, etc). The object key is the deletion handle.
type S3Storage struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

// S3Options carries the settings needed to reach the object host.
type S3Options struct {
	Endpoint  string // optional custom endpoint (MinIO); empty for AWS
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	PublicURL string // optional public base URL; defaults to endpoint/bucket
}

// NewS3Storage builds an S3 client with static credentials and an optional
// custom endpoint, path-style addressed so MinIO works out of the box.
func NewS3Storage(ctx context.Context, opts S3Options) (*S3Storage, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(opts.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.AccessKey,
			opts.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("failed to load S3 configuration: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = true
	})

	publicBaseURL := strings.TrimRight(opts.PublicURL, "/")
	if publicBaseURL == "" {
		if opts.Endpoint != "" {
			publicBaseURL = strings.TrimRight(opts.Endpoint, "/") + "/" + opts.Bucket
		} else {
			publicBaseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", opts.Bucket, opts.Region)
		}
	}

	return &S3Storage{
		client:        client,
		bucket:        opts.Bucket,
		publicBaseURL: publicBaseURL,
	}, nil
}

func (s *S3Storage) Upload(ctx context.Context, assetType AssetType, filename string, data io.Reader, contentType string) (Object, error) {
	key := string(assetType) + "/" + filename

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        data,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return Object{}, fmt.Errorf("failed to upload object '%s': %w", key, err)
	}

	return Object{
		URL: s.publicBaseURL + "/" + key,
		Key: key,
	}, nil
}

func (s *S3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object '%s': %w", key, err)
	}
	return nil
}

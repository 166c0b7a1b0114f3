package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const s3KeyPrefix = "images/"

// S3 stores images in a public-read bucket.
type S3 struct {
	bucket    string
	publicURL string
	client    *s3.Client
	uploader  *manager.Uploader
}

// NewS3 loads the default AWS configuration (env, shared config, IMDS).
// publicURL, when set, replaces the bucket URL returned by S3 (for a CDN).
func NewS3(ctx context.Context, bucket, publicURL string) (*S3, error) {
	if bucket == "" {
		return nil, fmt.Errorf("S3_BUCKET is required for the s3 storage driver")
	}

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg)
	return &S3{
		bucket:    bucket,
		publicURL: strings.TrimSuffix(publicURL, "/"),
		client:    client,
		uploader:  manager.NewUploader(client),
	}, nil
}

func (s *S3) Save(ctx context.Context, name, contentType string, body io.Reader) (string, error) {
	key := s3KeyPrefix + name
	result, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ACL:         "public-read",
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", err
	}

	if s.publicURL != "" {
		return s.publicURL + "/" + key, nil
	}
	return result.Location, nil
}

func (s *S3) Delete(ctx context.Context, url string) error {
	name := baseName(url)
	if name == "" {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s3KeyPrefix + name),
	})
	return err
}

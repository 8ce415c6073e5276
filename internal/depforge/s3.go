package depforge

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectStore is the backend for s3:// source locations. Private mirror
// buckets hold archives upstream has deleted or moved.
type ObjectStore interface {
	Download(ctx context.Context, bucket, key string, w io.Writer) error
}

type s3Store struct {
	client *s3.Client
}

// newS3Store builds an S3 client from the default credential chain, with
// optional static credentials and a custom endpoint (R2-style stores) via
// DEPFORGE_S3_* environment variables.
func newS3Store(ctx context.Context) (ObjectStore, error) {
	endpoint := os.Getenv("DEPFORGE_S3_ENDPOINT")
	accessKey := os.Getenv("DEPFORGE_S3_ACCESS_KEY")
	secretKey := os.Getenv("DEPFORGE_S3_SECRET_KEY")
	region := os.Getenv("DEPFORGE_S3_REGION")
	if region == "" {
		region = "auto"
	}

	options := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if accessKey != "" && secretKey != "" {
		options = append(options,
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to load S3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
	return &s3Store{client: client}, nil
}

func (s *s3Store) Download(ctx context.Context, bucket, key string, w io.Writer) error {
	output, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return err
	}
	defer output.Body.Close()

	_, err = io.Copy(w, output.Body)
	return err
}

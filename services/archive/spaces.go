package archive

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// SpacesClient uploads receipt artifacts to DigitalOcean Spaces (S3 API).
// The archive is optional and strictly best-effort: callers log upload
// failures and move on.
type SpacesClient struct {
	s3Client  *s3.S3
	bucket    string
	endpoint  string
	pathStyle bool
}

// SpacesConfig holds configuration for the Spaces client. ForcePathStyle
// addresses the bucket in the URL path instead of the hostname; Spaces itself
// uses hostname addressing, so it is off unless the endpoint needs it.
type SpacesConfig struct {
	AccessKey      string
	SecretKey      string
	Bucket         string
	Region         string
	Endpoint       string
	ForcePathStyle bool
}

// NewSpacesClient creates a new Spaces client.
func NewSpacesClient(config SpacesConfig) (*SpacesClient, error) {
	sess, err := session.NewSession(&aws.Config{
		Credentials: credentials.NewStaticCredentials(
			config.AccessKey,
			config.SecretKey,
			"",
		),
		Endpoint:         aws.String(config.Endpoint),
		Region:           aws.String(config.Region),
		S3ForcePathStyle: aws.Bool(config.ForcePathStyle),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Spaces session: %w", err)
	}

	return &SpacesClient{
		s3Client:  s3.New(sess),
		bucket:    config.Bucket,
		endpoint:  config.Endpoint,
		pathStyle: config.ForcePathStyle,
	}, nil
}

// UploadFile uploads a receipt to Spaces and returns its URL.
func (s *SpacesClient) UploadFile(ctx context.Context, key string, data io.Reader, contentType string) (string, error) {
	_, err := s.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        aws.ReadSeekCloser(data),
		ACL:         aws.String("private"), // receipts carry personal data
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	if s.pathStyle {
		return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, key), nil
	}
	return fmt.Sprintf("https://%s.%s/%s", s.bucket, s.endpoint, key), nil
}

// UploadBytes uploads bytes to Spaces.
func (s *SpacesClient) UploadBytes(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	return s.UploadFile(ctx, key, bytes.NewReader(data), contentType)
}

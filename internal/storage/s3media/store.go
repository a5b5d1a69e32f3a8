// Package s3media stores uploaded media files in an S3-compatible bucket
// and serves them back by public URL.
package s3media

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/msomdec/account-api/internal/config"
)

// Store implements domain.MediaStore on an S3-compatible backend
// (AWS S3, MinIO, etc.).
type Store struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

// New builds a Store from the S3 settings in cfg.
func New(ctx context.Context, cfg *config.Config) (*Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			// Path-style addressing for MinIO-compatible endpoints.
			o.UsePathStyle = true
		}
	})

	publicBaseURL := cfg.S3PublicBaseURL
	if publicBaseURL == "" {
		publicBaseURL = cfg.S3Endpoint
	}

	return &Store{
		client:        client,
		bucket:        cfg.S3Bucket,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
	}, nil
}

// Upload pushes a local temporary file to the bucket and returns its public
// URL. The local file is removed on success and failure alike; callers
// never clean up after Upload.
func (s *Store) Upload(ctx context.Context, localPath string) (string, error) {
	defer os.Remove(localPath)

	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("open upload file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat upload file: %w", err)
	}

	key := storageKey(localPath)
	contentType := mime.TypeByExtension(filepath.Ext(localPath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(info.Size()),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}

	return s.publicBaseURL + "/" + s.bucket + "/" + key, nil
}

// storageKey spreads objects across date-based prefixes and keeps the
// original extension so content type survives the round trip.
func storageKey(localPath string) string {
	d := time.Now()
	return fmt.Sprintf("media/%d/%02d/%02d/%s%s",
		d.Year(), d.Month(), d.Day(), uuid.New(), filepath.Ext(localPath))
}

// Package storage validates uploaded images and archives detection images to
// S3-compatible object storage.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"arogyakrishi/internal/model"
)

// ErrMissingConfig is returned when the object storage settings are incomplete.
var ErrMissingConfig = errors.New("missing object storage configuration")

// Archiver stores a copy of a detection image.
type Archiver interface {
	ArchiveImage(ctx context.Context, data []byte) (*model.UploadResult, error)
}

// S3Config locates the bucket. Endpoint is any S3-compatible API (R2, MinIO).
type S3Config struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	PublicURL       string
	// HTTPClient overrides the SDK transport when set.
	HTTPClient *http.Client
}

// S3Archive uploads normalized JPEG copies of detection images.
type S3Archive struct {
	s3Client  *s3.Client
	bucket    string
	publicURL string
}

// NewS3Archive constructs an S3 client with path-style addressing.
func NewS3Archive(ctx context.Context, cfg S3Config) (*S3Archive, error) {
	if cfg.Endpoint == "" || cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" || cfg.Bucket == "" {
		return nil, ErrMissingConfig
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
		if cfg.HTTPClient != nil {
			o.HTTPClient = cfg.HTTPClient
		}
	})

	publicURL := strings.TrimSuffix(cfg.PublicURL, "/")
	if publicURL == "" {
		publicURL = strings.TrimSuffix(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}

	return &S3Archive{
		s3Client:  s3Client,
		bucket:    cfg.Bucket,
		publicURL: publicURL,
	}, nil
}

// ArchiveImage normalizes data to a 512x512 JPEG and uploads it under
// detections/<uuid>.jpg.
func (s *S3Archive) ArchiveImage(ctx context.Context, data []byte) (*model.UploadResult, error) {
	jpegBytes, err := ResizeToJPEG(data, model.ArchiveWidth, model.ArchiveHeight, 85)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s/%s%s", model.ArchiveFolder, uuid.NewString(), model.ArchiveExt)
	if err := s.putObject(ctx, key, jpegBytes, model.ContentTypeJPEG, model.ArchiveCacheControl); err != nil {
		return nil, err
	}

	return &model.UploadResult{URL: fmt.Sprintf("%s/%s", s.publicURL, key), Key: key}, nil
}

func (s *S3Archive) putObject(ctx context.Context, key string, body []byte, contentType, cacheControl string) error {
	_, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(body),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String(cacheControl),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to object storage: %w", err)
	}
	return nil
}

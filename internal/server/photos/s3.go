package photos

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/carnet/internal/common"
	"github.com/google/uuid"
)

const (
	s3Scheme       = "s3://"
	presignExpires = 15 * time.Minute
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) error {
		_, err := c.PutObject(ctx, in)
		return err
	}

	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}

	now = time.Now
)

// S3Config holds connection settings for an S3-compatible store (MinIO in dev).
type S3Config struct {
	Region       string
	RootUser     string
	RootPassword string
	Bucket       string
	BaseEndpoint string
}

// S3Storage writes photos to a bucket and hands out presigned GET URLs.
type S3Storage struct {
	cfg S3Config

	mu      sync.Mutex
	client  *s3.Client
	presign *s3.PresignClient
}

func NewS3Storage(cfg S3Config) *S3Storage {
	return &S3Storage{cfg: cfg}
}

// StorageKey builds the object key for a new photo.
func StorageKey(t time.Time) string {
	return fmt.Sprintf("photos/%d/%d/%d/%v", t.Year(), t.Month(), t.Day(), uuid.New())
}

func (s *S3Storage) clients(ctx context.Context) (*s3.Client, *s3.PresignClient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		return s.client, s.presign, nil
	}

	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.cfg.RootUser,     // MINIO_ROOT_USER
			s.cfg.RootPassword, // MINIO_ROOT_PASSWORD
			"",
		)))
	if err != nil {
		return nil, nil, fmt.Errorf("aws config: %w: %v", common.ErrorUnavailable, err)
	}

	s.client = newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.cfg.BaseEndpoint)
		}
		// MinIO serves buckets by path
		o.UsePathStyle = true
	})
	s.presign = newS3PresignClient(s.client)
	return s.client, s.presign, nil
}

func (s *S3Storage) Put(ctx context.Context, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty photo: %w", common.ErrorInvalidInput)
	}
	client, _, err := s.clients(ctx)
	if err != nil {
		return "", err
	}

	bucket := s.cfg.Bucket
	key := StorageKey(now())
	err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w: %v", key, common.ErrorUnavailable, err)
	}
	return s3Scheme + bucket + "/" + key, nil
}

func (s *S3Storage) Resolve(ctx context.Context, ref string) (string, error) {
	if isHTTPURL(ref) {
		return ref, nil
	}
	rest, ok := strings.CutPrefix(ref, s3Scheme)
	if !ok {
		return "", unsupportedRef(ref)
	}
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", unsupportedRef(ref)
	}

	_, presign, err := s.clients(ctx)
	if err != nil {
		return "", err
	}

	req, err := presignGetObject(presign, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignExpires))
	if err != nil {
		return "", fmt.Errorf("presign get: %w: %v", common.ErrorUnavailable, err)
	}
	return req.URL, nil
}

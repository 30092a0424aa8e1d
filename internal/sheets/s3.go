package sheets

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type S3Config struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Object          string
	UseSSL          bool
	Region          string
}

// S3Source reads the ledger workbook from S3-compatible object storage.
// The object's ETag serves as the snapshot version.
type S3Source struct {
	client *minio.Client
	bucket string
	object string
}

func NewS3Source(cfg S3Config) (*S3Source, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client: %w", err)
	}

	return &S3Source{client: client, bucket: cfg.Bucket, object: cfg.Object}, nil
}

func (s *S3Source) Open(ctx context.Context) (io.ReadCloser, string, error) {
	stat, err := s.client.StatObject(ctx, s.bucket, s.object, minio.StatObjectOptions{})
	if err != nil {
		return nil, "", fmt.Errorf("stat object %q: %w", s.object, err)
	}

	obj, err := s.client.GetObject(ctx, s.bucket, s.object, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", fmt.Errorf("get object %q: %w", s.object, err)
	}
	return obj, stat.ETag, nil
}

func (s *S3Source) Version(ctx context.Context) (string, error) {
	stat, err := s.client.StatObject(ctx, s.bucket, s.object, minio.StatObjectOptions{})
	if err != nil {
		return "", fmt.Errorf("stat object %q: %w", s.object, err)
	}
	return stat.ETag, nil
}

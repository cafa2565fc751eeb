package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var ErrMissingEndpoint = errors.New("minio endpoint is not configured")

// Minio stores objects in MinIO or another S3-compatible service.
type Minio struct {
	client *minio.Client
}

func NewMinio(client *minio.Client) *Minio {
	return &Minio{client: client}
}

func newMinio(cfg Config) (*Minio, error) {
	if cfg.MinioEndpoint == "" {
		return nil, ErrMissingEndpoint
	}
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioSecure,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	return NewMinio(client), nil
}

func (m *Minio) Open(ctx context.Context, loc Location) (io.ReadCloser, error) {
	// GetObject only fails on the first read, so check existence first.
	if _, err := m.client.StatObject(ctx, loc.Bucket, loc.Key, minio.StatObjectOptions{}); err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.Code == "NotFound" {
			return nil, fmt.Errorf("%s: %w", loc, os.ErrNotExist)
		}
		return nil, err
	}
	obj, err := m.client.GetObject(ctx, loc.Bucket, loc.Key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	return obj, nil
}

// Create buffers the object and uploads it on Close.
func (m *Minio) Create(ctx context.Context, loc Location) (io.WriteCloser, error) {
	return &bufferedWriter{commit: func(data []byte) error {
		_, err := m.client.PutObject(ctx, loc.Bucket, loc.Key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{})
		return err
	}}, nil
}

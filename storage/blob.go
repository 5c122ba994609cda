package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// BlobStore releases stored file bodies. Uploads happen outside this service.
type BlobStore interface {
	Remove(ctx context.Context, path string) error
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type MinioBlobStore struct {
	bucket string
	client *minio.Client
}

func NewMinioBlobStore(cfg MinioConfig) (*MinioBlobStore, error) {
	endpoint := strings.TrimPrefix(strings.TrimPrefix(cfg.Endpoint, "http://"), "https://")
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	return &MinioBlobStore{bucket: cfg.Bucket, client: client}, nil
}

func (s *MinioBlobStore) Remove(ctx context.Context, path string) error {
	if path == "" {
		return nil
	}
	err := s.client.RemoveObject(ctx, s.bucket, path, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}

type NopBlobStore struct{}

func (NopBlobStore) Remove(context.Context, string) error { return nil }

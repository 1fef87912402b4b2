package services

import (
	"context"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinioService interface {
	GetPresignedURL(ctx context.Context, bucketName, objectName string, expiry time.Duration) (string, error)
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	EnsureBucketExists(ctx context.Context, bucketName string) error
}

type minioClient struct {
	client *minio.Client
}

func NewMinioService(endpoint, accessKey, secretKey string, useSSL bool) (MinioService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &minioClient{client: client}, nil
}

func (m *minioClient) GetPresignedURL(ctx context.Context, bucketName, objectName string, expiry time.Duration) (string, error) {
	url, err := m.client.PresignedGetObject(ctx, bucketName, objectName, expiry, nil)
	if err != nil {
		return "", err
	}
	return url.String(), nil
}

func (m *minioClient) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	return m.client.BucketExists(ctx, bucketName)
}

func (m *minioClient) EnsureBucketExists(ctx context.Context, bucketName string) error {
	found, err := m.client.BucketExists(ctx, bucketName)
	if err != nil {
		return err
	}
	if !found {
		return m.client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{})
	}
	return nil
}

// ImageURLSigner turns a stored image reference into a URL a client can fetch.
type ImageURLSigner interface {
	URLFor(ctx context.Context, ref string) (string, error)
}

type bucketImageSigner struct {
	store  MinioService
	bucket string
	expiry time.Duration
}

// NewImageURLSigner signs object keys in bucket. Absolute http(s) references
// are returned unchanged, and so is everything when no store is configured.
func NewImageURLSigner(store MinioService, bucket string, expiry time.Duration) ImageURLSigner {
	if expiry <= 0 {
		expiry = 15 * time.Minute
	}
	return &bucketImageSigner{store: store, bucket: bucket, expiry: expiry}
}

func (s *bucketImageSigner) URLFor(ctx context.Context, ref string) (string, error) {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") || s.store == nil {
		return ref, nil
	}
	return s.store.GetPresignedURL(ctx, s.bucket, strings.TrimPrefix(ref, "/"), s.expiry)
}

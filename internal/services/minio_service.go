package services

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
)

// DocumentStorage keeps tenant identification scans in one bucket.
type DocumentStorage interface {
	Upload(ctx context.Context, objectName string, reader io.Reader, objectSize int64, contentType string) error
	PresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
	Delete(ctx context.Context, objectName string) error
	EnsureBucket(ctx context.Context) error
	Ping(ctx context.Context) error
}

type minioDocumentStorage struct {
	client *minio.Client
	bucket string
}

func NewMinioDocumentStorage(endpoint, accessKey, secretKey string, useSSL bool, bucket string) (DocumentStorage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not create minio client")
	}
	return &minioDocumentStorage{client: client, bucket: bucket}, nil
}

func (m *minioDocumentStorage) Upload(ctx context.Context, objectName string, reader io.Reader, objectSize int64, contentType string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := m.client.PutObject(ctx, m.bucket, objectName, reader, objectSize, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return errors.Wrapf(err, "could not upload %s", objectName)
}

func (m *minioDocumentStorage) PresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	url, err := m.client.PresignedGetObject(ctx, m.bucket, objectName, expiry, nil)
	if err != nil {
		return "", errors.Wrapf(err, "could not presign %s", objectName)
	}
	return url.String(), nil
}

func (m *minioDocumentStorage) Delete(ctx context.Context, objectName string) error {
	err := m.client.RemoveObject(ctx, m.bucket, objectName, minio.RemoveObjectOptions{})
	return errors.Wrapf(err, "could not remove %s", objectName)
}

func (m *minioDocumentStorage) EnsureBucket(ctx context.Context) error {
	found, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return errors.Wrap(err, "could not check bucket")
	}
	if !found {
		slog.Info("creating document bucket", "bucket", m.bucket)
		return errors.Wrap(m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}), "could not create bucket")
	}
	return nil
}

func (m *minioDocumentStorage) Ping(ctx context.Context) error {
	_, err := m.client.BucketExists(ctx, m.bucket)
	return errors.Wrap(err, "minio unreachable")
}

package minio

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/config"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/domain"
)

const noSuchKey = "NoSuchKey"

// Adapter is an adapter for minio
type Adapter struct {
	client *minio.Client
	config config.MinioConfig
	logger *slog.Logger
}

// NewAdapter returns Adapter
func NewAdapter(ctx context.Context, cfg config.MinioConfig, logger *slog.Logger) (*Adapter, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to check if bucket exists: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &Adapter{client: client, config: cfg, logger: logger}, nil
}

// Exists reports whether an object named name exists in the bucket
func (a *Adapter) Exists(ctx context.Context, name string) (bool, error) {
	_, err := a.client.StatObject(ctx, a.config.BucketName, name, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == noSuchKey {
			return false, nil
		}
		return false, fmt.Errorf("failed to get object info: %w", err)
	}
	return true, nil
}

// Create uploads an object. The existence check and the put are not atomic.
func (a *Adapter) Create(ctx context.Context, name string, content io.Reader, size int64, contentType string) error {
	exists, err := a.Exists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("object %s : %w", name, domain.ErrAlreadyExists)
	}

	_, err = a.client.PutObject(ctx, a.config.BucketName, name, content, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to put object: %w", err)
	}

	a.logger.Info("object stored",
		slog.String("fileKey", name),
		slog.String("bucket", a.config.BucketName))

	return nil
}

// Open retrieves an object and its info
func (a *Adapter) Open(ctx context.Context, name string) (io.ReadCloser, *domain.ObjectInfo, error) {
	object, err := a.client.GetObject(ctx, a.config.BucketName, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get object: %w", err)
	}

	info, err := object.Stat()
	if err != nil {
		object.Close()
		if minio.ToErrorResponse(err).Code == noSuchKey {
			return nil, nil, domain.ErrFileNotFound
		}
		return nil, nil, fmt.Errorf("failed to get object info: %w", err)
	}

	return object, &domain.ObjectInfo{
		Name:        name,
		Size:        info.Size,
		ContentType: info.ContentType,
		ModTime:     info.LastModified,
	}, nil
}

// Delete deletes an object from storage
func (a *Adapter) Delete(ctx context.Context, name string) error {
	exists, err := a.Exists(ctx, name)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrFileNotFound
	}

	err = a.client.RemoveObject(ctx, a.config.BucketName, name, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}

	a.logger.Info("object deleted",
		slog.String("fileKey", name),
		slog.String("bucket", a.config.BucketName))

	return nil
}

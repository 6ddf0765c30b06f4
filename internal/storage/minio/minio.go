// Package minio реализует storage.AvatarsStorage поверх MinIO/S3:
// выдача presigned PUT для аватара и подтверждение загруженного объекта.
package minio

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/Vladiumnika/forumblackdynasty/internal/config"
	"github.com/Vladiumnika/forumblackdynasty/internal/storage"
	mclient "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Avatars — адаптер бакета аватаров.
type Avatars struct {
	s3     config.S3Config
	limits config.AvatarConfig
	client *mclient.Client
}

// Options — поведение конструктора.
type Options struct {
	// CreateBucket создаёт бакет при его отсутствии (локальная разработка).
	CreateBucket bool
}

// New подключается к S3, проверяет бакет и при необходимости создаёт его.
func New(ctx context.Context, cfg *config.Config, opts Options) (*Avatars, error) {
	const op = "storage/minio/New"

	endpoint, secure := splitEndpoint(cfg.S3.Endpoint)

	client, err := mclient.New(endpoint, &mclient.Options{
		Creds:  credentials.NewStaticV4(cfg.S3.RootUser, cfg.S3.RootPassword, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	exists, err := client.BucketExists(ctx, cfg.S3.Bucket)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !exists {
		if !opts.CreateBucket {
			return nil, fmt.Errorf("%s: bucket %q does not exist", op, cfg.S3.Bucket)
		}

		if err := client.MakeBucket(ctx, cfg.S3.Bucket, mclient.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("%s: make bucket %q: %w", op, cfg.S3.Bucket, err)
		}
	}

	return &Avatars{s3: cfg.S3, limits: cfg.Avatar, client: client}, nil
}

// splitEndpoint убирает схему из endpoint: minio-go ждёт host:port и флаг TLS отдельно.
func splitEndpoint(endpoint string) (string, bool) {
	endpoint = strings.TrimSpace(endpoint)

	u, err := url.Parse(endpoint)
	if err == nil && u.Scheme != "" && u.Host != "" {
		return u.Host, u.Scheme == "https"
	}

	return strings.TrimSuffix(endpoint, "/"), false
}

var _ storage.AvatarsStorage = (*Avatars)(nil)

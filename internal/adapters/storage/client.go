package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"

	"hvac_quote_backend/platform/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ErrObjectNotFound is returned by DownloadFile when the key does not exist.
var ErrObjectNotFound = errors.New("object not found")

// Photos are written once under a timestamped key and never overwritten.
const photoCacheControl = "private, max-age=31536000, immutable"

// MinIOService is the StorageService for any S3-compatible endpoint.
type MinIOService struct {
	client      *minio.Client
	maxFileSize int64
}

// NewMinIOService builds the client without contacting the endpoint.
// EnsureBucketExists is the first call that does.
func NewMinIOService(cfg config.StorageConfig) (*MinIOService, error) {
	if cfg.GetMinIOEndpoint() == "" {
		return nil, errors.New("MINIO_ENDPOINT is not set")
	}

	client, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	return &MinIOService{client: client, maxFileSize: cfg.GetMaxPhotoSize()}, nil
}

func (s *MinIOService) EnsureBucketExists(ctx context.Context, bucket string) error {
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %s: %w", bucket, err)
	}
	return nil
}

// DownloadFile stats the object first: GetObject is lazy and would only
// report a missing key on the first Read, after headers have been sent.
func (s *MinIOService) DownloadFile(ctx context.Context, bucket, fileKey string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, bucket, fileKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", fileKey, err)
	}
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("stat %s: %w", fileKey, err)
	}
	return obj, nil
}

func (s *MinIOService) DeleteObject(ctx context.Context, bucket, fileKey string) error {
	if err := s.client.RemoveObject(ctx, bucket, fileKey, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete %s: %w", fileKey, err)
	}
	return nil
}

func (s *MinIOService) UploadFile(ctx context.Context, bucket, fileKey, contentType string, reader io.Reader, size int64) (string, error) {
	info, err := s.client.PutObject(ctx, bucket, fileKey, reader, size, minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: photoCacheControl,
	})
	if err != nil {
		return "", fmt.Errorf("put %s: %w", fileKey, err)
	}
	return info.Key, nil
}

// ObjectURL is a path-style URL; photos are served through the API, so the
// URL is only recorded, never handed to browsers.
func (s *MinIOService) ObjectURL(bucket, fileKey string) string {
	u := *s.client.EndpointURL()
	u.Path = "/" + bucket + "/" + fileKey
	u.RawPath = "/" + url.PathEscape(bucket) + "/" + escapeKey(fileKey)
	return u.String()
}

func (s *MinIOService) GetMaxFileSize() int64 {
	return s.maxFileSize
}

var _ StorageService = (*MinIOService)(nil)

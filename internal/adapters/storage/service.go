// Package storage is the S3-compatible object store behind lead photos.
package storage

import (
	"context"
	"io"
)

// StorageService defines the object storage operations the photo module uses.
type StorageService interface {
	// UploadFile stores reader under fileKey and returns the key.
	UploadFile(ctx context.Context, bucket, fileKey, contentType string, reader io.Reader, size int64) (string, error)

	// DownloadFile opens an object. The caller closes the reader.
	DownloadFile(ctx context.Context, bucket, fileKey string) (io.ReadCloser, error)

	DeleteObject(ctx context.Context, bucket, fileKey string) error

	EnsureBucketExists(ctx context.Context, bucket string) error

	// ObjectURL is the canonical location recorded with the photo row.
	ObjectURL(bucket, fileKey string) string

	ValidateContentType(contentType string) error
	ValidateFileSize(sizeBytes int64) error
	GetMaxFileSize() int64
}

package storage

import (
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateContentType(t *testing.T) {
	s := &MinIOService{maxFileSize: 15 << 20}

	assert.NoError(t, s.ValidateContentType("image/jpeg"))
	assert.NoError(t, s.ValidateContentType("IMAGE/HEIC; charset=binary"))
	assert.Error(t, s.ValidateContentType("application/pdf"))
	assert.Error(t, s.ValidateContentType("image/svg+xml"))
}

func TestValidateFileSize(t *testing.T) {
	s := &MinIOService{maxFileSize: 15 << 20}

	assert.NoError(t, s.ValidateFileSize(1024))
	assert.NoError(t, s.ValidateFileSize(15<<20))
	assert.Error(t, s.ValidateFileSize(15<<20+1))
	assert.Error(t, s.ValidateFileSize(0))
}

func TestExtensionFor(t *testing.T) {
	assert.Equal(t, ".png", ExtensionFor("image/png"))
	assert.Equal(t, ".heif", ExtensionFor("image/heif"))
	assert.Equal(t, ".jpg", ExtensionFor("image/tiff"))
}

func TestObjectURL(t *testing.T) {
	client, err := minio.New("localhost:9000", &minio.Options{
		Creds: credentials.NewStaticV4("access", "secret", ""),
	})
	require.NoError(t, err)
	s := &MinIOService{client: client}

	assert.Equal(t,
		"http://localhost:9000/lead-photos/leads/abc/mechanical-room-1700000000000.jpg",
		s.ObjectURL("lead-photos", "leads/abc/mechanical-room-1700000000000.jpg"))
}

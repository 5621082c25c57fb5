package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prodtrack/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewS3ObjectStorage_Validation(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		_, err := NewS3ObjectStorage(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration is required")
	})

	t.Run("missing bucket", func(t *testing.T) {
		_, err := NewS3ObjectStorage(&config.StorageConfig{AccessKeyID: "k", SecretAccessKey: "s"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket is required")
	})

	t.Run("missing credentials", func(t *testing.T) {
		_, err := NewS3ObjectStorage(&config.StorageConfig{Bucket: "exports"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "access key")
	})

	t.Run("defaults presign ttl", func(t *testing.T) {
		s, err := NewS3ObjectStorage(&config.StorageConfig{
			Bucket:          "exports",
			AccessKeyID:     "k",
			SecretAccessKey: "s",
			Endpoint:        "localhost:9000",
			UsePathStyle:    true,
		}, WithLogger(zaptest.NewLogger(t)))
		require.NoError(t, err)
		assert.Equal(t, "exports", s.Bucket())
		assert.Equal(t, defaultPresignTTL, s.presignTTL)
	})
}

func TestS3ObjectStorage_GenerateDownloadURL(t *testing.T) {
	s, err := NewS3ObjectStorage(&config.StorageConfig{
		Bucket:          "exports",
		AccessKeyID:     "k",
		SecretAccessKey: "s",
		Endpoint:        "http://localhost:9000",
		UsePathStyle:    true,
		PresignTTL:      5 * time.Minute,
	})
	require.NoError(t, err)

	// presigning is local, no request is sent
	u, expiresAt, err := s.GenerateDownloadURL(context.Background(), "exports/materials/materials_20260301_101500.xlsx", 0)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u, "http://localhost:9000/exports/exports/materials/"))
	assert.Contains(t, u, "X-Amz-Signature=")
	assert.Contains(t, u, "X-Amz-Expires=300")
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), expiresAt, 5*time.Second)

	_, _, err = s.GenerateDownloadURL(context.Background(), "", 0)
	assert.Error(t, err)
}

func TestMemoryObjectStorage(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryObjectStorage("http://files.local")

	require.NoError(t, s.Upload(ctx, "exports/a.xlsx", []byte("xlsx"), "application/octet-stream"))
	data, contentType, ok := s.Object("exports/a.xlsx")
	require.True(t, ok)
	assert.Equal(t, []byte("xlsx"), data)
	assert.Equal(t, "application/octet-stream", contentType)

	u, _, err := s.GenerateDownloadURL(ctx, "exports/a.xlsx", time.Minute)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u, "http://files.local/exports%2Fa.xlsx?expires="))

	_, _, err = s.GenerateDownloadURL(ctx, "missing", time.Minute)
	assert.Error(t, err)
	assert.Error(t, s.Upload(ctx, "", nil, ""))
}

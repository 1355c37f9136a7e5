package filesystem_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/adapters/storage/filesystem"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/domain"
)

func newAdapter(t *testing.T) (*filesystem.Adapter, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "uploads", "images")
	discardLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	adapter, err := filesystem.NewAdapter(dir, discardLogger)
	require.NoError(t, err)
	return adapter, dir
}

func TestNewAdapter_CreatesDirectory(t *testing.T) {
	_, dir := newAdapter(t)

	stat, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, stat.IsDir())
}

func TestAdapter_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("nominal", func(t *testing.T) {
		adapter, dir := newAdapter(t)

		err := adapter.Create(ctx, "toy.png", strings.NewReader("png"), 3, "image/png")
		require.NoError(t, err)

		content, err := os.ReadFile(filepath.Join(dir, "toy.png"))
		require.NoError(t, err)
		assert.Equal(t, "png", string(content))
	})

	t.Run("existing file is not overwritten", func(t *testing.T) {
		adapter, dir := newAdapter(t)
		require.NoError(t, adapter.Create(ctx, "toy.png", strings.NewReader("first"), 5, "image/png"))

		err := adapter.Create(ctx, "toy.png", strings.NewReader("second"), 6, "image/png")
		require.ErrorIs(t, err, domain.ErrAlreadyExists)

		content, err := os.ReadFile(filepath.Join(dir, "toy.png"))
		require.NoError(t, err)
		assert.Equal(t, "first", string(content))
	})
}

func TestAdapter_ExistsOpenDelete(t *testing.T) {
	ctx := context.Background()
	adapter, _ := newAdapter(t)

	exists, err := adapter.Exists(ctx, "toy.webp")
	require.NoError(t, err)
	assert.False(t, exists)

	_, _, err = adapter.Open(ctx, "toy.webp")
	require.ErrorIs(t, err, domain.ErrFileNotFound)

	require.NoError(t, adapter.Create(ctx, "toy.webp", strings.NewReader("webp"), 4, "image/webp"))

	exists, err = adapter.Exists(ctx, "toy.webp")
	require.NoError(t, err)
	assert.True(t, exists)

	reader, info, err := adapter.Open(ctx, "toy.webp")
	require.NoError(t, err)
	defer reader.Close()
	assert.Equal(t, "image/webp", info.ContentType)
	assert.Equal(t, int64(4), info.Size)

	require.NoError(t, adapter.Delete(ctx, "toy.webp"))
	require.ErrorIs(t, adapter.Delete(ctx, "toy.webp"), domain.ErrFileNotFound)
}

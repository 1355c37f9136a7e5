package localfile_test

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/adapters/client/localfile"
)

func TestFromPath(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	path := filepath.Join(dir, "Toy.PNG")
	require.NoError(t, os.WriteFile(path, []byte("png"), 0o644))

	// Act
	file, err := localfile.FromPath(path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Toy.PNG", file.Name())
	assert.Equal(t, "image/png", file.ContentType())
	assert.Equal(t, int64(3), file.Size())

	reader, err := file.Open()
	require.NoError(t, err)
	defer reader.Close()
	content, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "png", string(content))
}

func TestFromPath_Errors(t *testing.T) {
	_, err := localfile.FromPath(filepath.Join(t.TempDir(), "missing.png"))
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = localfile.FromPath(t.TempDir())
	require.Error(t, err)
}

func TestContentTypeOf(t *testing.T) {
	assert.Equal(t, "image/jpeg", localfile.ContentTypeOf("a.JPEG"))
	assert.Equal(t, "image/svg+xml", localfile.ContentTypeOf("logo.svg"))
	assert.Equal(t, "application/octet-stream", localfile.ContentTypeOf("notes.txt"))
	assert.Equal(t, "application/octet-stream", localfile.ContentTypeOf("README"))
}

func TestExpand(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.png"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("b"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden.png"), []byte("h"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))
	single := filepath.Join(t.TempDir(), "c.gif")
	require.NoError(t, os.WriteFile(single, []byte("c"), 0o644))

	// Act
	files, err := localfile.Expand([]string{dir, single})

	// Assert
	require.NoError(t, err)
	names := make([]string, 0, len(files))
	for _, file := range files {
		names = append(names, file.Name())
	}
	assert.Equal(t, []string{"a.png", "b.txt", "c.gif"}, names)
}

func TestFromBytes(t *testing.T) {
	file := localfile.FromBytes("x.webp", "image/webp", []byte("data"))

	reader, err := file.Open()
	require.NoError(t, err)
	content, err := io.ReadAll(reader)
	require.NoError(t, err)

	assert.Equal(t, "data", string(content))
	assert.Equal(t, int64(4), file.Size())
}

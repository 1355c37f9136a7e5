package upload_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/adapters/storage"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/adapters/storage/filesystem"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/config"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/domain"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/port"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/service/upload"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func testConfig() config.FileUploadConfig {
	return config.FileUploadConfig{
		PublicPath:  "/uploads/images",
		MaxFileSize: domain.MaxFileSizeDefault,
		MaxFiles:    domain.MaxFilesDefault,
	}
}

func newFilesystemService(t *testing.T, cfg config.FileUploadConfig) (port.UploadService, string) {
	t.Helper()
	dir := t.TempDir()
	adapter, err := filesystem.NewAdapter(dir, discardLogger)
	require.NoError(t, err)
	return upload.NewUploadService(adapter, nil, cfg, discardLogger), dir
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func incoming(name, mimeType string, content []byte) domain.IncomingFile {
	return domain.IncomingFile{
		OriginalName: name,
		MimeType:     mimeType,
		Size:         int64(len(content)),
		Content:      bytes.NewReader(content),
	}
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names
}

func TestUploadService_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("nominal", func(t *testing.T) {
		// Arrange
		service, dir := newFilesystemService(t, testConfig())
		content := pngBytes(t, 4, 3)

		// Act
		stored, err := service.Upload(ctx, []domain.IncomingFile{incoming("Mötorhead Toy #1.PNG", "image/png", content)})

		// Assert
		require.NoError(t, err)
		require.Len(t, stored, 1)
		assert.Equal(t, "motorhead-toy-1.png", stored[0].Filename)
		assert.Equal(t, "Mötorhead Toy #1.PNG", stored[0].OriginalName)
		assert.Equal(t, int64(len(content)), stored[0].Size)
		assert.Equal(t, "image/png", stored[0].MimeType)
		assert.Equal(t, "/uploads/images/motorhead-toy-1.png", stored[0].Path)
		assert.Equal(t, 4, stored[0].Width)
		assert.Equal(t, 3, stored[0].Height)

		written, err := os.ReadFile(filepath.Join(dir, stored[0].Filename))
		require.NoError(t, err)
		assert.Equal(t, content, written)
	})

	t.Run("one file written per accepted part", func(t *testing.T) {
		// Arrange
		service, dir := newFilesystemService(t, testConfig())
		files := []domain.IncomingFile{
			incoming("a.png", "image/png", pngBytes(t, 1, 1)),
			incoming("b.gif", "image/gif", []byte("GIF89a")),
			incoming("c.svg", "image/svg+xml", []byte("<svg/>")),
		}

		// Act
		stored, err := service.Upload(ctx, files)

		// Assert
		require.NoError(t, err)
		require.Len(t, stored, 3)
		assert.ElementsMatch(t, []string{"a.png", "b.gif", "c.svg"}, listDir(t, dir))
		assert.Zero(t, stored[2].Width)
	})

	t.Run("same original name never overwrites", func(t *testing.T) {
		// Arrange
		service, dir := newFilesystemService(t, testConfig())

		// Act
		first, err := service.Upload(ctx, []domain.IncomingFile{incoming("toy.png", "image/png", []byte("first"))})
		require.NoError(t, err)
		second, err := service.Upload(ctx, []domain.IncomingFile{incoming("toy.png", "image/png", []byte("second"))})
		require.NoError(t, err)

		// Assert
		assert.Equal(t, "toy.png", first[0].Filename)
		assert.NotEqual(t, first[0].Filename, second[0].Filename)
		assert.Regexp(t, `^toy-\d+\.png$`, second[0].Filename)
		assert.NotEqual(t, first[0].Path, second[0].Path)

		content, err := os.ReadFile(filepath.Join(dir, "toy.png"))
		require.NoError(t, err)
		assert.Equal(t, "first", string(content))
		content, err = os.ReadFile(filepath.Join(dir, second[0].Filename))
		require.NoError(t, err)
		assert.Equal(t, "second", string(content))
	})

	t.Run("three identical names in one request", func(t *testing.T) {
		// Arrange
		service, dir := newFilesystemService(t, testConfig())
		files := []domain.IncomingFile{
			incoming("toy.png", "image/png", []byte("1")),
			incoming("toy.png", "image/png", []byte("2")),
			incoming("toy.png", "image/png", []byte("3")),
		}

		// Act
		stored, err := service.Upload(ctx, files)

		// Assert
		require.NoError(t, err)
		names := map[string]bool{}
		for _, file := range stored {
			names[file.Filename] = true
		}
		assert.Len(t, names, 3)
		assert.Len(t, listDir(t, dir), 3)
	})

	t.Run("mime type parameters are ignored", func(t *testing.T) {
		service, _ := newFilesystemService(t, testConfig())

		stored, err := service.Upload(ctx, []domain.IncomingFile{incoming("x.jpg", "image/jpeg; charset=binary", []byte("jpg"))})

		require.NoError(t, err)
		assert.Equal(t, "image/jpeg", stored[0].MimeType)
	})
}

func TestUploadService_Upload_Concurrent(t *testing.T) {
	// Arrange
	const uploads = 20
	dir := t.TempDir()
	adapter, err := filesystem.NewAdapter(dir, discardLogger)
	require.NoError(t, err)
	frozen := time.UnixMilli(1700000000123)
	service := upload.NewUploadServiceWithClock(adapter, testConfig(), discardLogger, func() time.Time { return frozen })
	content := pngBytes(t, 2, 2)

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		names = map[string]bool{}
		errs  []error
	)

	// Act
	for i := 0; i < uploads; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			stored, uploadErr := service.Upload(context.Background(), []domain.IncomingFile{incoming("toy.png", "image/png", content)})
			mu.Lock()
			defer mu.Unlock()
			if uploadErr != nil {
				errs = append(errs, uploadErr)
				return
			}
			names[stored[0].Filename] = true
		}()
	}
	wg.Wait()

	// Assert
	require.Empty(t, errs)
	assert.Len(t, names, uploads)
	assert.True(t, names["toy.png"])
	assert.True(t, names["toy-1700000000123.png"])
	assert.Len(t, listDir(t, dir), uploads)
}

func TestUploadService_Upload_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("error - no files", func(t *testing.T) {
		service, _ := newFilesystemService(t, testConfig())

		_, err := service.Upload(ctx, nil)

		require.ErrorIs(t, err, domain.ErrNoFiles)
	})

	t.Run("error - text file", func(t *testing.T) {
		// Arrange
		service, dir := newFilesystemService(t, testConfig())

		// Act
		_, err := service.Upload(ctx, []domain.IncomingFile{incoming("notes.txt", "text/plain", []byte("hello"))})

		// Assert
		require.ErrorIs(t, err, domain.ErrInvalidFileType)
		assert.Empty(t, listDir(t, dir))
	})

	t.Run("error - one invalid file rejects the whole batch", func(t *testing.T) {
		// Arrange
		service, dir := newFilesystemService(t, testConfig())
		files := []domain.IncomingFile{
			incoming("ok.png", "image/png", []byte("png")),
			incoming("bad.pdf", "application/pdf", []byte("pdf")),
		}

		// Act
		_, err := service.Upload(ctx, files)

		// Assert
		require.ErrorIs(t, err, domain.ErrInvalidFileType)
		assert.Empty(t, listDir(t, dir))
	})

	t.Run("error - 6MB jpeg", func(t *testing.T) {
		// Arrange
		service, dir := newFilesystemService(t, testConfig())
		content := bytes.Repeat([]byte{0xff}, 6<<20)

		// Act
		_, err := service.Upload(ctx, []domain.IncomingFile{incoming("big.jpg", "image/jpeg", content)})

		// Assert
		require.ErrorIs(t, err, domain.ErrFileSizeTooBig)
		assert.Contains(t, err.Error(), "5MB")
		assert.Empty(t, listDir(t, dir))
	})

	t.Run("error - too many files", func(t *testing.T) {
		// Arrange
		cfg := testConfig()
		cfg.MaxFiles = 2
		service, dir := newFilesystemService(t, cfg)
		files := []domain.IncomingFile{
			incoming("a.png", "image/png", []byte("a")),
			incoming("b.png", "image/png", []byte("b")),
			incoming("c.png", "image/png", []byte("c")),
		}

		// Act
		_, err := service.Upload(ctx, files)

		// Assert
		require.ErrorIs(t, err, domain.ErrTooManyFiles)
		assert.Contains(t, err.Error(), "2 files")
		assert.Empty(t, listDir(t, dir))
	})

	t.Run("error - storage failure", func(t *testing.T) {
		// Arrange
		mockStorage := storage.NewMockStorage()
		mockStorage.On("Exists", mock.Anything, "toy.png").Return(false, nil)
		mockStorage.On("Create", mock.Anything, "toy.png", mock.Anything, int64(3), "image/png").Return(assert.AnError)
		service := upload.NewUploadService(mockStorage, nil, testConfig(), discardLogger)

		// Act
		_, err := service.Upload(ctx, []domain.IncomingFile{incoming("toy.png", "image/png", []byte("png"))})

		// Assert
		require.ErrorIs(t, err, assert.AnError)
		mockStorage.AssertExpectations(t)
	})
}

func TestUploadService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("nominal", func(t *testing.T) {
		// Arrange
		service, dir := newFilesystemService(t, testConfig())
		stored, err := service.Upload(ctx, []domain.IncomingFile{incoming("toy.png", "image/png", []byte("png"))})
		require.NoError(t, err)

		// Act
		err = service.Delete(ctx, stored[0].Filename)

		// Assert
		require.NoError(t, err)
		assert.Empty(t, listDir(t, dir))
	})

	t.Run("error - never uploaded", func(t *testing.T) {
		// Arrange
		service, dir := newFilesystemService(t, testConfig())
		require.NoError(t, os.WriteFile(filepath.Join(dir, "keep.png"), []byte("x"), 0o644))

		// Act
		err := service.Delete(ctx, "ghost.png")

		// Assert
		require.ErrorIs(t, err, domain.ErrFileNotFound)
		assert.Equal(t, []string{"keep.png"}, listDir(t, dir))
	})

	t.Run("error - traversal never reaches storage", func(t *testing.T) {
		names := []string{"", "..", "../etc/passwd", "a/b.png", `a\b.png`, "..png", "x..y"}
		for _, name := range names {
			// Arrange
			mockStorage := storage.NewMockStorage()
			service := upload.NewUploadService(mockStorage, nil, testConfig(), discardLogger)

			// Act
			err := service.Delete(ctx, name)

			// Assert
			require.ErrorIs(t, err, domain.ErrInvalidFilename, name)
			mockStorage.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything)
			mockStorage.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
		}
	})
}

func TestUploadService_Open(t *testing.T) {
	ctx := context.Background()
	service, _ := newFilesystemService(t, testConfig())
	_, err := service.Upload(ctx, []domain.IncomingFile{incoming("toy.png", "image/png", []byte("png"))})
	require.NoError(t, err)

	reader, info, err := service.Open(ctx, "toy.png")
	require.NoError(t, err)
	defer reader.Close()
	body, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "png", string(body))
	assert.Equal(t, "image/png", info.ContentType)

	_, _, err = service.Open(ctx, "../toy.png")
	require.ErrorIs(t, err, domain.ErrInvalidFilename)

	_, _, err = service.Open(ctx, strings.Repeat("x", 3)+".png")
	require.ErrorIs(t, err, domain.ErrFileNotFound)
}

package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/domain"
)

// Adapter stores files in a single flat directory
type Adapter struct {
	dir    string
	logger *slog.Logger
}

// NewAdapter returns Adapter, creating dir recursively if absent
func NewAdapter(dir string, logger *slog.Logger) (*Adapter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}
	return &Adapter{dir: dir, logger: logger}, nil
}

// Dir returns the upload directory
func (a *Adapter) Dir() string {
	return a.dir
}

// Exists reports whether name is present in the upload directory
func (a *Adapter) Exists(ctx context.Context, name string) (bool, error) {
	_, err := os.Stat(a.path(name))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("failed to stat file: %w", err)
	}
}

// Create writes content with O_EXCL so an existing file is never overwritten
func (a *Adapter) Create(ctx context.Context, name string, content io.Reader, size int64, contentType string) error {
	file, err := os.OpenFile(a.path(name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("file %s : %w", name, domain.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(file, content); err != nil {
		file.Close()
		os.Remove(file.Name())
		return fmt.Errorf("failed to write file: %w", err)
	}

	if err := file.Close(); err != nil {
		os.Remove(file.Name())
		return fmt.Errorf("failed to close file: %w", err)
	}

	a.logger.Info("file stored", slog.String("filename", name), slog.Int64("size", size))
	return nil
}

// Open opens a stored file for reading
func (a *Adapter) Open(ctx context.Context, name string) (io.ReadCloser, *domain.ObjectInfo, error) {
	file, err := os.Open(a.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, domain.ErrFileNotFound
		}
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, nil, fmt.Errorf("failed to stat file: %w", err)
	}

	contentType := domain.ImageExtensions[strings.ToLower(filepath.Ext(name))]
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(name))
	}

	return file, &domain.ObjectInfo{
		Name:        name,
		Size:        stat.Size(),
		ContentType: contentType,
		ModTime:     stat.ModTime(),
	}, nil
}

// Delete removes a stored file
func (a *Adapter) Delete(ctx context.Context, name string) error {
	err := os.Remove(a.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.ErrFileNotFound
		}
		return fmt.Errorf("failed to delete file: %w", err)
	}

	a.logger.Info("file deleted", slog.String("filename", name))
	return nil
}

func (a *Adapter) path(name string) string {
	return filepath.Join(a.dir, name)
}

package upload

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"mime"
	"path"
	"time"

	"github.com/toyzinger/toyzinger-pim-sub000/internal/config"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/domain"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/port"
	_ "golang.org/x/image/webp"
)

// maxNameAttempts bounds the create-if-absent retries of a single file
const maxNameAttempts = 10

// counterAttempts is the number of attempts using "-<n>" before random suffixes
const counterAttempts = 4

type uploadService struct {
	storage   port.FileStorage
	publisher port.EventPublisher
	cfg       config.FileUploadConfig
	logger    *slog.Logger
	now       func() time.Time
}

// NewUploadService creates a new upload service
func NewUploadService(storage port.FileStorage, publisher port.EventPublisher, cfg config.FileUploadConfig, logger *slog.Logger) port.UploadService {
	return newUploadService(storage, publisher, cfg, logger, time.Now)
}

func newUploadService(storage port.FileStorage, publisher port.EventPublisher, cfg config.FileUploadConfig, logger *slog.Logger, now func() time.Time) *uploadService {
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = domain.MaxFileSizeDefault
	}
	if cfg.MaxFiles <= 0 {
		cfg.MaxFiles = domain.MaxFilesDefault
	}
	if cfg.PublicPath == "" {
		cfg.PublicPath = "/uploads/images"
	}
	return &uploadService{
		storage:   storage,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger,
		now:       now,
	}
}

func (s *uploadService) Validate(files []domain.IncomingFile) error {
	_, err := s.validate(files)
	return err
}

// validate runs every check before anything is written: presence, type, size then count.
func (s *uploadService) validate(files []domain.IncomingFile) ([]string, error) {
	if len(files) == 0 {
		return nil, domain.ErrNoFiles
	}

	mimeTypes := make([]string, len(files))
	for i, file := range files {
		mimeType := extractMimeType(file.MimeType)
		if !domain.IsAllowedImageType(mimeType) {
			return nil, fmt.Errorf("%w (got %q for %s)", domain.ErrInvalidFileType, file.MimeType, file.OriginalName)
		}
		mimeTypes[i] = mimeType
	}

	for _, file := range files {
		if file.Size > s.cfg.MaxFileSize {
			return nil, fmt.Errorf("%w: maximum size is %s", domain.ErrFileSizeTooBig, humanSize(s.cfg.MaxFileSize))
		}
	}

	if len(files) > s.cfg.MaxFiles {
		return nil, fmt.Errorf("%w: maximum is %d files", domain.ErrTooManyFiles, s.cfg.MaxFiles)
	}

	return mimeTypes, nil
}

func (s *uploadService) publish(ctx context.Context, event domain.FileEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish file event", "type", event.Type, "filename", event.Filename, "error", err)
	}
}

func (s *uploadService) publicPath(filename string) string {
	return path.Join(s.cfg.PublicPath, filename)
}

func extractMimeType(contentType string) string {
	mimeType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return mimeType
}

// dimensions decodes the image header only. Unknown formats (svg) report zero.
func dimensions(content io.ReadSeeker) (int, int) {
	if _, err := content.Seek(0, io.SeekStart); err != nil {
		return 0, 0
	}
	cfg, _, err := image.DecodeConfig(content)
	if err != nil {
		return 0, 0
	}
	return cfg.Width, cfg.Height
}

func humanSize(n int64) string {
	if n%(1<<20) == 0 {
		return fmt.Sprintf("%dMB", n>>20)
	}
	if n%(1<<10) == 0 {
		return fmt.Sprintf("%dKB", n>>10)
	}
	return fmt.Sprintf("%d bytes", n)
}

package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/domain"
)

func (s *uploadService) Upload(ctx context.Context, files []domain.IncomingFile) ([]domain.StoredFile, error) {
	mimeTypes, err := s.validate(files)
	if err != nil {
		return nil, err
	}

	stored := make([]domain.StoredFile, 0, len(files))
	for i, file := range files {
		result, storeErr := s.store(ctx, file, mimeTypes[i])
		if storeErr != nil {
			return nil, fmt.Errorf("could not store %s: %w", file.OriginalName, storeErr)
		}
		stored = append(stored, *result)

		s.publish(ctx, domain.FileEvent{
			Type:       domain.EventTypeFileUploaded,
			Filename:   result.Filename,
			Size:       result.Size,
			MimeType:   result.MimeType,
			OccurredAt: s.now(),
		})
	}

	return stored, nil
}

func (s *uploadService) store(ctx context.Context, file domain.IncomingFile, mimeType string) (*domain.StoredFile, error) {
	sanitized := domain.SanitizeFilename(file.OriginalName)
	stamped := domain.TimestampedFilename(sanitized, s.now())

	exists, err := s.storage.Exists(ctx, sanitized)
	if err != nil {
		return nil, err
	}

	name := sanitized
	if exists {
		name = stamped
	}

	width, height := dimensions(file.Content)

	for attempt := 1; ; attempt++ {
		if _, err := file.Content.Seek(0, io.SeekStart); err != nil {
			return nil, fmt.Errorf("failed to rewind upload: %w", err)
		}

		createErr := s.storage.Create(ctx, name, file.Content, file.Size, mimeType)
		if createErr == nil {
			break
		}
		if !errors.Is(createErr, domain.ErrAlreadyExists) || attempt == maxNameAttempts {
			return nil, createErr
		}

		s.logger.Warn("filename taken, retrying", "filename", name, "attempt", attempt)
		switch {
		case name == sanitized:
			name = stamped
		case attempt < counterAttempts:
			name = domain.CounterFilename(stamped, attempt)
		default:
			name = domain.SuffixedFilename(stamped, randomSuffix())
		}
	}

	return &domain.StoredFile{
		Filename:     name,
		OriginalName: file.OriginalName,
		Size:         file.Size,
		MimeType:     mimeType,
		Path:         s.publicPath(name),
		Width:        width,
		Height:       height,
	}, nil
}

// randomSuffix is used once sequential counters keep colliding
func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

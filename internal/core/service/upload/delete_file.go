package upload

import (
	"context"

	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/domain"
)

func (s *uploadService) Delete(ctx context.Context, filename string) error {
	if err := domain.ValidateBareFilename(filename); err != nil {
		return err
	}

	exists, err := s.storage.Exists(ctx, filename)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrFileNotFound
	}

	if err := s.storage.Delete(ctx, filename); err != nil {
		return err
	}

	s.publish(ctx, domain.FileEvent{
		Type:       domain.EventTypeFileDeleted,
		Filename:   filename,
		OccurredAt: s.now(),
	})
	return nil
}

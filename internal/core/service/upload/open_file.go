package upload

import (
	"context"
	"io"

	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/domain"
)

func (s *uploadService) Open(ctx context.Context, filename string) (io.ReadCloser, *domain.ObjectInfo, error) {
	if err := domain.ValidateBareFilename(filename); err != nil {
		return nil, nil, err
	}
	return s.storage.Open(ctx, filename)
}

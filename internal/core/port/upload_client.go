package port

import (
	"context"

	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/domain"
)

// ProgressFunc receives upload progress as a percentage in [0, 100]
type ProgressFunc func(percent int)

// UploadAPI is the client side view of the intake and delete endpoints
type UploadAPI interface {
	Upload(ctx context.Context, file domain.FilePayload, progress ProgressFunc) (*domain.StoredFile, error)
	Delete(ctx context.Context, filename string) error
}

package port

import (
	"context"
	"io"

	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/domain"
)

// FileStorage is an interface to define file storage interactions.
// Names are bare filenames already validated by the caller.
type FileStorage interface {
	Exists(ctx context.Context, name string) (bool, error)
	// Create stores content under name and fails with domain.ErrAlreadyExists instead of overwriting.
	Create(ctx context.Context, name string, content io.Reader, size int64, contentType string) error
	Open(ctx context.Context, name string) (io.ReadCloser, *domain.ObjectInfo, error)
	Delete(ctx context.Context, name string) error
}

// UploadService is an interface to define the upload intake service
type UploadService interface {
	Upload(ctx context.Context, files []domain.IncomingFile) ([]domain.StoredFile, error)
	// Validate runs the checks of Upload without storing anything
	Validate(files []domain.IncomingFile) error
	Delete(ctx context.Context, filename string) error
	Open(ctx context.Context, filename string) (io.ReadCloser, *domain.ObjectInfo, error)
}

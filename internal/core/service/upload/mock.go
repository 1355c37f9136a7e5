package upload

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/domain"
)

// MockUploadService is a mock implementation of UploadService
type MockUploadService struct {
	mock.Mock
}

// NewMockUploadService creates a new MockUploadService
func NewMockUploadService() *MockUploadService {
	return &MockUploadService{}
}

func (m *MockUploadService) Upload(ctx context.Context, files []domain.IncomingFile) ([]domain.StoredFile, error) {
	args := m.Called(ctx, files)
	return args.Get(0).([]domain.StoredFile), args.Error(1)
}

func (m *MockUploadService) Delete(ctx context.Context, filename string) error {
	args := m.Called(ctx, filename)
	return args.Error(0)
}

func (m *MockUploadService) Open(ctx context.Context, filename string) (io.ReadCloser, *domain.ObjectInfo, error) {
	args := m.Called(ctx, filename)
	return args.Get(0).(io.ReadCloser), args.Get(1).(*domain.ObjectInfo), args.Error(2)
}

func (m *MockUploadService) Validate(files []domain.IncomingFile) error {
	args := m.Called(files)
	return args.Error(0)
}

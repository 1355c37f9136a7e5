package client

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/domain"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/port"
)

type MockUploadAPI struct {
	mock.Mock
}

func NewMockUploadAPI() *MockUploadAPI {
	return &MockUploadAPI{}
}

// Upload reports 50 then 100 percent before returning the configured values
func (m *MockUploadAPI) Upload(ctx context.Context, file domain.FilePayload, progress port.ProgressFunc) (*domain.StoredFile, error) {
	args := m.Called(ctx, file, progress)
	if progress != nil {
		progress(50)
		progress(100)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StoredFile), args.Error(1)
}

func (m *MockUploadAPI) Delete(ctx context.Context, filename string) error {
	args := m.Called(ctx, filename)
	return args.Error(0)
}

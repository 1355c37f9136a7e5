package storage

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/domain"
)

type MockStorage struct {
	mock.Mock
}

func NewMockStorage() *MockStorage {
	return &MockStorage{}
}

func (m *MockStorage) Exists(ctx context.Context, name string) (bool, error) {
	args := m.Called(ctx, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) Create(ctx context.Context, name string, content io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, name, content, size, contentType)
	return args.Error(0)
}

func (m *MockStorage) Open(ctx context.Context, name string) (io.ReadCloser, *domain.ObjectInfo, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(io.ReadCloser), args.Get(1).(*domain.ObjectInfo), args.Error(2)
}

func (m *MockStorage) Delete(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

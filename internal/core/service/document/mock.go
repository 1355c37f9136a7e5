package document

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/domain"
)

type MockDocumentStore struct {
	mock.Mock
}

func NewMockDocumentStore() *MockDocumentStore {
	return &MockDocumentStore{}
}

func (m *MockDocumentStore) Add(ctx context.Context, collection string, data map[string]any) (string, error) {
	args := m.Called(ctx, collection, data)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentStore) GetAll(ctx context.Context, collection string) ([]domain.Document, error) {
	args := m.Called(ctx, collection)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Document), args.Error(1)
}

func (m *MockDocumentStore) Get(ctx context.Context, collection string, id string) (*domain.Document, error) {
	args := m.Called(ctx, collection, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentStore) Update(ctx context.Context, collection string, id string, patch map[string]any) error {
	args := m.Called(ctx, collection, id, patch)
	return args.Error(0)
}

func (m *MockDocumentStore) Delete(ctx context.Context, collection string, id string) error {
	args := m.Called(ctx, collection, id)
	return args.Error(0)
}

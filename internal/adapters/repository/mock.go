package repository

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/domain"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/port"
)

type MockDocumentRepository struct {
	mock.Mock
}

func NewMockDocumentRepository() *MockDocumentRepository {
	return &MockDocumentRepository{}
}

func (m *MockDocumentRepository) Create(ctx context.Context, collection string, id string, data map[string]any) error {
	args := m.Called(ctx, collection, id, data)
	return args.Error(0)
}

func (m *MockDocumentRepository) FindAll(ctx context.Context, collection string) ([]domain.Document, error) {
	args := m.Called(ctx, collection)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, collection string, id string) (*domain.Document, error) {
	args := m.Called(ctx, collection, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindByField(ctx context.Context, collection string, field string, value string) ([]domain.Document, error) {
	args := m.Called(ctx, collection, field, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Document), args.Error(1)
}

func (m *MockDocumentRepository) Update(ctx context.Context, collection string, id string, set map[string]any, remove []string) error {
	args := m.Called(ctx, collection, id, set, remove)
	return args.Error(0)
}

func (m *MockDocumentRepository) Delete(ctx context.Context, collection string, id string) error {
	args := m.Called(ctx, collection, id)
	return args.Error(0)
}

type MockUnitOfWork struct {
	mock.Mock
	documentRepo *MockDocumentRepository
}

func NewMockUnitOfWork() *MockUnitOfWork {
	return &MockUnitOfWork{
		documentRepo: &MockDocumentRepository{},
	}
}

func (m *MockUnitOfWork) DocumentRepo() port.DocumentRepository {
	return m.documentRepo
}

func (m *MockUnitOfWork) Execute(ctx context.Context, fn func(uow port.UnitOfWork) error) error {
	args := m.Called(ctx, fn)

	if err := fn(m); err != nil {
		return err
	}

	return args.Error(0)
}

func (m *MockUnitOfWork) GetDocumentRepoMock() *MockDocumentRepository {
	return m.documentRepo
}

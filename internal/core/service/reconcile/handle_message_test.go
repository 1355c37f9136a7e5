package reconcile_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/adapters/repository"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/domain"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/service/reconcile"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func eventBytes(t *testing.T, event domain.FileEvent) []byte {
	t.Helper()
	data, err := json.Marshal(event)
	require.NoError(t, err)
	return data
}

func TestReconcileService_HandleMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("nominal", func(t *testing.T) {
		// Arrange
		uow := repository.NewMockUnitOfWork()
		repo := uow.GetDocumentRepoMock()
		uow.On("Execute", ctx, mock.Anything).Return(nil)
		repo.On("FindByField", ctx, domain.CollectionImages, "filename", "toy.png").Return([]domain.Document{{ID: "a"}, {ID: "b"}}, nil)
		repo.On("Delete", ctx, domain.CollectionImages, "a").Return(nil)
		repo.On("Delete", ctx, domain.CollectionImages, "b").Return(nil)
		service := reconcile.NewReconcileService(uow, discardLogger)

		// Act
		err := service.HandleMessage(ctx, eventBytes(t, domain.FileEvent{Type: domain.EventTypeFileDeleted, Filename: "toy.png"}))

		// Assert
		require.NoError(t, err)
		uow.AssertExpectations(t)
		repo.AssertExpectations(t)
	})

	t.Run("uploaded events are ignored", func(t *testing.T) {
		uow := repository.NewMockUnitOfWork()
		service := reconcile.NewReconcileService(uow, discardLogger)

		err := service.HandleMessage(ctx, eventBytes(t, domain.FileEvent{Type: domain.EventTypeFileUploaded, Filename: "toy.png"}))

		require.NoError(t, err)
		uow.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
	})

	t.Run("invalid filename is dropped", func(t *testing.T) {
		uow := repository.NewMockUnitOfWork()
		service := reconcile.NewReconcileService(uow, discardLogger)

		err := service.HandleMessage(ctx, eventBytes(t, domain.FileEvent{Type: domain.EventTypeFileDeleted, Filename: "../x"}))

		require.NoError(t, err)
		uow.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
	})

	t.Run("error - malformed payload", func(t *testing.T) {
		service := reconcile.NewReconcileService(repository.NewMockUnitOfWork(), discardLogger)

		err := service.HandleMessage(ctx, []byte("not json"))

		require.Error(t, err)
	})

	t.Run("error - repository failure is returned for redelivery", func(t *testing.T) {
		// Arrange
		uow := repository.NewMockUnitOfWork()
		repo := uow.GetDocumentRepoMock()
		uow.On("Execute", ctx, mock.Anything).Return(nil)
		repo.On("FindByField", ctx, domain.CollectionImages, "filename", "toy.png").Return(nil, assert.AnError)
		service := reconcile.NewReconcileService(uow, discardLogger)

		// Act
		err := service.HandleMessage(ctx, eventBytes(t, domain.FileEvent{Type: domain.EventTypeFileDeleted, Filename: "toy.png"}))

		// Assert
		require.ErrorIs(t, err, assert.AnError)
	})
}

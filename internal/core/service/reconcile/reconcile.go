package reconcile

import (
	"log/slog"

	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/port"
)

type reconcileService struct {
	uow    port.UnitOfWork
	logger *slog.Logger
}

// NewReconcileService creates the handler that drops image records of deleted files
func NewReconcileService(uow port.UnitOfWork, logger *slog.Logger) port.MessageService {
	return &reconcileService{
		uow:    uow,
		logger: logger,
	}
}

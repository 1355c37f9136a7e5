package cleanup

import (
	"log/slog"
	"sync/atomic"

	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/port"
)

// cleanupService reconciles catalog records with the stored files
type cleanupService struct {
	uow         port.UnitOfWork
	fileStorage port.FileStorage
	logger      *slog.Logger

	// sweeping is set while a sweep runs, overlapping ticks are skipped
	sweeping atomic.Bool
}

// NewCleanupService creates the orphan image sweeper
func NewCleanupService(uow port.UnitOfWork, fileStorage port.FileStorage, logger *slog.Logger) port.CleanupService {
	return &cleanupService{
		uow:         uow,
		fileStorage: fileStorage,
		logger:      logger.With("service", "cleanup"),
	}
}

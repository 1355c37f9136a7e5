package upload

import (
	"log/slog"
	"time"

	"github.com/toyzinger/toyzinger-pim-sub000/internal/config"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/port"
)

// NewUploadServiceWithClock builds the service with a fixed time source
func NewUploadServiceWithClock(storage port.FileStorage, cfg config.FileUploadConfig, logger *slog.Logger, now func() time.Time) port.UploadService {
	return newUploadService(storage, nil, cfg, logger, now)
}

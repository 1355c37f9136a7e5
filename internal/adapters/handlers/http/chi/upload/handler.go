package upload

import (
	"log/slog"
	"strings"

	"github.com/toyzinger/toyzinger-pim-sub000/internal/config"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/port"
)

// multipartMemory is the part of a multipart body kept in memory, the rest spills to temp files
const multipartMemory = 32 << 20

// bodyOverhead leaves room for multipart boundaries and part headers
const bodyOverhead = 1 << 20

// Handler serves the intake, delete and public image routes
type Handler struct {
	uploadService port.UploadService
	cfg           config.FileUploadConfig
	logger        *slog.Logger
}

// NewHandler creates Handler
func NewHandler(service port.UploadService, cfg config.FileUploadConfig, logger *slog.Logger) *Handler {
	return &Handler{
		uploadService: service,
		cfg:           cfg,
		logger:        logger,
	}
}

// PublicPath is the route prefix stored files are served under
func (h *Handler) PublicPath() string {
	if h.cfg.PublicPath == "" {
		return "/uploads/images"
	}
	return "/" + strings.Trim(h.cfg.PublicPath, "/")
}

func (h *Handler) maxBodySize() int64 {
	return int64(h.cfg.MaxFiles)*h.cfg.MaxFileSize + bodyOverhead
}

package upload

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/toyzinger/toyzinger-pim-sub000/internal/adapters/handlers/http/chi/respond"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/domain"
)

// UploadResponse is the body of a successful upload
type UploadResponse struct {
	Message string              `json:"message"`
	Files   []domain.StoredFile `json:"files"`
}

// Upload is the handler for POST /api/upload.
// Parts are streamed so every part header reaches validation, even when the
// body limit cuts the request short.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize())

	reader, err := r.MultipartReader()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			respond.Error(w, http.StatusBadRequest, domain.ErrNoFiles.Error())
			return
		}
		h.logger.Error("error reading multipart upload", "error", err)
		respond.Error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	spool := newPartSpool(h.cfg.MaxFileSize, h.cfg.MaxFiles, multipartMemory)
	defer func() {
		if cleanupErr := spool.cleanup(); cleanupErr != nil {
			h.logger.Warn("failed to remove multipart temp files", "error", cleanupErr)
		}
	}()

	files, truncated, err := spool.collect(reader)
	if err != nil {
		h.logger.Error("error parsing multipart upload", "error", err)
		respond.Error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	if truncated {
		h.logger.Warn("upload body reached the limit", "limit", h.maxBodySize(), "parts", len(files))
		if validateErr := h.uploadService.Validate(files); validateErr != nil {
			respond.Error(w, http.StatusBadRequest, validateErr.Error())
			return
		}
		// no part broke a rule on its own, the request is still rejected
		respond.Error(w, http.StatusBadRequest, fmt.Sprintf("%s: request body exceeds %d bytes", domain.ErrFileSizeTooBig.Error(), h.maxBodySize()))
		return
	}

	stored, err := h.uploadService.Upload(r.Context(), files)
	switch {
	case isValidationError(err):
		h.logger.Warn("upload rejected", "error", err)
		respond.Error(w, http.StatusBadRequest, err.Error())
	case err != nil:
		h.logger.Error("error storing upload", "error", err)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
	default:
		respond.JSON(w, http.StatusOK, UploadResponse{
			Message: fmt.Sprintf("%d file(s) uploaded successfully", len(stored)),
			Files:   stored,
		})
	}
}

func isValidationError(err error) bool {
	return errors.Is(err, domain.ErrNoFiles) ||
		errors.Is(err, domain.ErrInvalidFileType) ||
		errors.Is(err, domain.ErrFileSizeTooBig) ||
		errors.Is(err, domain.ErrTooManyFiles)
}

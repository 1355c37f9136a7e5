package upload

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/adapters/handlers/http/chi/respond"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/domain"
)

// DeleteResponse is the body of a successful delete
type DeleteResponse struct {
	Message  string `json:"message"`
	Filename string `json:"filename"`
}

// Delete is the handler for DELETE /api/delete/{filename}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	filename, err := url.PathUnescape(chi.URLParam(r, "filename"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, domain.ErrInvalidFilename.Error())
		return
	}

	err = h.uploadService.Delete(r.Context(), filename)
	switch {
	case errors.Is(err, domain.ErrInvalidFilename):
		h.logger.Warn("delete rejected", "filename", filename, "error", err)
		respond.Error(w, http.StatusBadRequest, domain.ErrInvalidFilename.Error())
	case errors.Is(err, domain.ErrFileNotFound):
		respond.Error(w, http.StatusNotFound, domain.ErrFileNotFound.Error())
	case err != nil:
		h.logger.Error("error deleting file", "filename", filename, "error", err)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
	default:
		respond.JSON(w, http.StatusOK, DeleteResponse{
			Message:  "file deleted successfully",
			Filename: filename,
		})
	}
}

package upload

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/adapters/handlers/http/chi/respond"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/domain"
)

// Serve is the handler for GET <public path>/{filename}
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	filename, err := url.PathUnescape(chi.URLParam(r, "filename"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, domain.ErrInvalidFilename.Error())
		return
	}

	content, info, err := h.uploadService.Open(r.Context(), filename)
	switch {
	case errors.Is(err, domain.ErrInvalidFilename):
		respond.Error(w, http.StatusBadRequest, domain.ErrInvalidFilename.Error())
		return
	case errors.Is(err, domain.ErrFileNotFound):
		respond.Error(w, http.StatusNotFound, domain.ErrFileNotFound.Error())
		return
	case err != nil:
		h.logger.Error("error opening file", "filename", filename, "error", err)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
		return
	}
	defer content.Close()

	w.Header().Set("Content-Type", info.ContentType)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	if info.ContentType == "image/svg+xml" {
		w.Header().Set("Content-Security-Policy", "default-src 'none'; style-src 'unsafe-inline'; sandbox")
	}

	if seeker, ok := content.(io.ReadSeeker); ok {
		http.ServeContent(w, r, info.Name, info.ModTime, seeker)
		return
	}

	if info.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(info.Size, 10))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, content); err != nil {
		h.logger.Warn("error streaming file", "filename", filename, "error", err)
	}
}

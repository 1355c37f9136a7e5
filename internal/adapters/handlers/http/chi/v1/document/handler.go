package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/adapters/handlers/http/chi/respond"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/domain"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/port"
)

// maxDocumentBody bounds document request bodies
const maxDocumentBody = 1 << 20

// HandlerV1 is the handler for v1 document routes
type HandlerV1 struct {
	documentStore port.DocumentStore
	logger        *slog.Logger
}

// NewDocumentHandlerV1 creates HandlerV1
func NewDocumentHandlerV1(store port.DocumentStore, logger *slog.Logger) *HandlerV1 {
	return &HandlerV1{
		documentStore: store,
		logger:        logger,
	}
}

// Routes exposes routes
func (h *HandlerV1) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/{collection}", h.CreateDocumentV1)
	router.Get("/{collection}", h.ListDocumentsV1)
	router.Get("/{collection}/{id}", h.GetDocumentV1)
	router.Patch("/{collection}/{id}", h.UpdateDocumentV1)
	router.Delete("/{collection}/{id}", h.DeleteDocumentV1)

	return router
}

// decodeObject reads a JSON object body, numbers are kept as json.Number
func decodeObject(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxDocumentBody))
	decoder.UseNumber()

	var body map[string]any
	if err := decoder.Decode(&body); err != nil {
		return nil, err
	}
	if body == nil {
		return nil, fmt.Errorf("body must be a JSON object")
	}
	return body, nil
}

// writeStoreError maps document store errors to status codes
func (h *HandlerV1) writeStoreError(w http.ResponseWriter, err error, msg string, args ...any) {
	switch {
	case errors.Is(err, domain.ErrUnknownCollection), errors.Is(err, domain.ErrDocumentNotFound):
		respond.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrAlreadyExists):
		respond.Error(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error(msg, append(args, "error", err)...)
		respond.Error(w, http.StatusInternalServerError, "internal server error")
	}
}

package document

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/adapters/handlers/http/chi/respond"
)

// V1CreateDocumentResponse is the body sent back after a create
type V1CreateDocumentResponse struct {
	ID string `json:"id"`
}

// CreateDocumentV1 is the handler for POST /api/v1/documents/{collection}
func (h *HandlerV1) CreateDocumentV1(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")

	body, err := decodeObject(w, r)
	if err != nil {
		h.logger.Warn("error decoding create document request", "collection", collection, "error", err)
		respond.Error(w, http.StatusBadRequest, "invalid request")
		return
	}

	id, err := h.documentStore.Add(r.Context(), collection, body)
	if err != nil {
		h.writeStoreError(w, err, "error creating document", "collection", collection)
		return
	}

	respond.JSON(w, http.StatusCreated, V1CreateDocumentResponse{ID: id})
}

package document

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/adapters/handlers/http/chi/respond"
)

// UpdateDocumentV1 is the handler for PATCH /api/v1/documents/{collection}/{id}.
// A null field in the body removes that field.
func (h *HandlerV1) UpdateDocumentV1(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")
	id := chi.URLParam(r, "id")

	patch, err := decodeObject(w, r)
	if err != nil {
		h.logger.Warn("error decoding update document request", "collection", collection, "id", id, "error", err)
		respond.Error(w, http.StatusBadRequest, "invalid request")
		return
	}

	if err := h.documentStore.Update(r.Context(), collection, id, patch); err != nil {
		h.writeStoreError(w, err, "error updating document", "collection", collection, "id", id)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

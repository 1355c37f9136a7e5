package document

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// DeleteDocumentV1 is the handler for DELETE /api/v1/documents/{collection}/{id}
func (h *HandlerV1) DeleteDocumentV1(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")
	id := chi.URLParam(r, "id")

	if err := h.documentStore.Delete(r.Context(), collection, id); err != nil {
		h.writeStoreError(w, err, "error deleting document", "collection", collection, "id", id)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

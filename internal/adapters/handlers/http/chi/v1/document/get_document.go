package document

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/adapters/handlers/http/chi/respond"
)

// GetDocumentV1 is the handler for GET /api/v1/documents/{collection}/{id}
func (h *HandlerV1) GetDocumentV1(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")
	id := chi.URLParam(r, "id")

	document, err := h.documentStore.Get(r.Context(), collection, id)
	if err != nil {
		h.writeStoreError(w, err, "error getting document", "collection", collection, "id", id)
		return
	}

	respond.JSON(w, http.StatusOK, document)
}

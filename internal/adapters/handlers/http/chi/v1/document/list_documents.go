package document

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/adapters/handlers/http/chi/respond"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/core/domain"
)

// V1ListDocumentsResponse is the body of a collection listing
type V1ListDocumentsResponse struct {
	Documents []domain.Document `json:"documents"`
}

// ListDocumentsV1 is the handler for GET /api/v1/documents/{collection}
func (h *HandlerV1) ListDocumentsV1(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")

	documents, err := h.documentStore.GetAll(r.Context(), collection)
	if err != nil {
		h.writeStoreError(w, err, "error listing documents", "collection", collection)
		return
	}
	if documents == nil {
		documents = []domain.Document{}
	}

	respond.JSON(w, http.StatusOK, V1ListDocumentsResponse{Documents: documents})
}

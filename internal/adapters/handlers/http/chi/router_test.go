package chi_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/adapters/handlers/http/chi"
)

func TestNewRouter(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := chi.NewRouter(logger, nil, nil, "prod", "")

	t.Run("health", func(t *testing.T) {
		// Act
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		// Assert
		require.Equal(t, http.StatusOK, w.Code)
		var resp chi.HealthResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "ok", resp.Status)
		assert.False(t, resp.StartedAt.After(resp.Timestamp))
	})

	t.Run("routes of nil handlers are not mounted", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/upload", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

package chi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/adapters/handlers/http/chi/respond"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/adapters/handlers/http/chi/upload"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/adapters/handlers/http/chi/v1/document"
)

// NewRouter builds http.Handler with chi. Either handler may be nil,
// its routes are then not mounted.
func NewRouter(logger *slog.Logger, uploadHandler *upload.Handler, documentHandler *document.HandlerV1, env string, authSecret string) http.Handler {
	r := chi.NewRouter()

	//handle requestID to facilitate debug (X-Request-ID)
	//It fetches from request if exists, or creates it
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggerMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	if env != "prod" {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"Link"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(AuthMiddleware(authSecret, logger))

		if uploadHandler != nil {
			r.Post("/upload", uploadHandler.Upload)
			r.Delete("/delete/{filename}", uploadHandler.Delete)
			r.Delete("/delete/", uploadHandler.Delete)
		}
		if documentHandler != nil {
			r.Mount("/v1/documents", documentHandler.Routes())
		}
	})

	if uploadHandler != nil {
		r.Get(uploadHandler.PublicPath()+"/{filename}", uploadHandler.Serve)
	}

	r.Get("/health", health(time.Now()))

	return r
}

type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"startedAt"`
	Timestamp time.Time `json:"timestamp"`
}

func health(startedAt time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, http.StatusOK, HealthResponse{
			Status:    "ok",
			StartedAt: startedAt,
			Timestamp: time.Now(),
		})
	}
}

package chi

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/adapters/handlers/http/chi/respond"
	"github.com/toyzinger/toyzinger-pim-sub000/internal/auth"
)

// LoggerMiddleware is a custom logging middleware
func LoggerMiddleware(l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				if r.URL.Path != "/health" {

					l.Info("http_request",
						"request_id", middleware.GetReqID(r.Context()),
						"method", r.Method,
						"path", r.URL.Path,
						"status", ww.Status(),
						"bytes", ww.BytesWritten(),
						"duration", time.Since(start),
					)
				}
			}()
			next.ServeHTTP(ww, r)
		})
	}
}

// AuthMiddleware requires an HS256 bearer token on mutating requests.
// An empty secret disables the check.
func AuthMiddleware(secret string, l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if secret == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !found || token == "" {
				respond.Error(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			operator, err := auth.ParseToken(token, []byte(secret))
			if err != nil {
				l.Warn("rejected bearer token", "request_id", middleware.GetReqID(r.Context()), "error", err)
				respond.Error(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			l.Debug("authenticated request", "operator", operator, "method", r.Method, "path", r.URL.Path)
			next.ServeHTTP(w, r)
		})
	}
}

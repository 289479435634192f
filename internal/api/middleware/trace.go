package middleware

import (
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/famsync/famsync-api/internal/api/shared"
	"github.com/famsync/famsync-api/internal/platform/logger"
)

// Trace derives a trace ID from chi's request ID, stores it in the context,
// and attaches a request-scoped logger carrying it. Run after
// chi's RequestID middleware.
func Trace(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID := chimw.GetReqID(r.Context())

			ctx := shared.WithTraceID(r.Context(), traceID)
			reqLogger := base.With("trace_id", traceID, "method", r.Method, "path", r.URL.Path)
			ctx = logger.WithLogger(ctx, reqLogger)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

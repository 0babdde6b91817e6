package middleware

import (
	"log/slog"
	"net/http"

	"github.com/taskflow-app/taskflow-api/internal/api/shared"
)

// TraceMiddleware assigns each request a trace ID and stores it in the
// request context so handlers and error responses can correlate logs.
func TraceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := shared.SetTraceID(r.Context())
		traceID := shared.GetTraceID(ctx)

		slog.Debug("request received",
			"trace_id", traceID,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

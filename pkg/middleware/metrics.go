package middleware

import (
	"net/http"
	"time"

	"dormitory-backend/pkg/metrics"

	"github.com/go-chi/chi/v5"
)

// Metrics records request count and latency per chi route pattern, so ids
// in the path do not explode label cardinality.
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rw, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			m.HTTPRequest(route, r.Method, rw.statusCode, time.Since(start).Seconds())
		})
	}
}

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"mining-chatbot/pkg/metrics"

	"github.com/go-chi/chi/v5"
)

// Metrics records request counts and latency keyed by the chi route
// pattern, so /verify/{token} stays one series.
func Metrics() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rw, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}

			metrics.HTTPRequests.WithLabelValues(route, r.Method, strconv.Itoa(rw.statusCode)).Inc()
			metrics.HTTPDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
		})
	}
}

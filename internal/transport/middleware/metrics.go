package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/petboarding/petboarding-backend/internal/metrics"
)

// Metrics returns middleware that records request count and latency per
// chi route pattern. Requests that match no route are recorded as "unmatched"
// so that arbitrary paths cannot grow the label space.
func Metrics() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := wrapWriter(w)

			next.ServeHTTP(sw, r)

			metrics.ObserveHTTP(r.Method, routePattern(r), strconv.Itoa(sw.status), time.Since(start))
		})
	}
}

func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return "unmatched"
	}
	if pattern := rctx.RoutePattern(); pattern != "" {
		return pattern
	}
	return "unmatched"
}

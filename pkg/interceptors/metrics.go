package interceptors

import (
	"net/http"
	"strconv"
	"time"

	"github.com/FACorreiaa/planmesh-api/pkg/observability"
)

// NewMetricsMiddleware records request counts and latency per route pattern.
// It must wrap the ServeMux so the matched pattern is known after dispatch.
func NewMetricsMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newStatusRecorder(w)

			next.ServeHTTP(rec, r)

			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			observability.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
			observability.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}

package interceptors

import (
	"net/http"

	"golang.org/x/time/rate"

	"github.com/FACorreiaa/planmesh-api/pkg/respond"
)

// NewRateLimitMiddleware rejects requests with 429 once limiter runs dry.
// A nil limiter disables limiting.
func NewRateLimitMiddleware(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				w.Header().Set("Retry-After", "1")
				respond.Error(w, r, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

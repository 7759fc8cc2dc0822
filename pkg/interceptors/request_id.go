package interceptors

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/FACorreiaa/planmesh-api/pkg/respond"
)

// NewRequestIDMiddleware reuses the caller's request id from header, or
// mints a new one, and echoes it back on the response.
func NewRequestIDMiddleware(header string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(header)
			if id == "" || len(id) > 128 {
				id = uuid.NewString()
			}
			w.Header().Set(header, id)
			next.ServeHTTP(w, r.WithContext(respond.WithRequestID(r.Context(), id)))
		})
	}
}

package interceptors

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/FACorreiaa/planmesh-api/pkg/respond"
)

func NewRecoveryMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := newStatusRecorder(w)
			defer func() {
				if p := recover(); p != nil {
					if p == http.ErrAbortHandler {
						panic(p)
					}
					logger.ErrorContext(r.Context(), "panic recovered", appendLoggerFields(r.Context(),
						"path", r.URL.Path,
						"panic", p,
						"headers_written", rec.wroteHeader,
						"stack", string(debug.Stack()),
					)...)
					// Headers already sent: log only.
					if rec.wroteHeader {
						return
					}
					respond.Error(w, r, http.StatusInternalServerError, "internal server error")
				}
			}()
			next.ServeHTTP(rec, r)
		})
	}
}

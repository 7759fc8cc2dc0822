package api

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.opentelemetry.io/otel"
	"golang.org/x/time/rate"

	"github.com/FACorreiaa/planmesh-api/internal/storage"
	"github.com/FACorreiaa/planmesh-api/pkg/interceptors"
	"github.com/FACorreiaa/planmesh-api/pkg/respond"
)

type middleware = func(http.Handler) http.Handler

// SetupRouter configures all routes and returns the HTTP handler
func SetupRouter(deps *Dependencies) http.Handler {
	mux := http.NewServeMux()

	var limiter *rate.Limiter
	if deps.Config.Server.RateLimitPerSecond > 0 && deps.Config.Server.RateLimitBurst > 0 {
		limiter = rate.NewLimiter(
			rate.Limit(deps.Config.Server.RateLimitPerSecond),
			deps.Config.Server.RateLimitBurst,
		)
	}
	rateLimit := interceptors.NewRateLimitMiddleware(limiter)
	identity := interceptors.NewClientIdentityMiddleware(deps.Sessions, deps.Tokens, deps.Logger)

	registerAPIRoutes(mux, deps, rateLimit, identity)
	registerUtilityRoutes(mux, deps)

	tracer := otel.GetTracerProvider().Tracer("planmesh/api")

	// Outermost first. Metrics sits next to the mux so the matched pattern is
	// visible after dispatch.
	handler := chain(mux,
		interceptors.NewRequestIDMiddleware("X-Request-ID"),
		interceptors.NewTracingMiddleware(tracer),
		interceptors.NewRecoveryMiddleware(deps.Logger),
		interceptors.NewLoggingMiddleware(deps.Logger),
		interceptors.NewMetricsMiddleware(),
	)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   deps.Config.Server.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
	})

	return corsHandler.Handler(handler)
}

// registerAPIRoutes registers the JSON API. Generation routes are rate
// limited; account and trip routes resolve the caller's session slot.
func registerAPIRoutes(mux *http.ServeMux, deps *Dependencies, rateLimit, identity middleware) {
	mux.Handle("POST /v1/itineraries", rateLimit(http.HandlerFunc(deps.ItineraryHandler.GenerateItinerary)))
	mux.Handle("POST /v1/profile/avatar", rateLimit(http.HandlerFunc(deps.ItineraryHandler.GenerateProfileImage)))

	mux.Handle("POST /v1/auth/signup", identity(http.HandlerFunc(deps.AccountHandler.Signup)))
	mux.Handle("POST /v1/auth/login", identity(http.HandlerFunc(deps.AccountHandler.Login)))
	mux.Handle("POST /v1/auth/logout", identity(http.HandlerFunc(deps.AccountHandler.Logout)))
	mux.Handle("GET /v1/auth/me", identity(http.HandlerFunc(deps.AccountHandler.Me)))
	mux.Handle("PUT /v1/profile", identity(http.HandlerFunc(deps.AccountHandler.UpdateProfile)))

	mux.Handle("POST /v1/trips", identity(http.HandlerFunc(deps.HistoryHandler.SaveTrip)))
	mux.Handle("GET /v1/trips", identity(http.HandlerFunc(deps.HistoryHandler.GetHistory)))

	deps.Logger.Info("API routes configured")
}

// registerUtilityRoutes registers health check and metrics routes
func registerUtilityRoutes(mux *http.ServeMux, deps *Dependencies) {
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := storage.Ping(ctx, deps.Store); err != nil {
			deps.Logger.WarnContext(ctx, "health check failed", "error", err)
			respond.Error(w, r, http.StatusServiceUnavailable, "storage unhealthy")
			return
		}
		respond.JSON(w, r, http.StatusOK, map[string]any{
			"storage":       deps.Config.Storage.Driver,
			"llmConfigured": deps.LLMClient != nil,
		}, "ok")
	})
	deps.Logger.Info("registered health check", "path", "/health")

	if deps.Config.Observability.MetricsEnabled {
		mux.Handle("GET /metrics", promhttp.Handler())
		deps.Logger.Info("registered metrics endpoint", "path", "/metrics")
	}
}

func chain(h http.Handler, mws ...middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

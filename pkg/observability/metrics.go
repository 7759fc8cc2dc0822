package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "planmesh",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route and status code.",
	}, []string{"method", "route", "code"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "planmesh",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	GenerationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "planmesh",
		Name:      "generations_total",
		Help:      "Generative API requests by kind (itinerary, avatar) and outcome.",
	}, []string{"kind", "outcome"})

	// Model calls take seconds to tens of seconds.
	GenerationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "planmesh",
		Name:      "generation_duration_seconds",
		Help:      "Latency of generative API requests.",
		Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
	}, []string{"kind"})

	AccountOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "planmesh",
		Name:      "account_operations_total",
		Help:      "Account and history operations by name and outcome.",
	}, []string{"operation", "outcome"})
)

// Outcome labels a finished operation for the counters above.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

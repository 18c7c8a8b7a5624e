// Package metrics holds the Prometheus collectors for delve.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "delve_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "delve_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 14), // 10ms to ~82s
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "delve_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	// Gateway metrics
	GatewayRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "delve_gateway_requests_total",
			Help: "Total number of language model gateway calls",
		},
		[]string{"provider", "status"},
	)

	GatewayRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "delve_gateway_request_duration_seconds",
			Help:    "Duration of language model gateway calls in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12), // 100ms to ~410s
		},
		[]string{"provider"},
	)

	// Research workflow metrics
	ResearchRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "delve_research_runs_total",
			Help: "Total number of research runs",
		},
		[]string{"outcome"}, // "answered", "fallback", "error", "cancelled", "timeout"
	)

	ResearchRoundsPerRun = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "delve_research_rounds_per_run",
			Help:    "Number of research rounds executed per run",
			Buckets: []float64{1, 2, 3, 4, 5, 7, 10},
		},
	)

	ResearchStepDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "delve_research_step_duration_seconds",
			Help:    "Duration of research workflow steps in seconds",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		},
		[]string{"step"},
	)
)

// Middleware returns a chi middleware that records HTTP metrics.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		HTTPRequestsInFlight.Inc()
		defer HTTPRequestsInFlight.Dec()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			path = rctx.RoutePattern()
		}

		status := strconv.Itoa(ww.Status())
		HTTPRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// RecordGatewayRequest records metrics for one gateway call.
func RecordGatewayRequest(provider string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	GatewayRequestsTotal.WithLabelValues(provider, status).Inc()
	GatewayRequestDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordResearchRun records the outcome of a research run.
// Rounds are only observed for runs that executed at least one round.
func RecordResearchRun(outcome string, rounds int) {
	ResearchRunsTotal.WithLabelValues(outcome).Inc()
	if rounds > 0 {
		ResearchRoundsPerRun.Observe(float64(rounds))
	}
}

// RecordResearchStep records the duration of one workflow step.
func RecordResearchStep(step string, duration time.Duration) {
	ResearchStepDuration.WithLabelValues(step).Observe(duration.Seconds())
}

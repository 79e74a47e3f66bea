// Package observability provides Prometheus metrics and middleware for
// monitoring the request pipeline.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DurationBuckets defines histogram buckets suited for in-process request
// handling, ranging from 1ms to 10s.
var DurationBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

var (
	// RequestsTotal counts dispatched requests by method and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "molecule_requests_total",
			Help: "Total requests",
		},
		[]string{"method", "status"},
	)

	// RequestDuration records dispatch duration in seconds by method.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "molecule_request_duration_seconds",
			Help:    "Request duration",
			Buckets: DurationBuckets,
		},
		[]string{"method"},
	)

	// RequestsInFlight tracks the number of requests being dispatched.
	RequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "molecule_requests_in_flight",
			Help: "Requests currently being dispatched",
		},
	)

	// RateLimitRejectedTotal counts requests rejected by the rate limiter.
	RateLimitRejectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "molecule_ratelimit_rejected_total",
			Help: "Rate limit rejections",
		},
	)

	// RouteFallbacksTotal counts requests no route matched, dispatched to
	// the router default.
	RouteFallbacksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "molecule_route_fallbacks_total",
			Help: "Requests dispatched to the default route",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		RequestsInFlight,
		RateLimitRejectedTotal,
		RouteFallbacksTotal,
	)
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}

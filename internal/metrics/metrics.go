// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "store_http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "store_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "store_cache_lookups_total",
		Help: "Cache lookups by cache name and result (hit or miss).",
	}, []string{"cache", "result"})

	CacheInvalidations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "store_cache_invalidations_total",
		Help: "Cache invalidations by source (local or remote).",
	}, []string{"source"})

	DegradedMetrics = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "store_dashboard_degraded_metrics_total",
		Help: "Best-effort dashboard metrics that fell back to zero.",
	}, []string{"metric"})

	RequestNumberMintDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "store_request_number_mint_seconds",
		Help:    "Time spent waiting for and computing the next request number.",
		Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	}, []string{"form_type"})

	IndentMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "store_indent_mutations_total",
		Help: "Indent creates and updates by operation.",
	}, []string{"operation"})
)

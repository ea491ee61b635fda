package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const RequestDurationMetricName = "http_requests_duration_seconds"

// RequestDurationBuckets are exponential-ish seconds from 5ms to 10s.
var RequestDurationBuckets = []float64{
	0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0,
}

type collectors struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DatabaseQueriesTotal  *prometheus.CounterVec
	DatabaseQueryDuration *prometheus.HistogramVec

	CacheHitsTotal         prometheus.Counter
	CacheMissesTotal       prometheus.Counter
	CacheOperationDuration *prometheus.HistogramVec

	PostOperationsTotal *prometheus.CounterVec

	ServiceHealth prometheus.Gauge
}

func newCollectors(reg prometheus.Registerer) *collectors {
	factory := promauto.With(reg)

	return &collectors{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests processed",
			},
			[]string{"method", "path", "status"},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    RequestDurationMetricName,
				Help:    "Duration of HTTP requests in seconds",
				Buckets: RequestDurationBuckets,
			},
			[]string{"method", "path", "status"},
		),

		DatabaseQueriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "database_queries_total",
				Help: "Total number of database queries executed",
			},
			[]string{"query_type", "success"},
		),

		DatabaseQueryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "database_query_duration_seconds",
				Help:    "Duration of database queries in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"query_type"},
		),

		CacheHitsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "cache_hits_total",
				Help: "Total number of cache hits",
			},
		),

		CacheMissesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "cache_misses_total",
				Help: "Total number of cache misses",
			},
		),

		CacheOperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cache_operation_duration_seconds",
				Help:    "Duration of cache operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),

		PostOperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "post_operations_total",
				Help: "Total number of post operations processed",
			},
			[]string{"operation", "success"},
		),

		ServiceHealth: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "service_health",
				Help: "Service health status (1 = healthy, 0 = unhealthy)",
			},
		),
	}
}

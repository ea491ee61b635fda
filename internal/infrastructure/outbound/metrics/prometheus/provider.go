package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	ports "blog-post-service/internal/domain/ports/output"
)

type PrometheusMetricsProvider struct {
	registry *prometheus.Registry
	c        *collectors
}

// NewPrometheusMetricsProvider registers every collector on registry. Passing
// the same registry twice panics with a duplicate registration error.
func NewPrometheusMetricsProvider(registry *prometheus.Registry) *PrometheusMetricsProvider {
	return &PrometheusMetricsProvider{
		registry: registry,
		c:        newCollectors(registry),
	}
}

var _ ports.MetricsProvider = (*PrometheusMetricsProvider)(nil)

// Handler renders the registry in the text exposition format.
func (p *PrometheusMetricsProvider) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}

func (p *PrometheusMetricsProvider) IncrementHTTPRequests(method, path, status string) {
	p.c.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
}

func (p *PrometheusMetricsProvider) RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	p.c.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

func (p *PrometheusMetricsProvider) IncrementDatabaseQueries(queryType string, success bool) {
	p.c.DatabaseQueriesTotal.WithLabelValues(queryType, strconv.FormatBool(success)).Inc()
}

func (p *PrometheusMetricsProvider) RecordDatabaseQueryDuration(queryType string, duration time.Duration) {
	p.c.DatabaseQueryDuration.WithLabelValues(queryType).Observe(duration.Seconds())
}

func (p *PrometheusMetricsProvider) IncrementCacheHits() {
	p.c.CacheHitsTotal.Inc()
}

func (p *PrometheusMetricsProvider) IncrementCacheMisses() {
	p.c.CacheMissesTotal.Inc()
}

func (p *PrometheusMetricsProvider) RecordCacheOperationDuration(operation string, duration time.Duration) {
	p.c.CacheOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (p *PrometheusMetricsProvider) IncrementPostOperations(operation string, success bool) {
	p.c.PostOperationsTotal.WithLabelValues(operation, strconv.FormatBool(success)).Inc()
}

func (p *PrometheusMetricsProvider) SetServiceHealth(healthy bool) {
	if healthy {
		p.c.ServiceHealth.Set(1)
	} else {
		p.c.ServiceHealth.Set(0)
	}
}

package otel

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	ports "blog-post-service/internal/domain/ports/output"
	prometheus_metrics "blog-post-service/internal/infrastructure/outbound/metrics/prometheus"
)

// OTelMetricsProvider mirrors the Prometheus instruments on an OpenTelemetry
// meter so they can be pushed to a collector.
type OTelMetricsProvider struct {
	httpRequests  metric.Int64Counter
	httpDuration  metric.Float64Histogram
	dbQueries     metric.Int64Counter
	dbDuration    metric.Float64Histogram
	cacheHits     metric.Int64Counter
	cacheMisses   metric.Int64Counter
	cacheDuration metric.Float64Histogram
	postOps       metric.Int64Counter
	health        metric.Int64Gauge
}

var _ ports.MetricsProvider = (*OTelMetricsProvider)(nil)

func NewOTelMetricsProvider(meter metric.Meter) (*OTelMetricsProvider, error) {
	var (
		p    OTelMetricsProvider
		errs []error
		err  error
	)

	p.httpRequests, err = meter.Int64Counter("http_requests_total",
		metric.WithDescription("Total number of HTTP requests processed"))
	errs = append(errs, err)

	p.httpDuration, err = meter.Float64Histogram(prometheus_metrics.RequestDurationMetricName,
		metric.WithDescription("Duration of HTTP requests in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(prometheus_metrics.RequestDurationBuckets...))
	errs = append(errs, err)

	p.dbQueries, err = meter.Int64Counter("database_queries_total",
		metric.WithDescription("Total number of database queries executed"))
	errs = append(errs, err)

	p.dbDuration, err = meter.Float64Histogram("database_query_duration_seconds",
		metric.WithDescription("Duration of database queries in seconds"),
		metric.WithUnit("s"))
	errs = append(errs, err)

	p.cacheHits, err = meter.Int64Counter("cache_hits_total",
		metric.WithDescription("Total number of cache hits"))
	errs = append(errs, err)

	p.cacheMisses, err = meter.Int64Counter("cache_misses_total",
		metric.WithDescription("Total number of cache misses"))
	errs = append(errs, err)

	p.cacheDuration, err = meter.Float64Histogram("cache_operation_duration_seconds",
		metric.WithDescription("Duration of cache operations in seconds"),
		metric.WithUnit("s"))
	errs = append(errs, err)

	p.postOps, err = meter.Int64Counter("post_operations_total",
		metric.WithDescription("Total number of post operations processed"))
	errs = append(errs, err)

	p.health, err = meter.Int64Gauge("service_health",
		metric.WithDescription("Service health status (1 = healthy, 0 = unhealthy)"))
	errs = append(errs, err)

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &p, nil
}

func httpAttributes(method, path, status string) metric.MeasurementOption {
	return metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("path", path),
		attribute.String("status", status),
	)
}

func (p *OTelMetricsProvider) IncrementHTTPRequests(method, path, status string) {
	p.httpRequests.Add(context.Background(), 1, httpAttributes(method, path, status))
}

func (p *OTelMetricsProvider) RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	p.httpDuration.Record(context.Background(), duration.Seconds(), httpAttributes(method, path, status))
}

func (p *OTelMetricsProvider) IncrementDatabaseQueries(queryType string, success bool) {
	p.dbQueries.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("query_type", queryType),
		attribute.String("success", strconv.FormatBool(success)),
	))
}

func (p *OTelMetricsProvider) RecordDatabaseQueryDuration(queryType string, duration time.Duration) {
	p.dbDuration.Record(context.Background(), duration.Seconds(),
		metric.WithAttributes(attribute.String("query_type", queryType)))
}

func (p *OTelMetricsProvider) IncrementCacheHits() {
	p.cacheHits.Add(context.Background(), 1)
}

func (p *OTelMetricsProvider) IncrementCacheMisses() {
	p.cacheMisses.Add(context.Background(), 1)
}

func (p *OTelMetricsProvider) RecordCacheOperationDuration(operation string, duration time.Duration) {
	p.cacheDuration.Record(context.Background(), duration.Seconds(),
		metric.WithAttributes(attribute.String("operation", operation)))
}

func (p *OTelMetricsProvider) IncrementPostOperations(operation string, success bool) {
	p.postOps.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("success", strconv.FormatBool(success)),
	))
}

func (p *OTelMetricsProvider) SetServiceHealth(healthy bool) {
	var v int64
	if healthy {
		v = 1
	}
	p.health.Record(context.Background(), v)
}

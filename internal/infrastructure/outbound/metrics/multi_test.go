package metrics_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-post-service/internal/infrastructure/outbound/metrics"
	prometheus_metrics "blog-post-service/internal/infrastructure/outbound/metrics/prometheus"
)

func TestMulti_FansOut(t *testing.T) {
	first := prometheus.NewRegistry()
	second := prometheus.NewRegistry()

	m := metrics.Multi{
		prometheus_metrics.NewPrometheusMetricsProvider(first),
		prometheus_metrics.NewPrometheusMetricsProvider(second),
	}

	m.IncrementHTTPRequests("GET", "/health", "200")
	m.RecordHTTPRequestDuration("GET", "/health", "200", time.Millisecond)

	for _, registry := range []*prometheus.Registry{first, second} {
		count, err := testutil.GatherAndCount(registry, "http_requests_total")
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	}
}

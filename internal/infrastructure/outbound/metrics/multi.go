package metrics

import (
	"time"

	ports "blog-post-service/internal/domain/ports/output"
)

// Multi fans every measurement out to all providers.
type Multi []ports.MetricsProvider

var _ ports.MetricsProvider = Multi(nil)

func (m Multi) IncrementHTTPRequests(method, path, status string) {
	for _, p := range m {
		p.IncrementHTTPRequests(method, path, status)
	}
}

func (m Multi) RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	for _, p := range m {
		p.RecordHTTPRequestDuration(method, path, status, duration)
	}
}

func (m Multi) IncrementDatabaseQueries(queryType string, success bool) {
	for _, p := range m {
		p.IncrementDatabaseQueries(queryType, success)
	}
}

func (m Multi) RecordDatabaseQueryDuration(queryType string, duration time.Duration) {
	for _, p := range m {
		p.RecordDatabaseQueryDuration(queryType, duration)
	}
}

func (m Multi) IncrementCacheHits() {
	for _, p := range m {
		p.IncrementCacheHits()
	}
}

func (m Multi) IncrementCacheMisses() {
	for _, p := range m {
		p.IncrementCacheMisses()
	}
}

func (m Multi) RecordCacheOperationDuration(operation string, duration time.Duration) {
	for _, p := range m {
		p.RecordCacheOperationDuration(operation, duration)
	}
}

func (m Multi) IncrementPostOperations(operation string, success bool) {
	for _, p := range m {
		p.IncrementPostOperations(operation, success)
	}
}

func (m Multi) SetServiceHealth(healthy bool) {
	for _, p := range m {
		p.SetServiceHealth(healthy)
	}
}

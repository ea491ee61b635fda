package metrics_server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	ports "blog-post-service/internal/domain/ports/output"
	delivery_http "blog-post-service/internal/infrastructure/inbound/http"
)

const serverName = "metrics"

// NewMetricsServer exposes handler at GET /metrics on its own listener.
func NewMetricsServer(address string, port int, handler http.Handler, log ports.Logger) *delivery_http.Server {
	router := chi.NewRouter()
	router.Method(http.MethodGet, "/metrics", handler)

	return delivery_http.NewServer(serverName, router, address, port, log)
}

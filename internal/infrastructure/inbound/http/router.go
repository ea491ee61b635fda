// Package delivery_http serves the GraphQL API, the playground, health
// and static assets over HTTP.
package delivery_http

import (
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/graph-gophers/graphql-go"
	"go.opentelemetry.io/otel/trace"

	ports "blog-post-service/internal/domain/ports/output"
)

const (
	DefaultRequestTimeout = 15 * time.Second

	compressionLevel     = 5
	subscriptionEndpoint = "/ws"
)

type RouterConfig struct {
	Schema         *graphql.Schema
	Metrics        ports.MetricsProvider
	TracerProvider trace.TracerProvider
	Log            ports.Logger
	RequestTimeout time.Duration
	AssetsDir      string
}

// NewRouter wires the API routes behind compression, timeout, metrics,
// request logging and tracing, outermost first. Panics are recovered
// innermost so every layer above sees a 500.
func NewRouter(cfg RouterConfig) http.Handler {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	router := chi.NewRouter()
	router.Use(chimiddleware.Compress(compressionLevel))
	router.Use(Timeout(timeout))
	router.Use(Metrics(cfg.Metrics))
	router.Use(chimiddleware.RequestID)
	router.Use(RequestLogger(cfg.Log))
	router.Use(Tracing(cfg.TracerProvider))
	router.Use(chimiddleware.Recoverer)

	var assets fs.FS
	if cfg.AssetsDir != "" {
		assets = os.DirFS(cfg.AssetsDir)
	}

	router.Get("/", playgroundHandler("/", subscriptionEndpoint, assets))
	router.Method(http.MethodPost, "/", NewGraphQLHandler(cfg.Schema, cfg.TracerProvider, cfg.Log))
	router.Get("/health", healthHandler)
	router.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.Dir(cfg.AssetsDir))))

	return router
}

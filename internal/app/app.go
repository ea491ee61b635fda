// Package app assembles the service and runs its two listeners.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	post_service "blog-post-service/internal/application/service/post"
	post_service_port "blog-post-service/internal/domain/ports/input/post"
	ports "blog-post-service/internal/domain/ports/output"
	"blog-post-service/internal/infrastructure/config"
	"blog-post-service/internal/infrastructure/inbound/graphql"
	delivery_http "blog-post-service/internal/infrastructure/inbound/http"
	metrics_server "blog-post-service/internal/infrastructure/inbound/metrics"
	"blog-post-service/internal/infrastructure/observability"
	redis_cache "blog-post-service/internal/infrastructure/outbound/cache/redis"
	"blog-post-service/internal/infrastructure/outbound/database"
	"blog-post-service/internal/infrastructure/outbound/metrics"
	otel_metrics "blog-post-service/internal/infrastructure/outbound/metrics/otel"
	prometheus_metrics "blog-post-service/internal/infrastructure/outbound/metrics/prometheus"
	"blog-post-service/internal/infrastructure/outbound/repository/post/traced"
)

const (
	ShutdownTimeout = 30 * time.Second

	meterName = "blog-post-service"
)

type Option func(*options)

type options struct {
	providers *observability.Providers
	registry  *prometheus.Registry
}

// WithProviders hands already built telemetry providers to the App. The App
// shuts them down when it stops.
func WithProviders(providers *observability.Providers) Option {
	return func(o *options) {
		o.providers = providers
	}
}

// WithRegistry registers the Prometheus collectors on registry instead of a
// fresh one.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(o *options) {
		o.registry = registry
	}
}

type App struct {
	log   ports.Logger
	state atomic.Int32

	providers     *observability.Providers
	metrics       ports.MetricsProvider
	store         *database.Store
	redis         *redis_cache.Client
	apiServer     *delivery_http.Server
	metricsServer *delivery_http.Server
}

// Build wires every component and binds both listeners. On error everything
// opened so far is released.
func Build(ctx context.Context, cfg *config.Config, log ports.Logger, opts ...Option) (*App, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	a := &App{log: log}
	a.setState(StateBuilding)

	if err := a.build(ctx, cfg, o); err != nil {
		releaseCtx := context.WithoutCancel(ctx)
		if releaseErr := errors.Join(a.shutdownServers(releaseCtx), a.release(releaseCtx)); releaseErr != nil {
			log.Error("Failed to release resources after build error", slog.String("error", releaseErr.Error()))
		}
		a.setState(StateStopped)
		return nil, err
	}
	return a, nil
}

func (a *App) build(ctx context.Context, cfg *config.Config, o *options) error {
	a.providers = o.providers
	if a.providers == nil {
		providers, err := observability.New(ctx, cfg.OpenTelemetry)
		if err != nil {
			return fmt.Errorf("failed to initialise OpenTelemetry: %w", err)
		}
		a.providers = providers
	}

	registry := o.registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	promMetrics := prometheus_metrics.NewPrometheusMetricsProvider(registry)
	otelMetrics, err := otel_metrics.NewOTelMetricsProvider(a.providers.MeterProvider.Meter(meterName))
	if err != nil {
		return fmt.Errorf("failed to create OpenTelemetry instruments: %w", err)
	}
	a.metrics = metrics.Multi{promMetrics, otelMetrics}

	a.store, err = database.Open(ctx, cfg.Database, a.log, a.metrics)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	repo := traced.NewPostRepository(a.store.Posts, a.providers.TracerProvider)

	var service post_service_port.Service = post_service.NewPostService(repo, a.log, a.metrics)
	if cfg.Redis.Enabled {
		a.redis, err = redis_cache.NewClient(ctx, cfg.Redis, a.log)
		if err != nil {
			return err
		}
		postCache := redis_cache.NewPostCache(a.redis, cfg.Redis.TTL, a.log)
		service = post_service.NewPostServiceCacheDecorator(service, postCache, a.log, a.metrics)
	}

	router := delivery_http.NewRouter(delivery_http.RouterConfig{
		Schema:         graphql.NewSchema(service, a.log),
		Metrics:        a.metrics,
		TracerProvider: a.providers.TracerProvider,
		Log:            a.log,
		RequestTimeout: cfg.HTTPServer.RequestTimeout,
		AssetsDir:      cfg.HTTPServer.AssetsDir,
	})

	a.apiServer = delivery_http.NewServer("api", router, cfg.HTTPServer.Address, cfg.HTTPServer.Port, a.log)
	if err := a.apiServer.Listen(); err != nil {
		return err
	}

	a.metricsServer = metrics_server.NewMetricsServer(cfg.MetricsServer.Address, cfg.MetricsServer.Port, promMetrics.Handler(), a.log)
	if err := a.metricsServer.Listen(); err != nil {
		return err
	}

	return nil
}

func (a *App) State() State {
	return State(a.state.Load())
}

func (a *App) setState(s State) {
	a.state.Store(int32(s))
	a.log.Debug("App state changed", slog.String("state", s.String()))
}

func (a *App) APIAddr() string {
	return a.apiServer.Addr()
}

func (a *App) MetricsAddr() string {
	return a.metricsServer.Addr()
}

// Run serves both listeners until ctx is cancelled or either server fails.
// Both servers are then drained together, telemetry is flushed, and the
// cache and database connections are closed.
func (a *App) Run(ctx context.Context) error {
	a.setState(StateServing)
	a.metrics.SetServiceHealth(true)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(a.apiServer.Run)
	g.Go(a.metricsServer.Run)
	g.Go(func() error {
		<-gctx.Done()
		a.setState(StateShuttingDown)
		a.metrics.SetServiceHealth(false)
		a.log.Info("Shutting down servers...")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ShutdownTimeout)
		defer cancel()

		return a.shutdownServers(shutdownCtx)
	})

	err := g.Wait()

	releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ShutdownTimeout)
	defer cancel()
	err = errors.Join(err, a.release(releaseCtx))

	a.setState(StateStopped)
	a.log.Info("Server exited")
	return err
}

// shutdownServers drains both servers concurrently.
func (a *App) shutdownServers(ctx context.Context) error {
	var g errgroup.Group
	for _, server := range []*delivery_http.Server{a.apiServer, a.metricsServer} {
		if server == nil {
			continue
		}
		g.Go(func() error { return server.Shutdown(ctx) })
	}
	return g.Wait()
}

// release flushes telemetry before closing the data stores. Nil parts are
// skipped so it is safe after a partial build.
func (a *App) release(ctx context.Context) error {
	var errs []error

	if a.providers != nil {
		errs = append(errs, a.providers.Shutdown(ctx, a.log))
	}
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		} else {
			a.log.Info("Database closed")
		}
	}

	return errors.Join(errs...)
}

package observability

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	otellog "go.opentelemetry.io/otel/log"
	lognoop "go.opentelemetry.io/otel/log/noop"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	ports "blog-post-service/internal/domain/ports/output"
	"blog-post-service/internal/infrastructure/config"
)

const exportTimeout = 3 * time.Second

// Providers holds the telemetry pipeline handles. When OpenTelemetry is
// disabled every provider is a noop and Shutdown does nothing.
type Providers struct {
	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
	LoggerProvider otellog.LoggerProvider

	enabled bool
	tracer  *sdktrace.TracerProvider
	meter   *sdkmetric.MeterProvider
	logger  *sdklog.LoggerProvider
}

func Disabled() *Providers {
	return &Providers{
		TracerProvider: tracenoop.NewTracerProvider(),
		MeterProvider:  metricnoop.NewMeterProvider(),
		LoggerProvider: lognoop.NewLoggerProvider(),
	}
}

func (p *Providers) Enabled() bool {
	return p.enabled
}

// New builds the trace, metric and log pipelines exporting over OTLP/gRPC to
// the configured agent. Exporters connect lazily, so an unreachable agent does
// not fail startup.
func New(ctx context.Context, cfg config.OpenTelemetry) (*Providers, error) {
	if !cfg.Enabled {
		return Disabled(), nil
	}

	res, err := NewResource(cfg.ServiceName)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	endpoint := Endpoint(cfg)

	traceExporter, err := otlptrace.New(ctx, otlptracegrpc.NewClient(
		otlptracegrpc.WithEndpointURL(endpoint),
		otlptracegrpc.WithTimeout(exportTimeout),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	metricExporter, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpointURL(endpoint),
		otlpmetricgrpc.WithTimeout(exportTimeout),
	)
	if err != nil {
		_ = traceExporter.Shutdown(ctx)
		return nil, fmt.Errorf("failed to create metric exporter: %w", err)
	}

	logExporter, err := otlploggrpc.New(ctx,
		otlploggrpc.WithEndpointURL(endpoint),
		otlploggrpc.WithTimeout(exportTimeout),
	)
	if err != nil {
		_ = traceExporter.Shutdown(ctx)
		_ = metricExporter.Shutdown(ctx)
		return nil, fmt.Errorf("failed to create log exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
		sdkmetric.WithResource(res),
	)
	lp := sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(logExporter)),
		sdklog.WithResource(res),
	)

	return &Providers{
		TracerProvider: tp,
		MeterProvider:  mp,
		LoggerProvider: lp,
		enabled:        true,
		tracer:         tp,
		meter:          mp,
		logger:         lp,
	}, nil
}

// NewResource describes this process: the service name plus a random
// instance id so replicas can be told apart.
func NewResource(serviceName string) (*resource.Resource, error) {
	return resource.New(context.Background(),
		resource.WithSchemaURL(semconv.SchemaURL),
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceInstanceID(uuid.NewString()),
		),
	)
}

// Endpoint joins agent host and port, defaulting the scheme to http.
func Endpoint(cfg config.OpenTelemetry) string {
	host := strings.TrimSuffix(cfg.AgentHost, "/")
	if !strings.Contains(host, "://") {
		host = "http://" + host
	}
	return fmt.Sprintf("%s:%s", host, cfg.AgentPort)
}

// Shutdown flushes and stops each provider independently; one failing does
// not prevent the others from being shut down.
func (p *Providers) Shutdown(ctx context.Context, log ports.Logger) error {
	if !p.enabled {
		return nil
	}

	var errs []error
	shutdown := func(name string, fn func(context.Context) error) {
		if err := fn(ctx); err != nil {
			log.Error(name+" provider shutdown failed", slog.String("error", err.Error()))
			errs = append(errs, fmt.Errorf("%s provider: %w", strings.ToLower(name), err))
			return
		}
		log.Info(name + " provider shutdown")
	}

	shutdown("Tracer", p.tracer.Shutdown)
	shutdown("Meter", p.meter.Shutdown)
	shutdown("Logger", p.logger.Shutdown)

	return errors.Join(errs...)
}

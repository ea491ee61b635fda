package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"blog-post-service/internal/app"
	"blog-post-service/internal/infrastructure/config"
	"blog-post-service/internal/infrastructure/logger"
	"blog-post-service/internal/infrastructure/observability"
)

func main() {
	cfg := config.MustLoad()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	providers, err := observability.New(ctx, cfg.OpenTelemetry)
	if err != nil {
		logger.New(cfg.Env).Error("Failed to initialise OpenTelemetry", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var logOpts []logger.Option
	if providers.Enabled() {
		logOpts = append(logOpts, logger.WithLoggerProvider(providers.LoggerProvider, cfg.OpenTelemetry.ServiceName))
	}
	log := logger.New(cfg.Env, logOpts...)

	if err := run(ctx, cfg, log, providers); err != nil {
		log.Error("Server stopped with error", slog.String("error", err.Error()))
		log.Sync()
		os.Exit(1)
	}
	log.Sync()
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger, providers *observability.Providers) error {
	log.Info("App service starting",
		slog.String("env", cfg.Env),
		slog.Bool("opentelemetry", providers.Enabled()))

	application, err := app.Build(ctx, cfg, log, app.WithProviders(providers))
	if err != nil {
		return err
	}

	log.Info("App service listening",
		slog.String("api", application.APIAddr()),
		slog.String("metrics", application.MetricsAddr()))

	return application.Run(ctx)
}

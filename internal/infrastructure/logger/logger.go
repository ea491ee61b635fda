package logger

import (
	"log/slog"
	"os"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	otellog "go.opentelemetry.io/otel/log"
	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
)

const (
	envProd = "prod"
	envDev  = "dev"
	envTest = "test"
)

type Logger struct {
	*slog.Logger
	core zapcore.Core
}

type Option func(*options)

type options struct {
	loggerProvider otellog.LoggerProvider
	name           string
}

// WithLoggerProvider additionally exports every record through an
// OpenTelemetry logger provider.
func WithLoggerProvider(provider otellog.LoggerProvider, name string) Option {
	return func(o *options) {
		o.loggerProvider = provider
		o.name = name
	}
}

func New(env string, opts ...Option) *Logger {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	core := consoleCore(env)
	if o.loggerProvider != nil {
		core = zapcore.NewTee(core, otelzap.NewCore(o.name, otelzap.WithLoggerProvider(o.loggerProvider)))
	}

	return &Logger{
		Logger: slog.New(zapslog.NewHandler(core, zapslog.WithCaller(true))),
		core:   core,
	}
}

func consoleCore(env string) zapcore.Core {
	var (
		encoder zapcore.Encoder
		level   zapcore.Level
	)

	switch env {
	case envProd:
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		level = zapcore.InfoLevel
	case envTest:
		encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		level = zapcore.WarnLevel
	default:
		encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		level = zapcore.DebugLevel
	}

	return zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level)
}

// Sync flushes buffered entries. Errors from syncing a terminal are ignored.
func (l *Logger) Sync() {
	_ = l.core.Sync()
}

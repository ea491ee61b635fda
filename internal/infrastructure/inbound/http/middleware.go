package delivery_http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	ports "blog-post-service/internal/domain/ports/output"
)

// Timeout cancels the request context after timeout. If the deadline passed
// and the handler wrote nothing, the client gets 408 Request Timeout.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			if timedOut(ctx, ww) {
				w.WriteHeader(http.StatusRequestTimeout)
			}
		}
		return http.HandlerFunc(fn)
	}
}

func timedOut(ctx context.Context, ww chimiddleware.WrapResponseWriter) bool {
	return errors.Is(ctx.Err(), context.DeadlineExceeded) && ww.Status() == 0 && ww.BytesWritten() == 0
}

// Metrics records http_requests_total and http_requests_duration_seconds
// labelled with the matched route pattern, or the raw path when no route
// matched.
func Metrics(metrics ports.MetricsProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			switch {
			case timedOut(r.Context(), ww):
				status = http.StatusRequestTimeout
			case status == 0:
				status = http.StatusOK
			}

			path := routePattern(r)
			statusText := strconv.Itoa(status)
			metrics.IncrementHTTPRequests(r.Method, path, statusText)
			metrics.RecordHTTPRequestDuration(r.Method, path, statusText, time.Since(start))
		}
		return http.HandlerFunc(fn)
	}
}

// RequestLogger logs one line per request once the response is written.
// Server errors are logged at error level.
func RequestLogger(log ports.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			attrs := []any{
				slog.String("method", r.Method),
				slog.String("path", routePattern(r)),
				slog.Int("status", status),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Duration("duration", time.Since(start)),
				slog.String("request_id", chimiddleware.GetReqID(r.Context())),
				slog.String("remote_addr", r.RemoteAddr),
			}
			if status >= http.StatusInternalServerError {
				log.Error("HTTP request failed", attrs...)
				return
			}
			log.Info("HTTP request", attrs...)
		}
		return http.HandlerFunc(fn)
	}
}

// Tracing opens a server span per request, continuing a W3C traceparent
// when the caller sent one. The span is renamed to "METHOD route" once the
// route is known.
func Tracing(provider trace.TracerProvider) func(http.Handler) http.Handler {
	tracer := provider.Tracer(tracerName)
	propagator := propagation.TraceContext{}

	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))

			ctx, span := tracer.Start(ctx, r.Method,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					attribute.String("http.request.method", r.Method),
					attribute.String("url.path", r.URL.Path),
					attribute.String("user_agent.original", r.UserAgent()),
				),
			)
			defer span.End()

			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			route := routePattern(r)
			span.SetName(r.Method + " " + route)
			span.SetAttributes(
				attribute.String("http.route", route),
				attribute.Int("http.response.status_code", ww.Status()),
			)
			if ww.Status() >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(ww.Status()))
			}
		}
		return http.HandlerFunc(fn)
	}
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}

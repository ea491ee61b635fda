package delivery_http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/graph-gophers/graphql-go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	ports "blog-post-service/internal/domain/ports/output"
)

const (
	tracerName         = "blog-post-service/http"
	executionSpanName  = "graphql_execution"
	traceIDExtension   = "traceId"
	maxRequestBodySize = 1 << 20
)

type graphqlRequest struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
}

type GraphQLHandler struct {
	schema *graphql.Schema
	tracer trace.Tracer
	log    ports.Logger
}

func NewGraphQLHandler(schema *graphql.Schema, provider trace.TracerProvider, log ports.Logger) *GraphQLHandler {
	return &GraphQLHandler{
		schema: schema,
		tracer: provider.Tracer(tracerName),
		log:    log,
	}
}

// ServeHTTP executes one GraphQL request. The response carries the trace id
// of the execution span in extensions.traceId.
func (h *GraphQLHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req graphqlRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodySize)).Decode(&req); err != nil {
		h.log.Debug("Malformed GraphQL request", slog.String("error", err.Error()))
		http.Error(w, "malformed GraphQL request: "+err.Error(), http.StatusBadRequest)
		return
	}

	ctx, span := h.tracer.Start(r.Context(), executionSpanName,
		trace.WithAttributes(attribute.String("graphql.operation.name", req.OperationName)),
	)
	defer span.End()

	h.log.Info("Processing GraphQL request", slog.String("operation", req.OperationName))

	resp := h.schema.Exec(ctx, req.Query, req.OperationName, req.Variables)

	h.log.Info("Processing GraphQL request finished",
		slog.String("operation", req.OperationName),
		slog.Int("errors", len(resp.Errors)))

	// the timeout middleware owns the response once the deadline passed
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return
	}

	if resp.Extensions == nil {
		resp.Extensions = make(map[string]any)
	}
	resp.Extensions[traceIDExtension] = traceID(span).String()

	body, err := json.Marshal(resp)
	if err != nil {
		h.log.Error("Failed to encode GraphQL response", slog.String("error", err.Error()))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(body); err != nil {
		h.log.Debug("Failed to write GraphQL response", slog.String("error", err.Error()))
	}
}

// traceID is zero unless the span is being recorded, so a caller's
// traceparent is never echoed back while tracing is off.
func traceID(span trace.Span) trace.TraceID {
	if !span.IsRecording() {
		return trace.TraceID{}
	}
	return span.SpanContext().TraceID()
}

package delivery_http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	post_service "blog-post-service/internal/application/service/post"
	"blog-post-service/internal/infrastructure/config"
	"blog-post-service/internal/infrastructure/inbound/graphql"
	delivery_http "blog-post-service/internal/infrastructure/inbound/http"
	"blog-post-service/internal/infrastructure/logger"
	"blog-post-service/internal/infrastructure/outbound/database"
	prometheus_metrics "blog-post-service/internal/infrastructure/outbound/metrics/prometheus"
)

const zeroTraceID = "00000000000000000000000000000000"

type fixture struct {
	handler  http.Handler
	registry *prometheus.Registry
	store    *database.Store
}

func newFixture(t *testing.T, provider trace.TracerProvider, assetsDir string) *fixture {
	t.Helper()

	log := logger.New("test")
	registry := prometheus.NewRegistry()
	metrics := prometheus_metrics.NewPrometheusMetricsProvider(registry)

	store, err := database.Open(context.Background(), config.Database{URL: "sqlite://:memory:"}, log, metrics)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	service := post_service.NewPostService(store.Posts, log, metrics)

	return &fixture{
		handler: delivery_http.NewRouter(delivery_http.RouterConfig{
			Schema:         graphql.NewSchema(service, log),
			Metrics:        metrics,
			TracerProvider: provider,
			Log:            log,
			AssetsDir:      assetsDir,
		}),
		registry: registry,
		store:    store,
	}
}

type graphqlResponse struct {
	Data       map[string]json.RawMessage `json:"data"`
	Errors     []graphqlError             `json:"errors"`
	Extensions map[string]any             `json:"extensions"`
}

type graphqlError struct {
	Message    string         `json:"message"`
	Extensions map[string]any `json:"extensions"`
}

func (f *fixture) graphql(t *testing.T, query string, header http.Header) (*httptest.ResponseRecorder, graphqlResponse) {
	t.Helper()

	body, err := json.Marshal(map[string]any{"query": query})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	var resp graphqlResponse
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func TestRouter_DraftScenario(t *testing.T) {
	f := newFixture(t, noop.NewTracerProvider(), t.TempDir())

	rec, resp := f.graphql(t, `mutation { createDraft(title: "Draft title", body: "Draft body text") { id title body published } }`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"id":1,"title":"Draft title","body":"Draft body text","published":false}`, string(resp.Data["createDraft"]))
	assert.Equal(t, zeroTraceID, resp.Extensions["traceId"])

	_, resp = f.graphql(t, `{ drafts { id title } }`, nil)
	assert.JSONEq(t, `[{"id":1,"title":"Draft title"}]`, string(resp.Data["drafts"]))

	_, resp = f.graphql(t, `mutation { publish(id: 1) { post { id published } error { message } } }`, nil)
	assert.JSONEq(t, `{"post":{"id":1,"published":true},"error":null}`, string(resp.Data["publish"]))

	_, resp = f.graphql(t, `{ drafts { id } posts { id } }`, nil)
	assert.JSONEq(t, `[]`, string(resp.Data["drafts"]))
	assert.JSONEq(t, `[{"id":1}]`, string(resp.Data["posts"]))

	_, resp = f.graphql(t, `mutation { deleteDraft(id: 1) { post { id } error { field message received } } }`, nil)
	assert.JSONEq(t, `{"post":null,"error":{"field":"id","message":"Did not find draft post with id `+"`1`"+`","received":"1"}}`, string(resp.Data["deleteDraft"]))

	expected := `
# HELP http_requests_total Total number of HTTP requests processed
# TYPE http_requests_total counter
http_requests_total{method="POST",path="/",status="200"} 5
`
	require.NoError(t, testutil.GatherAndCompare(f.registry, strings.NewReader(expected), "http_requests_total"))
}

func TestRouter_ValidationError(t *testing.T) {
	f := newFixture(t, noop.NewTracerProvider(), t.TempDir())

	rec, resp := f.graphql(t, `mutation { createDraft(title: "ab", body: "Draft body text") { id } }`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "VALIDATION_ERROR", resp.Errors[0].Extensions["code"])
	assert.Equal(t, "title", resp.Errors[0].Extensions["field"])

	_, resp = f.graphql(t, `{ drafts { id } }`, nil)
	assert.JSONEq(t, `[]`, string(resp.Data["drafts"]))
}

func TestRouter_MalformedRequest(t *testing.T) {
	f := newFixture(t, noop.NewTracerProvider(), t.TempDir())

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"query":`))
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_Health(t *testing.T) {
	f := newFixture(t, noop.NewTracerProvider(), t.TempDir())

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"healthy":true}`, rec.Body.String())
	}

	expected := `
# HELP http_requests_total Total number of HTTP requests processed
# TYPE http_requests_total counter
http_requests_total{method="GET",path="/health",status="200"} 2
`
	require.NoError(t, testutil.GatherAndCompare(f.registry, strings.NewReader(expected), "http_requests_total"))
}

func TestRouter_HealthIgnoresDatastore(t *testing.T) {
	f := newFixture(t, noop.NewTracerProvider(), t.TempDir())
	require.NoError(t, f.store.Close())

	_, resp := f.graphql(t, `{ drafts { id } }`, nil)
	require.NotEmpty(t, resp.Errors)

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"healthy":true}`, rec.Body.String())
}

func TestRouter_UnmatchedPathUsesRawPath(t *testing.T) {
	f := newFixture(t, noop.NewTracerProvider(), t.TempDir())

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	expected := `
# HELP http_requests_total Total number of HTTP requests processed
# TYPE http_requests_total counter
http_requests_total{method="GET",path="/nope",status="404"} 1
`
	require.NoError(t, testutil.GatherAndCompare(f.registry, strings.NewReader(expected), "http_requests_total"))
}

var assetReference = regexp.MustCompile(`(?:href|src)="(/assets/[^"?]+)`)

func writeAssets(t *testing.T, dir string, files ...string) {
	t.Helper()
	for _, file := range files {
		path := filepath.Join(dir, filepath.FromSlash(file))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(file), 0o644))
	}
}

func TestRouter_Playground(t *testing.T) {
	tests := []struct {
		name      string
		assetsDir func(t *testing.T) string
		local     []string
		cdn       []string
	}{
		{
			name:      "nothing vendored keeps CDN references",
			assetsDir: func(t *testing.T) string { return t.TempDir() },
			cdn: []string{
				"//cdn.jsdelivr.net/npm/graphql-playground-react/build/static/js/middleware.js",
				"//cdn.jsdelivr.net/npm/graphql-playground-react/build/static/css/index.css",
				"https://fonts.googleapis.com/css",
			},
		},
		{
			name: "vendored build is served locally",
			assetsDir: func(t *testing.T) string {
				dir := t.TempDir()
				writeAssets(t, dir, "static/css/index.css", "static/js/middleware.js", "favicon.png", "logo.png", "fonts/fonts.css")
				return dir
			},
			local: []string{
				`href="/assets/static/css/index.css"`,
				`src="/assets/static/js/middleware.js"`,
				`href="/assets/favicon.png"`,
				`src="/assets/logo.png"`,
				`href="/assets/fonts/fonts.css?family=`,
			},
		},
		{
			name:      "repository assets",
			assetsDir: func(t *testing.T) string { return filepath.Join("..", "..", "..", "..", "public") },
			local:     []string{`href="/assets/fonts/fonts.css?family=`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, noop.NewTracerProvider(), tt.assetsDir(t))

			rec := httptest.NewRecorder()
			f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
			body := rec.Body.String()
			assert.Contains(t, body, `"endpoint":"/"`)
			for _, ref := range tt.local {
				assert.Contains(t, body, ref)
			}
			for _, ref := range tt.cdn {
				assert.Contains(t, body, ref)
			}

			refs := assetReference.FindAllStringSubmatch(body, -1)
			assert.Len(t, refs, len(tt.local))
			for _, ref := range refs {
				rec := httptest.NewRecorder()
				f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, ref[1], nil))
				assert.Equal(t, http.StatusOK, rec.Code, ref[1])
			}
		})
	}
}

func TestRouter_Compression(t *testing.T) {
	f := newFixture(t, noop.NewTracerProvider(), t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
}

func TestRouter_Assets(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "fonts"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fonts", "fonts.css"), []byte("body { font-family: sans-serif; }"), 0o644))
	f := newFixture(t, noop.NewTracerProvider(), dir)

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/fonts/fonts.css", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "body { font-family: sans-serif; }", rec.Body.String())

	rec = httptest.NewRecorder()
	f.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/missing.js", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_TraceIDFromSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	f := newFixture(t, provider, t.TempDir())

	header := http.Header{}
	header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")

	_, resp := f.graphql(t, `{ hello }`, header)
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `"Hello everybody!"`, string(resp.Data["hello"]))
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", resp.Extensions["traceId"])

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	execution, server := spans[0], spans[1]
	assert.Equal(t, "graphql_execution", execution.Name())
	assert.Equal(t, "POST /", server.Name())
	assert.Equal(t, trace.SpanKindServer, server.SpanKind())
	assert.Equal(t, server.SpanContext().SpanID(), execution.Parent().SpanID())
	assert.Equal(t, "00f067aa0ba902b7", server.Parent().SpanID().String())
}

func TestRouter_FreshTraceWithoutParent(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	f := newFixture(t, provider, t.TempDir())

	_, first := f.graphql(t, `{ hello }`, nil)
	_, second := f.graphql(t, `{ hello }`, nil)

	assert.NotEqual(t, zeroTraceID, first.Extensions["traceId"])
	assert.NotEqual(t, first.Extensions["traceId"], second.Extensions["traceId"])
}

func TestRouter_TraceparentIgnoredWhenTracingDisabled(t *testing.T) {
	f := newFixture(t, noop.NewTracerProvider(), t.TempDir())

	header := http.Header{}
	header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")

	_, resp := f.graphql(t, `{ hello }`, header)
	require.Empty(t, resp.Errors)
	assert.Equal(t, zeroTraceID, resp.Extensions["traceId"])
}

package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-post-service/internal/app"
	"blog-post-service/internal/custom_errors"
	"blog-post-service/internal/infrastructure/config"
	"blog-post-service/internal/infrastructure/logger"
	"blog-post-service/internal/infrastructure/observability"
)

func testConfig() *config.Config {
	return &config.Config{
		Env: "test",
		HTTPServer: config.HTTPServer{
			Address:        "127.0.0.1",
			Port:           0,
			RequestTimeout: 15 * time.Second,
		},
		MetricsServer: config.MetricsServer{
			Address: "127.0.0.1",
			Port:    0,
		},
		Database: config.Database{
			URL: "sqlite://:memory:",
		},
	}
}

func postGraphQL(t *testing.T, addr, query string) map[string]any {
	t.Helper()

	body, err := json.Marshal(map[string]string{"query": query})
	require.NoError(t, err)

	resp, err := http.Post("http://"+addr+"/", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return decoded
}

func TestApp_Lifecycle(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	application, err := app.Build(ctx, testConfig(), logger.New("test"),
		app.WithProviders(observability.Disabled()),
		app.WithRegistry(prometheus.NewRegistry()),
	)
	require.NoError(t, err)
	assert.Equal(t, app.StateBuilding, application.State())

	done := make(chan error, 1)
	go func() { done <- application.Run(ctx) }()

	require.Eventually(t, func() bool {
		return application.State() == app.StateServing
	}, 5*time.Second, 10*time.Millisecond)

	resp, err := http.Get("http://" + application.APIAddr() + "/health")
	require.NoError(t, err)
	health, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.JSONEq(t, `{"healthy":true}`, string(health))

	created := postGraphQL(t, application.APIAddr(), `mutation { createDraft(title: "Draft title", body: "Draft body text") { id } }`)
	assert.Equal(t, map[string]any{"createDraft": map[string]any{"id": float64(1)}}, created["data"])
	assert.Equal(t, "00000000000000000000000000000000", created["extensions"].(map[string]any)["traceId"])

	resp, err = http.Get("http://" + application.MetricsAddr() + "/metrics")
	require.NoError(t, err)
	exposition, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Contains(t, string(exposition), `http_requests_total{method="POST",path="/",status="200"} 1`)
	assert.Contains(t, string(exposition), `service_health 1`)

	apiAddr := application.APIAddr()
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(app.ShutdownTimeout):
		t.Fatal("app did not stop")
	}
	assert.Equal(t, app.StateStopped, application.State())

	_, err = net.DialTimeout("tcp", apiAddr, time.Second)
	assert.Error(t, err)
}

func TestBuild_UnsupportedDatabase(t *testing.T) {
	cfg := testConfig()
	cfg.Database.URL = "mysql://localhost/blog"

	_, err := app.Build(context.Background(), cfg, logger.New("test"), app.WithProviders(observability.Disabled()))
	assert.ErrorIs(t, err, custom_errors.ErrUnsupportedDatabase)
}

func TestBuild_PortInUse(t *testing.T) {
	occupied, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer occupied.Close()

	_, portText, err := net.SplitHostPort(occupied.Addr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portText)
	require.NoError(t, err)

	cfg := testConfig()
	cfg.MetricsServer.Port = port

	_, err = app.Build(context.Background(), cfg, logger.New("test"), app.WithProviders(observability.Disabled()))
	assert.Error(t, err)
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state app.State
		want  string
	}{
		{app.StateUninitialized, "uninitialized"},
		{app.StateBuilding, "building"},
		{app.StateServing, "serving"},
		{app.StateShuttingDown, "shutting_down"},
		{app.StateStopped, "stopped"},
		{app.State(42), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state.String())
		})
	}
}

package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/BizAdmin/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/BizAdmin/backend/internal/shared/types"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Logging.Level = "error"
	cfg.RateLimit.Enabled = false
	cfg.Storage.Path = t.TempDir()
	cfg.Tabs.Max = 4
	cfg.Tabs.IgnoreRoutes = []string{"/app/report*"}
	return cfg
}

func startServer(t *testing.T, cfg *config.Config) (*Server, *httptest.Server) {
	t.Helper()
	srv, err := NewServer(cfg)
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	})
	return srv, ts
}

func get(t *testing.T, url string, headers ...string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestNewServerRejectsBadConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Tabs.IgnoreRoutes = []string{"/app/[unclosed"}
	_, err := NewServer(cfg)
	assert.Error(t, err)

	cfg = testConfig(t)
	cfg.Menu.File = "/does/not/exist.yaml"
	_, err = NewServer(cfg)
	assert.Error(t, err)
}

func TestServerRoutes(t *testing.T) {
	_, ts := startServer(t, testConfig(t))

	resp := get(t, ts.URL+"/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	assert.NotEmpty(t, resp.Header.Get("X-Trace-ID"))

	resp = get(t, ts.URL+"/workspaces/default")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("ETag"))

	resp = get(t, ts.URL+"/metrics")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "bizadmin_http_requests_total")
	assert.Contains(t, string(body), "bizadmin_workspaces_loaded 1")
}

func TestServerCompressesLargeResponses(t *testing.T) {
	_, ts := startServer(t, testConfig(t))

	resp := get(t, ts.URL+"/menu", "Accept-Encoding", "gzip")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "gzip", resp.Header.Get("Content-Encoding"))

	resp = get(t, ts.URL+"/", "Accept-Encoding", "gzip")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Content-Encoding"))
}

func TestServerIgnoredRoutes(t *testing.T) {
	srv, ts := startServer(t, testConfig(t))

	resp, err := http.Post(ts.URL+"/workspaces/default/navigate", "application/json",
		strings.NewReader(`{"route":"/app/reports"}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	w, ok := srv.Manager().Get("default")
	require.True(t, ok)
	view := w.View()
	assert.Equal(t, "/app/reports", view.Navigation.ActiveRoute)
	assert.Len(t, view.Tabs.Tabs, 1)
}

func TestServerPersistsAcrossRestarts(t *testing.T) {
	cfg := testConfig(t)

	srv, ts := startServer(t, cfg)
	resp, err := http.Post(ts.URL+"/workspaces/alice/tabs/open", "application/json",
		strings.NewReader(`{"route":"/app/contracts"}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NoError(t, srv.Shutdown(context.Background()))

	restarted, err := NewServer(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = restarted.Shutdown(context.Background()) })

	w, err := restarted.Manager().Open(context.Background(), "alice")
	require.NoError(t, err)
	view := w.View()
	require.Len(t, view.Tabs.Tabs, 2)
	active, ok := view.Tabs.Active()
	require.True(t, ok)
	assert.Equal(t, "/app/contracts", active.Route)
	assert.Equal(t, "/app/contracts", view.Route)
}

func TestServerWebSocketBypassesCompression(t *testing.T) {
	_, ts := startServer(t, testConfig(t))

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/workspaces/default/stream"
	header := http.Header{"Accept-Encoding": []string{"gzip"}}
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg types.WSMessage
	require.NoError(t, sonic.Unmarshal(data, &msg))
	assert.Equal(t, types.WSWelcome, msg.Type)
	assert.Equal(t, "default", msg.Workspace)
}

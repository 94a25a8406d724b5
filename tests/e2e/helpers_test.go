//go:build e2e

package e2e_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/slide-atlas/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/slide-atlas/internal/app"
	"github.com/heartmarshall/slide-atlas/internal/config"
)

// ---------------------------------------------------------------------------
// testServer wraps the full-stack HTTP server for E2E tests.
// ---------------------------------------------------------------------------

type testServer struct {
	URL       string
	Client    *http.Client
	Pool      *pgxpool.Pool
	AssetRoot string
}

// testLogWriter adapts testing.T to io.Writer for slog.
type testLogWriter struct{ t *testing.T }

func (w testLogWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// setupTestServer bootstraps the full application stack backed by a real
// PostgreSQL container (shared via testhelper) and a temporary asset tree.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	pool := testhelper.SetupTestDB(t)
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "bundles"), 0o755))

	cfg := &config.Config{
		Server: config.ServerConfig{Port: 8080, ShutdownTimeout: 5 * time.Second},
		Database: config.DatabaseConfig{
			DSN:             testhelper.DSN(),
			MaxConns:        5,
			MinConns:        1,
			MaxConnLifetime: time.Hour,
			MaxConnIdleTime: time.Minute,
		},
		Log: config.LogConfig{Level: "debug", Format: "text"},
		CORS: config.CORSConfig{
			AllowedOrigins: "*",
			AllowedMethods: "GET,POST,OPTIONS",
			AllowedHeaders: "Content-Type,X-Request-Id",
		},
		Assets: config.AssetsConfig{Backend: "fs", Root: root},
		Sidecar: config.SidecarConfig{
			BundleDir:         "bundles",
			MaxNarrativeBytes: 1 << 20,
			CacheEnabled:      true,
		},
		RateLimit: config.RateLimitConfig{ViewportPerMinute: 1000, CleanupInterval: time.Minute},
	}

	logger := slog.New(slog.NewTextHandler(testLogWriter{t}, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	a, err := app.New(ctx, cfg, logger)
	require.NoError(t, err)
	t.Cleanup(a.Close)

	srv := httptest.NewServer(a.Handler())
	t.Cleanup(srv.Close)

	return &testServer{
		URL:       srv.URL,
		Client:    srv.Client(),
		Pool:      pool,
		AssetRoot: root,
	}
}

// writeAsset creates a file under the server's asset root.
func (ts *testServer) writeAsset(t *testing.T, name, content string) {
	t.Helper()
	p := filepath.Join(ts.AssetRoot, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

// writeBundle creates a four-line descriptor under bundles/ and its narrative.
func (ts *testServer) writeBundle(t *testing.T, ref, label, narrativePath, narrative string) {
	t.Helper()
	lines := []string{
		"['/tiles/" + ref + ".dzi']",
		"['/annotations/" + ref + ".xml']",
		"[" + label + "]",
		"['" + narrativePath + "']",
	}
	ts.writeAsset(t, "bundles/"+ref, strings.Join(lines, "\n")+"\n")
	if narrative != "" {
		ts.writeAsset(t, strings.TrimPrefix(narrativePath, "/"), narrative)
	}
}

// getJSON issues a GET and decodes the JSON body.
func (ts *testServer) getJSON(t *testing.T, path string, query url.Values) (int, map[string]any) {
	t.Helper()

	u := ts.URL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	resp, err := ts.Client.Get(u)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

// entryNames extracts the "name" of every entry in a search response.
func entryNames(t *testing.T, body map[string]any) []string {
	t.Helper()
	entries, ok := body["entries"].([]any)
	require.True(t, ok, "expected entries array")

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		m, ok := e.(map[string]any)
		require.True(t, ok)
		names = append(names, m["name"].(string))
	}
	return names
}

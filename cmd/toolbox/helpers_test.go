package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Environment, config files, fake upstreams
// ---------------------------------------------------------------------------

// testNow is the clock every command test runs at.
var testNow = time.Date(2024, time.January, 15, 9, 30, 0, 0, time.UTC)

// testEnv captures command output.
type testEnv struct {
	*Environment
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newTestEnv() *testEnv {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	return &testEnv{
		Environment: &Environment{
			Now:    func() time.Time { return testNow },
			Stdout: stdout,
			Stderr: stderr,
		},
		stdout: stdout,
		stderr: stderr,
	}
}

// writeFile creates dir/name with content and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}

// writeConfig writes a YAML config into a fresh temp dir.
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	return writeFile(t, t.TempDir(), "toolbox.yaml", content)
}

// upstreamConfig points both services at srv.
func upstreamConfig(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	return writeConfig(t, "holiday:\n  baseURL: "+srv.URL+"\nrates:\n  baseURL: "+srv.URL+"\n")
}

const (
	januaryHolidays = `[{"date":"2024-01-01","name":"New Year's Day"},{"date":"2024-02-10","name":"Lunar New Year"}]`
	usdRates        = `{"data":{"rates":{"EUR":0.9,"IDR":15500.5,"USD":1}}}`
)

// fakeServices answers the holiday and rates endpoints. A non-200 status
// fails every request.
func fakeServices(t *testing.T, status int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		if r.URL.Query().Get("month") == "1" {
			_, _ = w.Write([]byte(januaryHolidays))
			return
		}
		_, _ = w.Write([]byte(`[]`))
	})
	mux.HandleFunc("GET /v1/rates", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(usdRates))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// closedURL returns a base URL nothing listens on.
func closedURL(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	return url
}

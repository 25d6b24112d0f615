package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Saravana-31/Form-Builder/internal/config"
	"github.com/Saravana-31/Form-Builder/pkg/logger"
	"go.uber.org/zap/zapcore"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{}
	cfg.Server.Mode = "test"
	cfg.Server.Port = "0"
	cfg.Log.Level = "warn"
	cfg.Log.Filename = filepath.Join(dir, "app.log")
	cfg.Database.Driver = "memory"
	cfg.Storage.Type = "local"
	cfg.Storage.LocalPath = dir
	cfg.RateLimit.MaxRequests = 2
	cfg.RateLimit.WindowMinutes = 1
	return cfg
}

func serve(a *App, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "192.0.2.1:1234"
	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)
	return w
}

func TestNewApp_MemoryDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.RateLimit.MaxRequests = 0
	a := NewApp(cfg)
	t.Cleanup(func() { a.Close(context.Background()) })

	tests := []struct {
		method, path, body string
		want               int
	}{
		{http.MethodGet, "/health", "", http.StatusOK},
		{http.MethodGet, "/api/health", "", http.StatusOK},
		{http.MethodPost, "/api/forms", `{"title":"Quiz","slug":"quiz"}`, http.StatusCreated},
		{http.MethodGet, "/api/forms/quiz", "", http.StatusOK},
		{http.MethodGet, "/api/forms", "", http.StatusOK},
		{http.MethodPost, "/api/responses", `{"form_id":"quiz","answers":{"responses":{}}}`, http.StatusCreated},
		{http.MethodGet, "/api/forms/quiz/results", "", http.StatusOK},
		{http.MethodGet, "/metrics", "", http.StatusOK},
		{http.MethodGet, "/api/nope", "", http.StatusNotFound},
	}
	for _, tc := range tests {
		w := serve(a, tc.method, tc.path, tc.body)
		if w.Code != tc.want {
			t.Fatalf("%s %s = %d, want %d (%s)", tc.method, tc.path, w.Code, tc.want, w.Body.String())
		}
	}

	if id := serve(a, http.MethodGet, "/health", "").Header().Get("X-Request-ID"); id == "" {
		t.Fatal("request id header missing")
	}
}

func TestReload_AppliesLimitsAndLevel(t *testing.T) {
	cfg := testConfig(t)
	a := NewApp(cfg)
	t.Cleanup(func() { a.Close(context.Background()) })

	for i := 0; i < 2; i++ {
		if w := serve(a, http.MethodGet, "/api/forms", ""); w.Code != http.StatusOK {
			t.Fatalf("request %d = %d", i, w.Code)
		}
	}
	if w := serve(a, http.MethodGet, "/api/forms", ""); w.Code != http.StatusTooManyRequests {
		t.Fatalf("over limit = %d", w.Code)
	}

	next := *cfg
	next.Server.Mode = "release"
	next.Log.Level = "error"
	next.RateLimit.MaxRequests = 0
	a.reload(&next)

	if w := serve(a, http.MethodGet, "/api/forms", ""); w.Code != http.StatusOK {
		t.Fatalf("after reload = %d", w.Code)
	}
	if logger.Level() != zapcore.ErrorLevel {
		t.Fatalf("level = %v", logger.Level())
	}
}

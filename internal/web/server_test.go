// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package web_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/taibuivan/realty/internal/admin"
	"github.com/taibuivan/realty/internal/platform/config"
	"github.com/taibuivan/realty/internal/platform/constants"
	"github.com/taibuivan/realty/internal/platform/metrics"
	"github.com/taibuivan/realty/internal/platform/middleware"
	"github.com/taibuivan/realty/internal/realty/realtytest"
	"github.com/taibuivan/realty/internal/session"
	"github.com/taibuivan/realty/internal/site"
	"github.com/taibuivan/realty/internal/web"
	"github.com/taibuivan/realty/internal/web/view"
)

func newServer(t *testing.T, checks ...web.Check) *web.Server {
	t.Helper()
	server, _ := buildServer(t, &config.Config{ServerPort: "0", SessionCookie: "realty_sid", SessionTTL: time.Hour}, checks...)
	return server
}

func buildServer(t *testing.T, cfg *config.Config, checks ...web.Check) (*web.Server, *session.Manager) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	backend := realtytest.NewBackend(t)
	catalog := backend.Catalog()

	renderer, err := view.New(logger)
	require.NoError(t, err)

	collectors := metrics.New(prometheus.NewRegistry())
	manager := session.NewManager(session.Options{Profiles: catalog.Auth, Metrics: collectors, Logger: logger})

	liveness, readiness := web.NewHealthHandlers(logger, checks...)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	server := web.NewServer(ctx, cfg, logger, manager, web.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Metrics:   collectors.Handler(),
		Crash:     renderer.Crash(),
		Site:      site.NewHandler(catalog, renderer),
		Admin: admin.NewHandler(admin.Options{
			Catalog:  catalog,
			Renderer: renderer,
			Guard:    middleware.GuardOptions{Wait: 50 * time.Millisecond, Recorder: collectors, Loading: renderer.Loading()},
			Limiter:  middleware.NewRateLimiter(rate.Every(time.Minute), 5),
			Metrics:  collectors,
		}),
	})
	return server, manager
}

func serve(server *web.Server, target string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, target, nil))
	return recorder
}

func TestHealth(t *testing.T) {
	response := serve(newServer(t), "/health")

	assert.Equal(t, http.StatusOK, response.Code)
	assert.JSONEq(t, `{"data":{"status":"ok"}}`, response.Body.String())
	assert.Empty(t, response.Result().Cookies(), "health checks never open a browser session")
	assert.NotEmpty(t, response.Header().Get(constants.HeaderXRequestID))
}

func TestReady(t *testing.T) {
	healthy := web.Check{Name: "backend", Run: func(context.Context) error { return nil }}
	broken := web.Check{Name: "redis", Run: func(context.Context) error { return errors.New("connection refused") }}

	tests := []struct {
		name       string
		checks     []web.Check
		wantStatus int
		wantState  string
	}{
		{name: "all healthy", checks: []web.Check{healthy}, wantStatus: http.StatusOK, wantState: "ready"},
		{name: "one failing", checks: []web.Check{healthy, broken}, wantStatus: http.StatusServiceUnavailable, wantState: "degraded"},
		{name: "no checks", wantStatus: http.StatusOK, wantState: "ready"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			response := serve(newServer(t, tt.checks...), "/ready")
			assert.Equal(t, tt.wantStatus, response.Code)

			var body struct {
				Data struct {
					Status string `json:"status"`
					Checks []struct {
						Name  string `json:"name"`
						OK    bool   `json:"ok"`
						Error string `json:"error"`
					} `json:"checks"`
				} `json:"data"`
			}
			require.NoError(t, json.Unmarshal(response.Body.Bytes(), &body))
			assert.Equal(t, tt.wantState, body.Data.Status)
			assert.Len(t, body.Data.Checks, len(tt.checks))
		})
	}
}

func TestMetrics(t *testing.T) {
	server := newServer(t)
	serve(server, "/admin")

	response := serve(server, "/metrics")
	assert.Equal(t, http.StatusOK, response.Code)
	assert.Contains(t, response.Body.String(), "realty_active_sessions 1")
	assert.Contains(t, response.Body.String(), `realty_guard_decisions_total{reason="anonymous"} 1`)
}

func TestPages(t *testing.T) {
	server, manager := buildServer(t, &config.Config{ServerPort: "0", SessionCookie: "realty_sid", SessionTTL: time.Hour})

	// Public visitors without a cookie get no session.
	home := serve(server, "/")
	assert.Equal(t, http.StatusOK, home.Code)
	assert.Empty(t, home.Result().Cookies())
	assert.Equal(t, 0, manager.Len())

	panel := serve(server, "/admin")
	assert.Equal(t, http.StatusSeeOther, panel.Code)
	assert.Equal(t, constants.RouteLogin, panel.Header().Get("Location"))
	require.Len(t, panel.Result().Cookies(), 1)
	assert.Equal(t, "realty_sid", panel.Result().Cookies()[0].Name)
	assert.False(t, panel.Result().Cookies()[0].Secure)
	assert.Equal(t, 1, manager.Len())

	login := serve(server, "/admin/login")
	assert.Equal(t, http.StatusOK, login.Code)

	missing := serve(server, "/nowhere")
	assert.Equal(t, http.StatusNotFound, missing.Code)
	assert.Equal(t, 2, manager.Len())
}

func TestPages_ProductionCookieIsSecure(t *testing.T) {
	server, _ := buildServer(t, &config.Config{
		ServerPort: "0", SessionCookie: "realty_sid", SessionTTL: time.Hour, Environment: "production",
	})

	panel := serve(server, "/admin/login")
	require.Len(t, panel.Result().Cookies(), 1)
	assert.True(t, panel.Result().Cookies()[0].Secure)
}

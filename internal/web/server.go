// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package web wires together the HTTP router, middleware chain, and the page
handlers into a runnable [http.Server].

Architecture:

  - This package is the composition root of the HTTP transport (chi router).
  - The admin panel always runs behind the session middleware.
  - Public pages only attach a session the browser already has.
  - Health checks and metrics do not, so scrapers never create browser sessions.
*/
package web

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/realty/internal/admin"
	"github.com/taibuivan/realty/internal/platform/config"
	"github.com/taibuivan/realty/internal/platform/constants"
	"github.com/taibuivan/realty/internal/platform/middleware"
	"github.com/taibuivan/realty/internal/session"
	"github.com/taibuivan/realty/internal/site"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups the HTTP handler sets served by the process.
type Handlers struct {
	// Liveness is the /health handler. Always 200 while the process runs.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler. 200 when the backend and store answer.
	Readiness http.HandlerFunc

	// Metrics serves /metrics. Optional.
	Metrics http.Handler

	// Crash renders the error page after a recovered panic. Optional.
	Crash http.Handler

	// Site serves the public pages at the root.
	Site *site.Handler

	// Admin serves the panel under /admin.
	Admin *admin.Handler
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups. Background cleanup stops when ctx ends.
func NewServer(ctx context.Context, cfg *config.Config, log *slog.Logger, sessions *session.Manager, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(ctx))
	r.Use(middleware.PanicRecovery(log, h.Crash))
	r.Use(chimw.CleanPath)

	// # Infrastructure Endpoints
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)
	if h.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.Metrics)
	}

	// # Pages
	adminSessions := middleware.SessionOptions{
		Manager:    sessions,
		CookieName: cfg.SessionCookie,
		Secure:     cfg.SecureCookies(),
		TTL:        cfg.SessionTTL,
	}
	publicSessions := adminSessions
	publicSessions.Optional = true

	// The panel always needs a session; public pages only use an existing one.
	r.With(middleware.Sessions(adminSessions)).Mount(constants.RouteAdminRoot, h.Admin.Routes())
	r.With(middleware.Sessions(publicSessions)).Mount(constants.RoutePublicRoot, h.Site.Routes())

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

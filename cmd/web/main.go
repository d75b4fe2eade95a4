// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command web is the entry point for the Realty web server: the public
// listing site and the admin panel, both backed by the REST API.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to Redis when configured (tokens otherwise live in memory).
//  4. Build the backend client, metrics and domain catalog.
//  5. Start the session manager and the login rate limiter cleanup.
//  6. Wire HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/time/rate"

	"github.com/taibuivan/realty/internal/admin"
	"github.com/taibuivan/realty/internal/platform/apiclient"
	"github.com/taibuivan/realty/internal/platform/config"
	"github.com/taibuivan/realty/internal/platform/constants"
	"github.com/taibuivan/realty/internal/platform/metrics"
	"github.com/taibuivan/realty/internal/platform/middleware"
	redisstore "github.com/taibuivan/realty/internal/platform/redis"
	"github.com/taibuivan/realty/internal/realty"
	"github.com/taibuivan/realty/internal/session"
	"github.com/taibuivan/realty/internal/site"
	"github.com/taibuivan/realty/internal/web"
	"github.com/taibuivan/realty/internal/web/view"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log := rawLog.With(slog.String("app", "realty"))
	slog.SetDefault(log)

	log.Info("[Realty] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if level := cfg.LogLevel(); level < slog.LevelInfo {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		}))
		log = debugLog.With(slog.String("app", "realty"))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("api", cfg.APIBaseURL),
	)

	// Runs until shutdown; background loops stop with it.
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	startupCtx, startupCancel := context.WithTimeout(ctx, 30*time.Second)
	defer startupCancel()

	// ── 3. Token Store ────────────────────────────────────────────────────
	var (
		store  session.TokenStore = session.NewMemoryStore()
		checks []web.Check
	)
	if cfg.RedisURL != "" {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing redis client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis close error", slog.Any("error", cerr))
			}
		}()

		store = session.NewRedisStore(rdb, cfg.SessionTTL)
		checks = append(checks, web.Check{Name: "redis", Run: func(ctx context.Context) error {
			return redisstore.Ping(ctx, rdb)
		}})
	} else {
		log.Warn("redis_not_configured", slog.String("token_store", "memory"))
	}

	// ── 4. Backend & Metrics ──────────────────────────────────────────────
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collected := metrics.New(registry)

	client := apiclient.New(cfg.APIBaseURL, cfg.APITimeout,
		apiclient.WithRecorder(collected),
		apiclient.WithLogger(log),
	)
	catalog := realty.NewCatalog(client, cfg.APIDepartmentsPath)

	checks = append(checks, web.Check{Name: "backend", Run: func(ctx context.Context) error {
		return client.Ping(ctx, constants.APILocationCountries)
	}})

	// ── 5. Sessions & Limits ──────────────────────────────────────────────
	manager := session.NewManager(session.Options{
		Store:                  store,
		Profiles:               catalog.Auth,
		Logger:                 log,
		Metrics:                collected,
		LogoutOnProfileFailure: cfg.LogoutOnProfileFailure(),
		ProfileTimeout:         cfg.ProfileTimeout,
	})
	go manager.Run(ctx)

	loginLimiter := middleware.NewRateLimiter(rate.Every(time.Minute/constants.LoginRateLimitPerMinute), constants.LoginRateLimitPerMinute)
	go loginLimiter.Cleanup(ctx)

	// ── 6. Handlers ───────────────────────────────────────────────────────
	renderer, err := view.New(log)
	must(log, err, "parse templates")

	liveness, readiness := web.NewHealthHandlers(log, checks...)

	handlers := web.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Metrics:   collected.Handler(),
		Crash:     renderer.Crash(),
		Site:      site.NewHandler(catalog, renderer),
		Admin: admin.NewHandler(admin.Options{
			Catalog:  catalog,
			Renderer: renderer,
			Guard: middleware.GuardOptions{
				Wait:     cfg.SessionWait,
				Recorder: collected,
				Loading:  renderer.Loading(),
			},
			Limiter: loginLimiter,
			Metrics: collected,
		}),
	}

	server := web.NewServer(ctx, cfg, log, manager, handlers)

	// ── 7. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		stop()
		os.Exit(1)
	}

	stop()
	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned
// and handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}

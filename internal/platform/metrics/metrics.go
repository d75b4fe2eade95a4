// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package metrics holds the Prometheus collectors of the web tier.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	gatherer prometheus.Gatherer

	BackendLatency  *prometheus.HistogramVec
	BackendErrors   *prometheus.CounterVec
	GuardDecisions  *prometheus.CounterVec
	ProfileFetches  *prometheus.CounterVec
	ActiveSessions  prometheus.Gauge
	LoginsSucceeded prometheus.Counter
	LoginsFailed    prometheus.Counter
}

// New creates and registers all metrics on registry.
func New(registry *prometheus.Registry) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		gatherer: registry,
		BackendLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "realty_backend_request_duration_seconds",
			Help:    "Latency of calls to the backend REST API",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "resource"}),
		BackendErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "realty_backend_errors_total",
			Help: "Failed calls to the backend REST API, labeled by status (0 for transport errors)",
		}, []string{"method", "resource", "status"}),
		GuardDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "realty_guard_decisions_total",
			Help: "Route guard decisions, labeled by reason",
		}, []string{"reason"}),
		ProfileFetches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "realty_profile_fetches_total",
			Help: "Profile fetches during session rehydration, labeled by outcome",
		}, []string{"outcome"}),
		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "realty_active_sessions",
			Help: "Browser sessions currently held in memory",
		}),
		LoginsSucceeded: factory.NewCounter(prometheus.CounterOpts{
			Name: "realty_logins_succeeded_total",
			Help: "Successful admin logins",
		}),
		LoginsFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "realty_logins_failed_total",
			Help: "Rejected admin logins",
		}),
	}
}

// Handler exposes the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ObserveBackendCall records one outbound call. status 0 means the request never got a response.
func (m *Metrics) ObserveBackendCall(method, resource string, status int, durationSeconds float64) {
	m.BackendLatency.WithLabelValues(method, resource).Observe(durationSeconds)
	if status == 0 || status >= 400 {
		m.BackendErrors.WithLabelValues(method, resource, strconv.Itoa(status)).Inc()
	}
}

// ObserveGuardDecision counts a route guard decision.
func (m *Metrics) ObserveGuardDecision(reason string) {
	m.GuardDecisions.WithLabelValues(reason).Inc()
}

// ObserveProfileFetch counts a rehydration profile fetch outcome.
func (m *Metrics) ObserveProfileFetch(outcome string) {
	m.ProfileFetches.WithLabelValues(outcome).Inc()
}

// SetActiveSessions sets the live session gauge.
func (m *Metrics) SetActiveSessions(count int) {
	m.ActiveSessions.Set(float64(count))
}

// ObserveLogin counts a login attempt.
func (m *Metrics) ObserveLogin(succeeded bool) {
	if succeeded {
		m.LoginsSucceeded.Inc()
		return
	}
	m.LoginsFailed.Inc()
}

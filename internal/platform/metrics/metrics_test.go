// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/realty/internal/platform/metrics"
)

func TestObserveBackendCall_CountsOnlyFailures(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	m.ObserveBackendCall(http.MethodGet, "properties", http.StatusOK, 0.01)
	m.ObserveBackendCall(http.MethodGet, "properties", http.StatusNotFound, 0.01)
	m.ObserveBackendCall(http.MethodGet, "properties", 0, 0.5)

	assert.Equal(t, 1, testutil.CollectAndCount(m.BackendLatency), "one series per method and resource")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BackendErrors.WithLabelValues(http.MethodGet, "properties", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BackendErrors.WithLabelValues(http.MethodGet, "properties", "0")))
}

func TestSessionAndLoginCounters(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	m.SetActiveSessions(4)
	m.ObserveLogin(true)
	m.ObserveLogin(false)
	m.ObserveLogin(false)
	m.ObserveGuardDecision("anonymous")
	m.ObserveProfileFetch("failed")

	assert.Equal(t, 4.0, testutil.ToFloat64(m.ActiveSessions))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LoginsSucceeded))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.LoginsFailed))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GuardDecisions.WithLabelValues("anonymous")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ProfileFetches.WithLabelValues("failed")))
}

func TestHandler_ServesRegistry(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	m.SetActiveSessions(2)

	recorder := httptest.NewRecorder()
	m.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "realty_active_sessions 2")
}

package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRequest(t *testing.T) {
	m := New()
	m.ObserveRequest(http.MethodGet, "/api/users/{id}", 200, 15*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "/api/users/{id}", 200, 5*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/users/{id}", "200")))
}

func TestAuthEvent(t *testing.T) {
	m := New()
	m.AuthEvent("login", "failure")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.authEvents.WithLabelValues("login", "failure")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRequest(http.MethodGet, "/", 200, time.Millisecond)
		m.AuthEvent("login", "success")
	})
}

func TestHandlerExposesSeries(t *testing.T) {
	m := New()
	m.AuthEvent("register", "success")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `nebula_auth_events_total{event="register",outcome="success"} 1`)
}

package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	m := New()
	m.SignalEmitted("big_bettor", "mlb", 2)
	m.SignalEmitted("big_bettor", "mlb", 0)
	m.FetchFailed("games")
	m.Delivery("social", "success")
	m.Delivery("social", "failure")
	m.Delivery("social", "success")
	m.Run("completed")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.signalsEmitted.WithLabelValues("big_bettor", "mlb")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fetchFailures.WithLabelValues("games")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.deliveries.WithLabelValues("social", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("completed")))
}

func TestNilManagerIsSafe(t *testing.T) {
	var m *Manager
	assert.NotPanics(t, func() {
		m.SignalEmitted("prop_hit_rate", "nba", 1)
		m.FetchFailed("props")
		m.Delivery("email", "success")
		m.Run("failed")
	})
}

func TestHandler(t *testing.T) {
	m := New()
	m.FetchFailed("referee-stats")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `edge_signal_fetch_failures_total{endpoint="referee-stats"} 1`)
}

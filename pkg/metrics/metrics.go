// Package metrics exposes Prometheus counters for the alert pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "edge_signal"

// Manager owns a private registry and the pipeline counters.
type Manager struct {
	registry *prometheus.Registry

	signalsEmitted *prometheus.CounterVec
	fetchFailures  *prometheus.CounterVec
	deliveries     *prometheus.CounterVec
	runs           *prometheus.CounterVec
}

// New creates a Manager with its own registry so tests and multiple instances never collide.
func New() *Manager {
	m := &Manager{
		registry: prometheus.NewRegistry(),
		signalsEmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signals_emitted_total",
			Help:      "Signals that cleared their category threshold.",
		}, []string{"category", "sport"}),
		fetchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_failures_total",
			Help:      "Upstream calls that failed and were treated as no data.",
		}, []string{"endpoint"}),
		deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deliveries_total",
			Help:      "Delivery attempts by mode and result.",
		}, []string{"mode", "result"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Pipeline runs by outcome.",
		}, []string{"result"}),
	}
	m.registry.MustRegister(
		m.signalsEmitted,
		m.fetchFailures,
		m.deliveries,
		m.runs,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Manager) SignalEmitted(category, sport string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.signalsEmitted.WithLabelValues(category, sport).Add(float64(n))
}

func (m *Manager) FetchFailed(endpoint string) {
	if m == nil {
		return
	}
	m.fetchFailures.WithLabelValues(endpoint).Inc()
}

func (m *Manager) Delivery(mode, result string) {
	if m == nil {
		return
	}
	m.deliveries.WithLabelValues(mode, result).Inc()
}

func (m *Manager) Run(result string) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(result).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

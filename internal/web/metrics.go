package web

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Query outcomes recorded by Metrics.
const (
	outcomeOK       = "ok"
	outcomeWarning  = "warning"
	outcomeNotFound = "not_found"
	outcomeError    = "error"
	outcomeCanceled = "canceled"
)

// Metrics holds the collectors exposed on /metrics. Each instance owns its
// registry so tests can build routers side by side.
type Metrics struct {
	registry *prometheus.Registry
	queries  *prometheus.CounterVec
	duration *prometheus.HistogramVec
	scanned  prometheus.Counter
}

// NewMetrics creates and registers the collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "trdb_queries_total",
			Help: "Catalogue requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "trdb_scan_duration_seconds",
			Help:    "Time spent scanning the catalogue per request.",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		scanned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trdb_rows_scanned_total",
			Help: "Catalogue rows read by search requests.",
		}),
	}
	m.registry.MustRegister(m.queries, m.duration, m.scanned)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) observe(endpoint, outcome string, elapsed time.Duration) {
	m.queries.WithLabelValues(endpoint, outcome).Inc()
	m.duration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

func (m *Metrics) addScanned(n int) {
	m.scanned.Add(float64(n))
}

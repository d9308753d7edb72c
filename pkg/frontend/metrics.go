package frontend

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeServed  = "served"
	outcomeMissing = "missing"
	outcomeError   = "error"
)

// Metrics bundles the prometheus collectors updated by the server
type Metrics struct {
	IndexRequests    *prometheus.CounterVec
	IndexBytes       prometheus.Counter
	WatchConnections prometheus.Gauge
}

func NewMetrics(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		IndexRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "frontend_index_requests_total",
			Help: "Total number of requests for the front-end entry file, by outcome.",
		}, []string{"outcome"}),
		IndexBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "frontend_index_bytes_total",
			Help: "Total number of entry file bytes served.",
		}),
		WatchConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "frontend_watch_connections",
			Help: "Number of open asset watch connections.",
		}),
	}

	registry.MustRegister(
		m.IndexRequests,
		m.IndexBytes,
		m.WatchConnections,
	)

	return m
}

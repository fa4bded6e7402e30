// Package metrics exposes the tick driver's Prometheus instrumentation:
// tick duration, connected players, simulation events, goals, and
// outgoing snapshot bytes.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is one server instance's metric set, bound to its own
// prometheus.Registry so concurrent test servers never collide.
type Registry struct {
	reg *prometheus.Registry

	TickDuration     prometheus.Histogram
	ConnectedPlayers prometheus.Gauge
	Events           *prometheus.CounterVec
	Goals            *prometheus.CounterVec
	SnapshotBytes    prometheus.Counter
	DroppedPackets   prometheus.Counter
}

// New builds a Registry with every metric registered under the hqmgo_
// namespace, plus the standard process and Go runtime collectors.
func New() *Registry {
	reg := prometheus.NewRegistry()

	m := &Registry{
		reg: reg,
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "hqmgo",
			Subsystem: "tick",
			Name:      "duration_seconds",
			Help:      "Wall-clock time spent running one simulation tick.",
			Buckets:   prometheus.ExponentialBuckets(0.00005, 2, 12),
		}),
		ConnectedPlayers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "hqmgo",
			Name:      "connected_players",
			Help:      "Number of currently connected player sessions.",
		}),
		Events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hqmgo",
			Subsystem: "sim",
			Name:      "events_total",
			Help:      "Simulation events raised, labeled by kind.",
		}, []string{"kind"}),
		Goals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hqmgo",
			Name:      "goals_total",
			Help:      "Goals scored, labeled by team.",
		}, []string{"team"}),
		SnapshotBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hqmgo",
			Subsystem: "net",
			Name:      "snapshot_bytes_total",
			Help:      "Total bytes written across all server->client snapshots.",
		}),
		DroppedPackets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hqmgo",
			Subsystem: "net",
			Name:      "dropped_packets_total",
			Help:      "Client datagrams rejected by magic, type, or decode errors, or by rate limiting.",
		}),
	}

	reg.MustRegister(
		m.TickDuration,
		m.ConnectedPlayers,
		m.Events,
		m.Goals,
		m.SnapshotBytes,
		m.DroppedPackets,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	return m
}

// Handler returns the HTTP handler to mount at /metrics.
func (m *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// Package telemetry exposes the Terminal Network's ambient
// observability surface: tick duration, transfer volume, and overload
// pressure, registered with a Prometheus registry for scraping.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the Terminal Network's Prometheus collectors.
type Metrics struct {
	TickDuration    prometheus.Histogram
	TransfersPerTick prometheus.Counter
	OverloadGauge   prometheus.Gauge
	NotificationsPerTick prometheus.Counter
}

// New registers and returns a fresh Metrics bundle on reg. Passing
// prometheus.NewRegistry() isolates metrics; cmd/networksim passes
// its own registry here and serves that same registry at /metrics.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "terminalnet",
			Name:      "tick_duration_seconds",
			Help:      "Duration of one Terminal Network run() invocation.",
			Buckets:   prometheus.DefBuckets,
		}),
		TransfersPerTick: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "terminalnet",
			Name:      "transfers_total",
			Help:      "Cumulative count of successful terminal transfers.",
		}),
		OverloadGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "terminalnet",
			Name:      "overloaded_terminals",
			Help:      "Number of terminals flagged overloaded in the most recent tick.",
		}),
		NotificationsPerTick: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "terminalnet",
			Name:      "notifications_total",
			Help:      "Cumulative count of network notifications (transfers and failed requests/sales).",
		}),
	}

	reg.MustRegister(m.TickDuration, m.TransfersPerTick, m.OverloadGauge, m.NotificationsPerTick)
	return m
}

// ObserveTick records the wall-clock duration of a run() invocation.
func (m *Metrics) ObserveTick(d time.Duration) {
	m.TickDuration.Observe(d.Seconds())
}

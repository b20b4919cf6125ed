package watcher

import "github.com/prometheus/client_golang/prometheus"

var (
	eventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "plugd",
			Subsystem: "watcher",
			Name:      "events_total",
			Help:      "Total number of adapter transitions observed",
		},
		[]string{"type"},
	)

	reconnectsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "plugd",
			Subsystem: "watcher",
			Name:      "reconnects_total",
			Help:      "Total number of connect retries after a failed dial or ended stream",
		},
	)

	connectedGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "plugd",
			Subsystem: "watcher",
			Name:      "connected",
			Help:      "Whether a live acpid stream is currently held (1) or not (0)",
		},
	)
)

func init() {
	prometheus.MustRegister(eventsTotal, reconnectsTotal, connectedGauge)
}

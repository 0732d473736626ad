package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RenderDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "mandelzoom",
		Subsystem: "render",
		Name:      "duration_seconds",
		Help:      "Time to render one full escape field",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	})

	PixelsRendered = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "mandelzoom",
		Subsystem: "render",
		Name:      "pixels_total",
		Help:      "Total raster cells evaluated",
	})

	// Selections counts selection events by outcome: "accepted", "rejected",
	// "filtered" (drag below the pixel minimum) or "dropped" (render queue full).
	Selections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mandelzoom",
		Subsystem: "viewport",
		Name:      "selections_total",
		Help:      "Total region selections by outcome",
	}, []string{"outcome"})

	RemoteWorkers = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "mandelzoom",
		Subsystem: "render",
		Name:      "remote_workers",
		Help:      "Current number of connected remote tile renderers",
	})

	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "mandelzoom",
		Subsystem: "ws",
		Name:      "active_sessions",
		Help:      "Current number of connected viewer sessions",
	})
)

// Handler serves the Prometheus /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

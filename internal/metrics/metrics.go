// Package metrics declares the dashboard's Prometheus instruments.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	FilterChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roadpenalties_filter_changes_total",
		Help: "Filter changes applied, by page",
	}, []string{"page"})

	FrameDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "roadpenalties_frame_duration_seconds",
		Help:    "Time to recompute every chart of a page after a filter change",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
	}, []string{"page"})

	ChartUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "roadpenalties_chart_updates_total",
		Help: "Chart frames computed, by chart",
	}, []string{"chart"})

	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "roadpenalties_sessions",
		Help: "Dashboard sessions currently held",
	})

	RateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "roadpenalties_rate_limited_total",
		Help: "Requests rejected by the rate limiter",
	})

	DatasetRecords = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "roadpenalties_dataset_records",
		Help: "Normalized records loaded, by table",
	}, []string{"table"})
)

// Handler serves the default registry.
func Handler() http.Handler { return promhttp.Handler() }

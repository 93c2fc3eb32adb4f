// Package metrics exposes Prometheus instrumentation for the shadow pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	FramesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shadowcast_frames_total",
		Help: "Total rendered frames",
	})
	FrameDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "shadowcast_frame_duration_ms",
		Help:    "Frame render duration in milliseconds",
		Buckets: []float64{1, 2, 4, 8, 16, 33, 66, 100, 250},
	})
	DrawCalls = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "shadowcast_draw_calls",
		Help: "Draw calls issued in the last frame",
	})
	ActiveCasters = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "shadowcast_active_casters",
		Help: "Shadow casters currently in the scene",
	}, []string{"kind"})
	FetchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shadowcast_fetches_total",
		Help: "Viewport record fetches by kind and outcome",
	}, []string{"kind", "outcome"})
	FetchDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "shadowcast_fetch_duration_ms",
		Help:    "Record fetch duration in milliseconds",
		Buckets: []float64{5, 10, 20, 50, 100, 200, 500, 1000, 2000, 5000},
	}, []string{"kind"})
	StaleResultsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shadowcast_stale_results_total",
		Help: "Fetch results discarded because a newer request superseded them",
	})
	SkippedRecordsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shadowcast_skipped_records_total",
		Help: "Records skipped during geometry build by kind",
	}, []string{"kind"})
	RenderErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "shadowcast_render_errors_total",
		Help: "Recovered render-time failures",
	})
)

func init() {
	prometheus.MustRegister(FramesTotal)
	prometheus.MustRegister(FrameDurationMs)
	prometheus.MustRegister(DrawCalls)
	prometheus.MustRegister(ActiveCasters)
	prometheus.MustRegister(FetchesTotal)
	prometheus.MustRegister(FetchDurationMs)
	prometheus.MustRegister(StaleResultsTotal)
	prometheus.MustRegister(SkippedRecordsTotal)
	prometheus.MustRegister(RenderErrorsTotal)
}

// Handler returns the Prometheus scrape handler for mounting at /metrics.
func Handler() http.Handler { return promhttp.Handler() }

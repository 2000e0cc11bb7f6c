package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// forecast refresh pipeline.
type Metrics struct {
	RefreshTotal   prometheus.Counter
	RefreshErrors  prometheus.Counter
	SamplesDropped prometheus.Counter

	FetchDuration prometheus.Histogram
	BuildDuration prometheus.Histogram

	// Snapshot publishing metrics.
	SnapshotsPublished prometheus.Counter
	PublishErrors      prometheus.Counter

	PipelineRunning prometheus.Gauge
	LastRefreshUnix prometheus.Gauge
	KiteableHours   *prometheus.GaugeVec // label: spot
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RefreshTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "windforecast",
			Name:      "refresh_total",
			Help:      "Total forecast refresh attempts.",
		}),
		RefreshErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "windforecast",
			Name:      "refresh_errors_total",
			Help:      "Total refresh attempts that failed.",
		}),
		SamplesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "windforecast",
			Name:      "samples_dropped_total",
			Help:      "Total raw samples dropped for missing values during merge.",
		}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "windforecast",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of one open-meteo fetch across all spots.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		BuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "windforecast",
			Name:      "build_duration_seconds",
			Help:      "Duration of classifying and bucketing one refresh.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		SnapshotsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "windforecast",
			Name:      "snapshots_published_total",
			Help:      "Total per-spot snapshots written to Kafka.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "windforecast",
			Name:      "publish_errors_total",
			Help:      "Total snapshot publish failures.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "windforecast",
			Name:      "pipeline_running",
			Help:      "1 when the refresh loop is active, 0 when shut down.",
		}),
		LastRefreshUnix: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "windforecast",
			Name:      "last_refresh_timestamp_seconds",
			Help:      "Unix time of the last successful refresh.",
		}),
		KiteableHours: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "windforecast",
			Name:      "kiteable_hours",
			Help:      "Kiteable hours in the current forecast window by spot.",
		}, []string{"spot"}),
	}

	prometheus.MustRegister(
		m.RefreshTotal,
		m.RefreshErrors,
		m.SamplesDropped,
		m.FetchDuration,
		m.BuildDuration,
		m.SnapshotsPublished,
		m.PublishErrors,
		m.PipelineRunning,
		m.LastRefreshUnix,
		m.KiteableHours,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RefreshTotal:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "windforecast", Name: "refresh_total"}),
		RefreshErrors:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "windforecast", Name: "refresh_errors_total"}),
		SamplesDropped:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "windforecast", Name: "samples_dropped_total"}),
		FetchDuration:      prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "windforecast", Name: "fetch_duration_seconds"}),
		BuildDuration:      prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "windforecast", Name: "build_duration_seconds"}),
		SnapshotsPublished: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "windforecast", Name: "snapshots_published_total"}),
		PublishErrors:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "windforecast", Name: "publish_errors_total"}),
		PipelineRunning:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "windforecast", Name: "pipeline_running"}),
		LastRefreshUnix:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "windforecast", Name: "last_refresh_timestamp_seconds"}),
		KiteableHours:      prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: "windforecast", Name: "kiteable_hours"}, []string{"spot"}),
	}
}

package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// analytics pipeline.
type Metrics struct {
	PipelineRunning prometheus.Gauge

	// Dataset ingest metrics.
	RowsLoaded  *prometheus.CounterVec // labels: dataset={crime,weather,buildings}
	LoaderCache *prometheus.CounterVec // labels: result={hit,miss}

	// Stage execution metrics.
	StageDuration *prometheus.HistogramVec // labels: stage
	StageErrors   *prometheus.CounterVec   // labels: stage

	// Output metrics.
	ArtifactsWritten prometheus.Counter
	ChartsRendered   prometheus.Counter
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "crime_etl",
			Name:      "pipeline_running",
			Help:      "1 while a pipeline run is active, 0 otherwise.",
		}),
		RowsLoaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crime_etl",
			Name:      "rows_loaded_total",
			Help:      "Rows loaded per source dataset.",
		}, []string{"dataset"}),
		LoaderCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crime_etl",
			Name:      "loader_cache_total",
			Help:      "Dataset loader cache lookups by result.",
		}, []string{"result"}),
		StageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "crime_etl",
			Name:      "stage_duration_seconds",
			Help:      "Wall-clock duration of each pipeline stage.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"stage"}),
		StageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crime_etl",
			Name:      "stage_errors_total",
			Help:      "Stage failures; the pipeline stops on the first one.",
		}, []string{"stage"}),
		ArtifactsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "crime_etl",
			Name:      "artifacts_written_total",
			Help:      "Tables materialized to the output directory.",
		}),
		ChartsRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "crime_etl",
			Name:      "charts_rendered_total",
			Help:      "Chart files rendered to the output directory.",
		}),
	}

	prometheus.MustRegister(
		m.PipelineRunning,
		m.RowsLoaded,
		m.LoaderCache,
		m.StageDuration,
		m.StageErrors,
		m.ArtifactsWritten,
		m.ChartsRendered,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		PipelineRunning:  prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "crime_etl", Name: "pipeline_running"}),
		RowsLoaded:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "crime_etl", Name: "rows_loaded_total"}, []string{"dataset"}),
		LoaderCache:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "crime_etl", Name: "loader_cache_total"}, []string{"result"}),
		StageDuration:    prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "crime_etl", Name: "stage_duration_seconds"}, []string{"stage"}),
		StageErrors:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "crime_etl", Name: "stage_errors_total"}, []string{"stage"}),
		ArtifactsWritten: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "crime_etl", Name: "artifacts_written_total"}),
		ChartsRendered:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "crime_etl", Name: "charts_rendered_total"}),
	}
}

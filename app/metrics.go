package app

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics instruments analysis runs
type Metrics struct {
	runs     *prometheus.CounterVec
	duration prometheus.Histogram
	failures *prometheus.CounterVec
	rows     prometheus.Histogram
}

// NewMetrics creates the analysis metrics and registers them with
// registerer when it is non-nil.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "carestats_analyses_total",
			Help: "Analysis runs by outcome",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "carestats_analysis_duration_seconds",
			Help:    "Analysis run duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "carestats_column_failures_total",
			Help: "Per-column analysis failures by component and kind",
		}, []string{"component", "kind"}),
		rows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "carestats_dataset_rows",
			Help:    "Rows per analysed dataset",
			Buckets: prometheus.ExponentialBuckets(10, 10, 6),
		}),
	}

	if registerer != nil {
		registerer.MustRegister(m.runs, m.duration, m.failures, m.rows)
	}
	return m
}

package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// fusion service.
type Metrics struct {
	FusionRunning prometheus.Gauge
	CycleDuration prometheus.Histogram

	EventsFused         *prometheus.CounterVec // labels: source
	RecordsRejected     *prometheus.CounterVec // labels: source, kind
	SourceFetchFailures *prometheus.CounterVec // labels: source
	SinkErrors          *prometheus.CounterVec // labels: sink

	// Snapshot gauges, refreshed after every cycle.
	ActiveEvents       prometheus.Gauge
	BreakingEvents     prometheus.Gauge
	CorroboratedEvents prometheus.Gauge
	CorpusItems        prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.FusionRunning,
		m.CycleDuration,
		m.EventsFused,
		m.RecordsRejected,
		m.SourceFetchFailures,
		m.SinkErrors,
		m.ActiveEvents,
		m.BreakingEvents,
		m.CorroboratedEvents,
		m.CorpusItems,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		FusionRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "hazard_fusion",
			Name:      "running",
			Help:      "1 when the fusion loop is active, 0 when shut down.",
		}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "hazard_fusion",
			Name:      "cycle_duration_seconds",
			Help:      "Duration of a complete fetch-fuse-publish cycle.",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		EventsFused: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hazard_fusion",
			Name:      "events_fused_total",
			Help:      "Events forwarded past normalization and filtering, by source.",
		}, []string{"source"}),
		RecordsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hazard_fusion",
			Name:      "records_rejected_total",
			Help:      "Records dropped for data-quality reasons, by source and error kind.",
		}, []string{"source", "kind"}),
		SourceFetchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hazard_fusion",
			Name:      "source_fetch_failures_total",
			Help:      "Whole-batch fetch failures, by source.",
		}, []string{"source"}),
		SinkErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hazard_fusion",
			Name:      "sink_errors_total",
			Help:      "Publish failures, by sink.",
		}, []string{"sink"}),
		ActiveEvents: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "hazard_fusion",
			Name:      "active_events",
			Help:      "Events in the latest fused snapshot.",
		}),
		BreakingEvents: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "hazard_fusion",
			Name:      "breaking_events",
			Help:      "Snapshot events with IMMEDIATE or HIGH urgency and a known time.",
		}),
		CorroboratedEvents: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "hazard_fusion",
			Name:      "corroborated_events",
			Help:      "Snapshot events with at least one text corroboration.",
		}),
		CorpusItems: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "hazard_fusion",
			Name:      "corpus_items",
			Help:      "Text items in the correlation corpus after keyword filtering.",
		}),
	}
}

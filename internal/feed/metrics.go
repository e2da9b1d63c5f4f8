package feed

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metric names as constants for consistency.
const (
	MetricSourceRows     = "feed_source_rows_total"
	MetricSourceFailures = "feed_source_failures_total"
	MetricRankDuration   = "feed_rank_duration_seconds"
	MetricCandidates     = "feed_candidates_ranked"
)

// Metrics contains Prometheus metrics for the ranking pipeline.
// All operations are thread-safe. A nil *Metrics is a no-op, so the
// pipeline can run unmetered in tests.
type Metrics struct {
	sourceRows     *prometheus.CounterVec
	sourceFailures *prometheus.CounterVec
	rankDuration   prometheus.Histogram
	candidates     prometheus.Histogram
}

// NewMetrics creates and returns a new Metrics instance with all
// collectors initialized. The metrics are not registered; call Register
// to register them with a registry.
func NewMetrics() *Metrics {
	return &Metrics{
		sourceRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricSourceRows,
			Help: "Total candidate rows returned per source",
		}, []string{"source"}),
		sourceFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricSourceFailures,
			Help: "Total failed or timed-out source fetches per source",
		}, []string{"source"}),
		rankDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    MetricRankDuration,
			Help:    "Histogram of end-to-end ranking pipeline duration in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		candidates: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    MetricCandidates,
			Help:    "Histogram of deduplicated candidate counts entering selection",
			Buckets: []float64{0, 5, 10, 25, 50, 100, 200},
		}),
	}
}

// Register registers all metrics with the given registry.
// Returns an error if registration fails.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Collectors returns all Prometheus collectors for testing.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.sourceRows,
		m.sourceFailures,
		m.rankDuration,
		m.candidates,
	}
}

// AddSourceRows records rows fetched from a source.
func (m *Metrics) AddSourceRows(source string, n int) {
	if m == nil {
		return
	}
	m.sourceRows.WithLabelValues(source).Add(float64(n))
}

// IncSourceFailure records a failed source fetch.
func (m *Metrics) IncSourceFailure(source string) {
	if m == nil {
		return
	}
	m.sourceFailures.WithLabelValues(source).Inc()
}

// ObserveRank records one completed pipeline run.
func (m *Metrics) ObserveRank(durationSeconds float64, candidateCount int) {
	if m == nil {
		return
	}
	m.rankDuration.Observe(durationSeconds)
	m.candidates.Observe(float64(candidateCount))
}

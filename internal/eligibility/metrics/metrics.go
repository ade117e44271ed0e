// Package metrics provides Prometheus metrics for aid estimations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Estimation modes.
const (
	ModeQuick = "quick"
	ModeFull  = "full"
)

// Estimation outcomes.
const (
	OutcomeMatched  = "matched"
	OutcomeEmpty    = "empty"
	OutcomeRejected = "rejected"
)

// Metrics contains the estimation service metrics.
type Metrics struct {
	EstimatesTotal   *prometheus.CounterVec   // Estimations by mode and outcome
	EstimateDuration *prometheus.HistogramVec // Evaluation latency by mode
	AidItemsTotal    *prometheus.CounterVec   // Reported aid items by status (confirmed, potential)
	CappedTotal      prometheus.Counter       // Summaries whose confirmed aid exceeded the price
	BatchSize        prometheus.Histogram     // Activities per batch call
	SnapshotFailures *prometheus.CounterVec   // Best-effort snapshot store failures by operation
}

// New creates a Metrics instance registered on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the metrics on reg. Tests pass a fresh registry.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		EstimatesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "aidengine_estimates_total",
			Help: "Total number of aid estimations by mode and outcome",
		}, []string{"mode", "outcome"}),

		EstimateDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "aidengine_estimate_duration_seconds",
			Help:    "Duration of catalog evaluation by mode",
			Buckets: []float64{0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01}, // evaluation is in-memory
		}, []string{"mode"}),

		AidItemsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "aidengine_aid_items_total",
			Help: "Total number of aid items reported by status",
		}, []string{"status"}),

		CappedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "aidengine_capped_estimates_total",
			Help: "Total number of estimations whose confirmed aid was capped at the price",
		}),

		BatchSize: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "aidengine_batch_size",
			Help:    "Number of activities per batch quick estimation",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100},
		}),

		SnapshotFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "aidengine_snapshot_failures_total",
			Help: "Total number of snapshot store failures by operation",
		}, []string{"op"}),
	}
}

// RecordEstimate records one estimation.
func (m *Metrics) RecordEstimate(mode, outcome string, durationSeconds float64) {
	m.EstimatesTotal.WithLabelValues(mode, outcome).Inc()
	m.EstimateDuration.WithLabelValues(mode).Observe(durationSeconds)
}

// RecordItems records the items of a successful estimation.
func (m *Metrics) RecordItems(confirmed, potential int, capped bool) {
	m.AidItemsTotal.WithLabelValues("confirmed").Add(float64(confirmed))
	m.AidItemsTotal.WithLabelValues("potential").Add(float64(potential))
	if capped {
		m.CappedTotal.Inc()
	}
}

// ObserveBatch records the size of a batch call.
func (m *Metrics) ObserveBatch(size int) {
	m.BatchSize.Observe(float64(size))
}

// IncrementSnapshotFailure records a failed store operation.
func (m *Metrics) IncrementSnapshotFailure(op string) {
	m.SnapshotFailures.WithLabelValues(op).Inc()
}

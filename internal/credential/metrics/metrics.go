package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the credential module.
type Metrics struct {
	// Submissions by kind and resulting status
	Submissions *prometheus.CounterVec

	// Review decisions by kind and outcome
	Decisions *prometheus.CounterVec

	// Expiry buckets observed when listing records, by kind and bucket
	ExpiryBuckets *prometheus.CounterVec

	// Talent aggregation latency by kind
	AggregationLatency *prometheus.HistogramVec
}

// New creates a Metrics instance with all credential module metrics registered.
func New() *Metrics {
	return &Metrics{
		Submissions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "complio_credential_submissions_total",
			Help: "Total credential submissions by kind and initial status",
		}, []string{"kind", "status"}),

		Decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "complio_credential_decisions_total",
			Help: "Total review decisions by kind and outcome",
		}, []string{"kind", "outcome"}),

		ExpiryBuckets: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "complio_credential_expiry_observations_total",
			Help: "Expiry bucket observations emitted while listing records",
		}, []string{"kind", "bucket"}),

		AggregationLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "complio_credential_aggregation_duration_seconds",
			Help:    "Duration of by-state and talent-search aggregation queries",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"kind"}),
	}
}

// IncrementSubmission records a credential submission.
func (m *Metrics) IncrementSubmission(kind, status string) {
	if m != nil {
		m.Submissions.WithLabelValues(kind, status).Inc()
	}
}

// IncrementDecision records a review decision outcome.
func (m *Metrics) IncrementDecision(kind, outcome string) {
	if m != nil {
		m.Decisions.WithLabelValues(kind, outcome).Inc()
	}
}

// ObserveExpiryBucket records the expiry bucket of a listed record.
func (m *Metrics) ObserveExpiryBucket(kind, bucket string) {
	if m != nil {
		m.ExpiryBuckets.WithLabelValues(kind, bucket).Inc()
	}
}

// ObserveAggregation records the duration of an aggregation query.
func (m *Metrics) ObserveAggregation(kind string, d time.Duration) {
	if m != nil {
		m.AggregationLatency.WithLabelValues(kind).Observe(d.Seconds())
	}
}

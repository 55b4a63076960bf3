package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the moderation module.
type Metrics struct {
	// Committed verdicts by action and content type
	Verdicts *prometheus.CounterVec

	// Refused moderations by failure class
	Failures *prometheus.CounterVec

	// End-to-end Moderate latency including the unit of work
	ModerateLatency prometheus.Histogram
}

// New creates a new Metrics instance with all moderation module metrics registered.
func New() *Metrics {
	return &Metrics{
		Verdicts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "curator_moderation_verdicts_total",
			Help: "Total committed moderation verdicts by action and content type",
		}, []string{"action", "content_type"}),

		Failures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "curator_moderation_failures_total",
			Help: "Total refused moderations by failure class",
		}, []string{"reason"}), // reason: "denied", "invalid_action", "not_found", "conflict", "persistence"

		ModerateLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "curator_moderation_moderate_duration_seconds",
			Help:    "Duration of full moderation calls including the unit of work",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
	}
}

// RecordVerdict records one committed verdict.
func (m *Metrics) RecordVerdict(action, contentType string) {
	if m != nil {
		m.Verdicts.WithLabelValues(action, contentType).Inc()
	}
}

// RecordFailure records one refused moderation.
func (m *Metrics) RecordFailure(reason string) {
	if m != nil {
		m.Failures.WithLabelValues(reason).Inc()
	}
}

// ObserveModerateLatency records the duration of one Moderate call.
func (m *Metrics) ObserveModerateLatency(d time.Duration) {
	if m != nil {
		m.ModerateLatency.Observe(d.Seconds())
	}
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the capability module.
type Metrics struct {
	// Decisions by capability, strategy, and outcome
	Decisions *prometheus.CounterVec

	// Points cache effectiveness
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter
}

// New creates a new Metrics instance with all capability module metrics registered.
func New() *Metrics {
	return &Metrics{
		Decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "curator_capability_decisions_total",
			Help: "Total capability decisions by capability, strategy, and outcome",
		}, []string{"capability", "strategy", "outcome"}),

		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "curator_capability_points_cache_hits_total",
			Help: "Reputation point lookups served from the evaluator cache",
		}),

		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "curator_capability_points_cache_misses_total",
			Help: "Reputation point lookups that fell through to the store",
		}),
	}
}

// RecordDecision records one capability decision.
func (m *Metrics) RecordDecision(capability, strategy string, allowed bool) {
	if m == nil {
		return
	}
	outcome := "deny"
	if allowed {
		outcome = "allow"
	}
	m.Decisions.WithLabelValues(capability, strategy, outcome).Inc()
}

// RecordCacheHit records a points cache hit.
func (m *Metrics) RecordCacheHit() {
	if m != nil {
		m.CacheHits.Inc()
	}
}

// RecordCacheMiss records a points cache miss.
func (m *Metrics) RecordCacheMiss() {
	if m != nil {
		m.CacheMisses.Inc()
	}
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Ledger operation counters, labeled by outcome so failed attempts are
// visible next to successes.
var (
	EntriesCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_entries_created_total",
		Help: "Journal entries created as drafts.",
	}, []string{"outcome"})

	EntriesPosted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_entries_posted_total",
		Help: "Draft journal entries transitioned to posted.",
	}, []string{"outcome"})

	EntriesReversed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_entries_reversed_total",
		Help: "Posted journal entries reversed.",
	}, []string{"outcome"})

	EntriesDeleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_entries_deleted_total",
		Help: "Draft journal entries deleted.",
	}, []string{"outcome"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// Outcome label values.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Observe increments a ledger counter with the outcome derived from err.
func Observe(counter *prometheus.CounterVec, err error) {
	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
	}
	counter.WithLabelValues(outcome).Inc()
}

// Package metrics holds the Prometheus collectors exported at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ledgerly"

var (
	// RecomputeDuration observes how long a full balance rebuild takes,
	// guard wait excluded.
	RecomputeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "ledger",
		Name:      "recompute_duration_seconds",
		Help:      "Duration of balance recomputes.",
		Buckets:   prometheus.DefBuckets,
	})

	// RecomputeFailures counts recomputes that rolled back.
	RecomputeFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ledger",
		Name:      "recompute_failures_total",
		Help:      "Balance recomputes that failed and left the previous balances in place.",
	})

	// Occurrences counts scheduler outcomes per occurrence, labelled by result
	// (created, skipped, failed).
	Occurrences = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "scheduler",
		Name:      "occurrences_total",
		Help:      "Recurring payment occurrences by result.",
	}, []string{"result"})

	// Deactivations counts recurring payments that ran past their end date.
	Deactivations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "scheduler",
		Name:      "deactivations_total",
		Help:      "Recurring payments deactivated after their end date.",
	})

	// Anomalies counts definitions skipped because their schedule could not be advanced.
	Anomalies = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "scheduler",
		Name:      "anomalies_total",
		Help:      "Recurring payments skipped due to a scheduling anomaly.",
	})

	// RPCRequests counts RPCs by procedure and Connect code ("ok" on success).
	RPCRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "rpc",
		Name:      "requests_total",
		Help:      "Handled RPC requests.",
	}, []string{"procedure", "code"})
)

// Occurrence results.
const (
	ResultCreated = "created"
	ResultSkipped = "skipped"
	ResultFailed  = "failed"
)

// Package metrics declares the service's Prometheus collectors. They register
// with the default registry and are served from /-/metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "moodquote"

// Analysis metrics
var (
	// AnalysesTotal counts texts analyzed by resulting mood.
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Texts analyzed by resulting mood",
		},
		[]string{"mood"},
	)
)

// Use case metrics
var (
	// OperationDuration tracks quote refresh operations. outcome is "ok" or
	// the name of the step that stopped the run.
	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Quote refresh operation duration in seconds, by outcome",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"operation", "outcome"},
	)
)

// Quote source metrics
var (
	// QuoteFallbacksTotal counts fallback substitutions by failure reason.
	QuoteFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quote_fallbacks_total",
			Help:      "Quotes served from the local fallback pool, by reason",
		},
		[]string{"reason"},
	)

	// QuoteFetchDuration tracks remote fetch latency, fallbacks included.
	QuoteFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "quote_fetch_duration_seconds",
			Help:      "Quote fetch latency in seconds",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2, 3, 5},
		},
		[]string{"source"},
	)
)

// State store metrics
var (
	// StateReadFailuresTotal counts reads that degraded to an empty value.
	StateReadFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "state_read_failures_total",
			Help:      "Quote state reads that failed and degraded to empty",
		},
		[]string{"key"},
	)

	// StateWriteFailuresTotal counts writes that were dropped.
	StateWriteFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "state_write_failures_total",
			Help:      "Quote state writes that failed and were dropped",
		},
		[]string{"key"},
	)

	// LegacyRecordsTotal counts stored records normalized from an older layout.
	LegacyRecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "state_legacy_records_total",
			Help:      "Stored records read in a legacy layout and normalized",
		},
		[]string{"key"},
	)

	// StateDroppedEntriesTotal counts list elements skipped on read.
	StateDroppedEntriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "state_dropped_entries_total",
			Help:      "Stored favorites or history entries that could not be decoded",
		},
		[]string{"key"},
	)
)

// Key-value backend metrics
var (
	// KVOperationsTotal counts backend operations by outcome.
	KVOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kv_operations_total",
			Help:      "Key-value backend operations by backend, operation and status",
		},
		[]string{"backend", "operation", "status"},
	)

	// KVOperationDuration tracks backend latency.
	KVOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "kv_operation_duration_seconds",
			Help:      "Key-value backend operation duration in seconds",
			Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"backend", "operation"},
	)

	// RedisConnectionErrors counts failed dials to Redis.
	RedisConnectionErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "redis_connection_errors_total",
			Help:      "Failed Redis connection attempts",
		},
	)
)

// Operation status label values.
const (
	StatusSuccess  = "success"
	StatusError    = "error"
	StatusNotFound = "not_found"
)

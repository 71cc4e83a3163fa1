package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Dispatch outcomes.
const (
	OutcomePosted            = "posted"
	OutcomeFailedValidation  = "failed_validation"
	OutcomeFailedMedia       = "failed_media"
	OutcomeFailedPublish     = "failed_publish"
	OutcomeSkippedContention = "skipped_contention"
	OutcomeCommitError       = "commit_error"
)

var (
	DispatchOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tweetgenie",
			Subsystem: "dispatcher",
			Name:      "dispatch_total",
			Help:      "Scheduled tweets dispatched, by outcome.",
		},
		[]string{"outcome"},
	)

	DispatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "tweetgenie",
			Subsystem: "dispatcher",
			Name:      "dispatch_duration_seconds",
			Help:      "Duration of a single scheduled tweet dispatch.",
			Buckets:   prometheus.DefBuckets,
		},
	)

	ScanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "tweetgenie",
			Subsystem: "dispatcher",
			Name:      "scan_duration_seconds",
			Help:      "Duration of a full due scan.",
			Buckets:   prometheus.DefBuckets,
		},
	)

	DueRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "tweetgenie",
			Subsystem: "dispatcher",
			Name:      "due_records",
			Help:      "Due pending records found by the last scan.",
		},
	)

	ScansSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "tweetgenie",
			Subsystem: "dispatcher",
			Name:      "scans_skipped_total",
			Help:      "Scans that found the dispatch lock already held.",
		},
	)

	NudgesSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "tweetgenie",
			Subsystem: "dispatcher",
			Name:      "nudges_skipped_total",
			Help:      "Queued single-record dispatches that found the dispatch lock held.",
		},
	)

	ProviderRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tweetgenie",
			Subsystem: "generator",
			Name:      "provider_requests_total",
			Help:      "Content provider calls, by provider and status.",
		},
		[]string{"provider", "status"},
	)
)

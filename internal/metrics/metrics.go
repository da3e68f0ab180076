// Package metrics registers the Prometheus collectors for the engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AssessmentsScored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fundability_assessments_scored_total",
			Help: "Total number of assessments scored",
		},
		[]string{"grade"},
	)

	AssessmentsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fundability_assessments_failed_total",
			Help: "Total number of assessments that could not be scored",
		},
		[]string{"error_code"},
	)

	OverallScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fundability_overall_score",
			Help:    "Distribution of overall fundability scores",
			Buckets: prometheus.LinearBuckets(0, 100, 11),
		},
	)

	ScoringDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "fundability_scoring_duration_seconds",
			Help: "Duration of a full assessment in seconds",
		},
	)

	MatchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fundability_match_requests_total",
			Help: "Total number of marketplace match requests",
		},
		[]string{"kind", "demo"},
	)

	MatchesReturned = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fundability_matches_returned",
			Help:    "Number of opportunities returned per match request",
			Buckets: prometheus.LinearBuckets(0, 2, 10),
		},
		[]string{"kind"},
	)

	PersistenceFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fundability_persistence_failures_total",
			Help: "Total number of best-effort writes that failed",
		},
		[]string{"target"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fundability_profile_cache_lookups_total",
			Help: "Profile cache lookups by result",
		},
		[]string{"result"},
	)
)

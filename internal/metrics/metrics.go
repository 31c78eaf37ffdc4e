// Package metrics defines the Prometheus instrumentation for the analysis
// pipeline, the Slack connector and the snapshot cache.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline metrics
var (
	// AnalysisRuns counts full pipeline runs by result (ok/error).
	AnalysisRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lunch_analysis_runs_total",
			Help: "Total analysis pipeline runs by result",
		},
		[]string{"result"},
	)

	// AnalysisDuration tracks end-to-end pipeline latency in seconds.
	AnalysisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "lunch_analysis_duration_seconds",
			Help:    "Analysis pipeline duration in seconds",
			Buckets: []float64{.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
	)

	// MessagesClassified counts classifier decisions by outcome.
	MessagesClassified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lunch_messages_classified_total",
			Help: "Messages run through the classifier by outcome (accepted/rejected)",
		},
		[]string{"outcome"},
	)

	// LunchDays tracks the number of lunch records in the latest run.
	LunchDays = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "lunch_days_current",
			Help: "Lunch records produced by the most recent analysis run",
		},
	)

	// ThreadFetchFailures counts degraded candidates scored without replies.
	ThreadFetchFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lunch_thread_fetch_failures_total",
			Help: "Thread reply fetches that failed and degraded to zero replies",
		},
	)
)

// Slack connector metrics
var (
	// SlackAPICalls counts Slack Web API calls by method and status.
	SlackAPICalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slack_api_calls_total",
			Help: "Slack API calls by method and status (ok/error/rate_limited)",
		},
		[]string{"method", "status"},
	)

	// SlackPagesFetched counts history pages fetched per run.
	SlackPagesFetched = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "slack_history_pages_fetched_total",
			Help: "Conversation history pages fetched",
		},
	)
)

// Snapshot cache metrics
var (
	// CacheLookups counts snapshot cache lookups by result.
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lunch_cache_lookups_total",
			Help: "Snapshot cache lookups by result (hit/miss/stale)",
		},
		[]string{"result"},
	)

	// CacheRefreshes counts snapshot refreshes by trigger.
	CacheRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lunch_cache_refreshes_total",
			Help: "Snapshot refreshes by trigger (scheduled/manual/expired)",
		},
		[]string{"trigger"},
	)

	// SnapshotAge tracks the age of the served snapshot in seconds.
	SnapshotAge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "lunch_snapshot_age_seconds",
			Help: "Age of the currently cached snapshot in seconds",
		},
	)
)

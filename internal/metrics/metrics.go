// Simplex Analytics - Engagement Sync and Analytics Backend
// Copyright 2026 Zion C. (zioncodeliba)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zioncodeliba/simplex-analytics-backend

// Package metrics exposes Prometheus instrumentation for the sync engine
// and the HTTP API. Collectors are registered with promauto at init and
// served from /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Sync orchestration metrics
	SyncRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_runs_total",
			Help: "Total number of sync runs by job, mode and result",
		},
		[]string{"job", "mode", "result"}, // result: "success", "failure"
	)

	SyncSkipsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_skips_total",
			Help: "Total number of sync ticks skipped because a run was already in flight",
		},
		[]string{"job", "reason"}, // reason: "job_running", "lock_held"
	)

	SyncDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sync_duration_seconds",
			Help:    "Duration of sync runs in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"job", "mode"},
	)

	SyncLastSuccess = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sync_last_success_timestamp_seconds",
			Help: "Unix timestamp of the last successful sync run",
		},
		[]string{"job"},
	)

	// External adapter metrics
	EventFetchRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_fetch_retries_total",
			Help: "Total number of analytics API fetch retries",
		},
		[]string{"status"}, // "transport", "rate_limited"
	)

	EventFetchExhausted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "event_fetch_retries_exhausted_total",
			Help: "Total number of analytics API fetches that exhausted all retry attempts",
		},
	)

	EventsUpserted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_upserted_total",
			Help: "Total number of analytics events written to the store",
		},
		[]string{"event_type"},
	)

	EventsSkippedUnknownType = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "events_skipped_unknown_type_total",
			Help: "Total number of events dropped because no mapper is registered for their type",
		},
	)

	RealsUpserted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reals_upserted_total",
			Help: "Total number of real documents upserted by entity sync",
		},
	)

	RealsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reals_dropped_orphaned_total",
			Help: "Total number of reals dropped for referencing an unknown project",
		},
	)

	DurationRollupTotals = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "duration_rollup_reals",
			Help: "Number of reals updated by the last duration aggregation",
		},
	)

	// HTTP API metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)
)

// RecordAPIRequest records one completed API request.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordSyncRun records one completed sync run.
func RecordSyncRun(job, mode string, err error, duration time.Duration) {
	result := "success"
	if err != nil {
		result = "failure"
	} else {
		SyncLastSuccess.WithLabelValues(job).SetToCurrentTime()
	}
	SyncRunsTotal.WithLabelValues(job, mode, result).Inc()
	SyncDuration.WithLabelValues(job, mode).Observe(duration.Seconds())
}

// Simplex Analytics - Engagement Sync and Analytics Backend
// Copyright 2026 Zion C. (zioncodeliba)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zioncodeliba/simplex-analytics-backend

package sync

import "time"

// Fixed sync policy. These mirror the upstream APIs' observed limits and
// are deliberately not configurable.
const (
	// Entity sync pagination.
	realsPageSize   = 500
	entityPagePause = 400 * time.Millisecond

	// Event sync pagination.
	eventFetchLimit = 500
	eventPagePause  = 350 * time.Millisecond

	// Bulk-write chunking.
	chunkSize  = 1000
	chunkPause = 50 * time.Millisecond

	// Analytics API retry policy.
	retryAttempts  = 6
	retryBaseDelay = 500 * time.Millisecond

	// Per-request bound on both external APIs.
	requestTimeout = 25 * time.Second

	// Cadences.
	incrementalInterval = time.Hour
	fullInterval        = 12 * time.Hour

	// Retry interval for a boot run that lost the single-flight lock.
	bootRetryInterval = 5 * time.Second

	// Partial event sync window.
	partialWindow = time.Hour
)

// Job names used by the coordinator, logs and metrics.
const (
	JobEntitySync = "entity_sync"
	JobEventSync  = "event_sync"
)

// Sync modes.
const (
	ModeIncremental = "incremental"
	ModeFull        = "full"
	ModePartial     = "partial"
)

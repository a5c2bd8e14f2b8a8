// Simplex Analytics - Engagement Sync and Analytics Backend
// Copyright 2026 Zion C. (zioncodeliba)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zioncodeliba/simplex-analytics-backend

package sync

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/time/rate"

	"github.com/zioncodeliba/simplex-analytics-backend/internal/logging"
	"github.com/zioncodeliba/simplex-analytics-backend/internal/metrics"
	"github.com/zioncodeliba/simplex-analytics-backend/internal/models"
)

// EventStore is the store surface the router needs.
type EventStore interface {
	BulkWriteEvents(ctx context.Context, collection string, writes []mongo.WriteModel) error
}

// Router dispatches batches of same-typed events through their registered
// mapper into the store, in fixed-size unordered chunks with paced writes.
type Router struct {
	registry *Registry
	store    EventStore
	limiter  *rate.Limiter
}

// NewRouter creates a router over the given registry and store.
func NewRouter(registry *Registry, store EventStore) *Router {
	return &Router{
		registry: registry,
		store:    store,
		limiter:  rate.NewLimiter(rate.Every(chunkPause), 1),
	}
}

// RouteBatch maps and writes one batch of events of a single type.
//
// An unregistered event type is logged and skipped, not fatal. A chunk's
// bulk-write failure is logged and the remaining chunks still proceed;
// unordered writes mean one bad document never blocks its siblings.
// Returns the number of events handed to the store.
func (r *Router) RouteBatch(ctx context.Context, eventType string, events []models.RawEvent) (int, error) {
	if len(events) == 0 {
		return 0, nil
	}

	route, ok := r.registry.Route(eventType)
	if !ok {
		metrics.EventsSkippedUnknownType.Inc()
		logging.Warn().Str("event_type", eventType).Int("events", len(events)).
			Msg("Unknown event type, batch skipped")
		return 0, nil
	}

	// The API occasionally interleaves foreign events into a filtered
	// stream; keep only the requested type.
	filtered := events[:0:0]
	for i := range events {
		if events[i].Event == eventType {
			filtered = append(filtered, events[i])
		}
	}
	if len(filtered) == 0 {
		return 0, nil
	}

	written := 0
	for start := 0; start < len(filtered); start += chunkSize {
		end := start + chunkSize
		if end > len(filtered) {
			end = len(filtered)
		}

		writes := make([]mongo.WriteModel, 0, end-start)
		for i := start; i < end; i++ {
			writes = append(writes, route.Map(&filtered[i]))
		}

		if err := r.limiter.Wait(ctx); err != nil {
			return written, err
		}

		if err := r.store.BulkWriteEvents(ctx, route.Collection, writes); err != nil {
			logging.Error().Err(err).
				Str("event_type", eventType).
				Str("collection", route.Collection).
				Int("chunk_size", len(writes)).
				Msg("Bulk write failed for chunk")
			continue
		}
		written += len(writes)
	}

	metrics.EventsUpserted.WithLabelValues(eventType).Add(float64(written))
	return written, nil
}

// Simplex Analytics - Engagement Sync and Analytics Backend
// Copyright 2026 Zion C. (zioncodeliba)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zioncodeliba/simplex-analytics-backend

package sync

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/time/rate"

	"github.com/zioncodeliba/simplex-analytics-backend/internal/models"
	"github.com/zioncodeliba/simplex-analytics-backend/internal/store"
)

func newTestRouter(s EventStore) *Router {
	r := NewRouter(NewRegistry(), s)
	r.limiter = rate.NewLimiter(rate.Inf, 1)
	return r
}

func makeEvents(eventType string, n int) []models.RawEvent {
	events := make([]models.RawEvent, n)
	for i := range events {
		events[i] = models.RawEvent{ID: string(rune('a'+i%26)) + "-ev", Event: eventType}
	}
	return events
}

func TestRouteBatchChunksWrites(t *testing.T) {
	mock := &mockEventStore{}
	r := newTestRouter(mock)

	written, err := r.RouteBatch(context.Background(), models.EventSlidePaused, makeEvents(models.EventSlidePaused, 2500))
	if err != nil {
		t.Fatalf("RouteBatch failed: %v", err)
	}
	if written != 2500 {
		t.Errorf("expected 2500 written, got %d", written)
	}

	wantSizes := []int{1000, 1000, 500}
	if len(mock.calls) != len(wantSizes) {
		t.Fatalf("expected %d chunks, got %d", len(wantSizes), len(mock.calls))
	}
	for i, call := range mock.calls {
		if call.size != wantSizes[i] {
			t.Errorf("chunk %d: expected size %d, got %d", i, wantSizes[i], call.size)
		}
		if call.collection != store.CollSlidePaused {
			t.Errorf("chunk %d: expected collection %s, got %s", i, store.CollSlidePaused, call.collection)
		}
	}
}

func TestRouteBatchUnknownTypeSkipped(t *testing.T) {
	mock := &mockEventStore{}
	r := newTestRouter(mock)

	written, err := r.RouteBatch(context.Background(), "mystery_event", makeEvents("mystery_event", 10))
	if err != nil {
		t.Fatalf("unknown type must not be fatal: %v", err)
	}
	if written != 0 || len(mock.calls) != 0 {
		t.Errorf("expected no writes for unknown type, got %d written in %d calls", written, len(mock.calls))
	}
}

func TestRouteBatchFiltersForeignEvents(t *testing.T) {
	mock := &mockEventStore{}
	r := newTestRouter(mock)

	events := append(makeEvents(models.EventSlideViewed, 3), makeEvents(models.EventPageView, 2)...)
	written, err := r.RouteBatch(context.Background(), models.EventSlideViewed, events)
	if err != nil {
		t.Fatalf("RouteBatch failed: %v", err)
	}
	if written != 3 {
		t.Errorf("expected 3 matching events written, got %d", written)
	}
}

// A failing chunk is logged and skipped; sibling chunks still land.
func TestRouteBatchChunkFailureIsolated(t *testing.T) {
	calls := 0
	mock := &mockEventStore{
		writeFn: func(ctx context.Context, collection string, writes []mongo.WriteModel) error {
			calls++
			if calls == 1 {
				return errors.New("write concern failure")
			}
			return nil
		},
	}
	r := newTestRouter(mock)

	written, err := r.RouteBatch(context.Background(), models.EventZoomInteraction, makeEvents(models.EventZoomInteraction, 2500))
	if err != nil {
		t.Fatalf("chunk failure must not abort the batch: %v", err)
	}
	if written != 1500 {
		t.Errorf("expected 1500 written after first chunk failed, got %d", written)
	}
	if calls != 3 {
		t.Errorf("expected all 3 chunks attempted, got %d", calls)
	}
}

// Simplex Analytics - Engagement Sync and Analytics Backend
// Copyright 2026 Zion C. (zioncodeliba)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zioncodeliba/simplex-analytics-backend

package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/zioncodeliba/simplex-analytics-backend/internal/logging"
	"github.com/zioncodeliba/simplex-analytics-backend/internal/models"
)

// EventSyncer drains the analytics API's event streams into the per-type
// collections.
//
// Full runs (startup and every 12 hours) page each type's stream from
// the beginning and finish with the duration rollup. Partial runs
// (hourly) cover a one-hour window and skip the rollup. A type whose
// fetch exhausts its retries is abandoned for the cycle; sibling types
// still proceed. Implements suture.Service.
type EventSyncer struct {
	api         AnalyticsAPIInterface
	router      *Router
	aggregator  *DurationAggregator
	coordinator *Coordinator

	pagePause time.Duration
	bootRetry time.Duration
	now       func() time.Time
}

// NewEventSyncer creates the event sync orchestrator.
func NewEventSyncer(api AnalyticsAPIInterface, router *Router, aggregator *DurationAggregator, coordinator *Coordinator) *EventSyncer {
	return &EventSyncer{
		api:         api,
		router:      router,
		aggregator:  aggregator,
		coordinator: coordinator,
		pagePause:   eventPagePause,
		bootRetry:   bootRetryInterval,
		now:         time.Now,
	}
}

// Serve runs the orchestrator until the context is cancelled: one
// immediate full run, then hourly partial and 12-hourly full cadences.
func (s *EventSyncer) Serve(ctx context.Context) error {
	logging.Info().Str("job", JobEventSync).Msg("Event sync orchestrator started")

	s.runAtBoot(ctx, ModeFull)

	partial := time.NewTicker(incrementalInterval)
	defer partial.Stop()
	full := time.NewTicker(fullInterval)
	defer full.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.Info().Str("job", JobEventSync).Msg("Event sync orchestrator stopped")
			return ctx.Err()
		case <-full.C:
			s.RunOnce(ctx, ModeFull)
		case <-partial.C:
			s.RunOnce(ctx, ModePartial)
		}
	}
}

// runAtBoot retries the startup run until it wins the single-flight
// lock; the initial backfill must not silently wait for the next
// 12-hourly tick.
func (s *EventSyncer) runAtBoot(ctx context.Context, mode string) {
	for !s.RunOnce(ctx, mode) {
		select {
		case <-ctx.Done():
			return
		case <-time.After(s.bootRetry):
		}
	}
}

// RunOnce performs one sync run if no other sync is in flight, reporting
// whether a run executed; skipped ticks are logged and dropped. Release
// of the lock is deferred so it survives a panicking run.
func (s *EventSyncer) RunOnce(ctx context.Context, mode string) bool {
	ok, reason := s.coordinator.TryBegin(JobEventSync, mode)
	if !ok {
		logging.Warn().Str("job", JobEventSync).Str("mode", mode).Str("reason", reason).
			Msg("Sync tick skipped")
		return false
	}

	runID := uuid.NewString()
	logging.Info().Str("job", JobEventSync).Str("mode", mode).Str("run_id", runID).
		Msg("Sync run starting")

	var err error
	defer func() {
		if r := recover(); r != nil {
			s.coordinator.Finish(JobEventSync, mode, fmt.Errorf("sync run panicked: %v", r))
			panic(r)
		}
		s.coordinator.Finish(JobEventSync, mode, err)
	}()
	err = s.run(ctx, mode)
	return true
}

func (s *EventSyncer) run(ctx context.Context, mode string) error {
	for _, eventType := range models.EventTypes {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := s.syncEventType(ctx, eventType, mode); err != nil {
			// Partial-failure isolation: one stream failing never
			// aborts the others.
			logging.Error().Err(err).Str("event_type", eventType).Str("mode", mode).
				Msg("Event type sync failed")
		}
	}

	if mode == ModeFull {
		return s.aggregator.Run(ctx)
	}
	return nil
}

// syncEventType pages one event type's stream through the router.
func (s *EventSyncer) syncEventType(ctx context.Context, eventType, mode string) error {
	var after time.Time
	if mode == ModePartial {
		after = s.now().Add(-partialWindow)
	}

	limiter := rate.NewLimiter(rate.Every(s.pagePause), 1)
	pageURL := s.api.EventsURL(eventType, after)
	total := 0
	page := 1

	for pageURL != "" {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}

		events, err := s.api.FetchEventsPage(ctx, pageURL)
		if err != nil {
			return err
		}
		logging.Debug().Str("event_type", eventType).Int("page", page).
			Int("events", len(events.Events)).Msg("Events page fetched")

		written, err := s.router.RouteBatch(ctx, eventType, events.Events)
		if err != nil {
			return err
		}
		total += written

		pageURL = events.NextURL
		page++
	}

	logging.Info().Str("event_type", eventType).Str("mode", mode).Int("saved", total).
		Msg("Event type sync completed")
	return nil
}

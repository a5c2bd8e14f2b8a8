// Simplex Analytics - Engagement Sync and Analytics Backend
// Copyright 2026 Zion C. (zioncodeliba)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zioncodeliba/simplex-analytics-backend

package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/zioncodeliba/simplex-analytics-backend/internal/logging"
	"github.com/zioncodeliba/simplex-analytics-backend/internal/models"
)

// EntitySyncer mirrors the tracked account's user, projects and reals
// from the client API into the store.
//
// Runs incrementally every hour and in full every 12 hours, plus one
// immediate incremental run at startup. Incremental runs fetch reals
// starting at the count of reals already attributed to the account; full
// runs start at offset zero. Both are upsert-only, never deleting.
// Implements suture.Service.
type EntitySyncer struct {
	client       ClientAPIInterface
	store        EntityStore
	reconciler   *Reconciler
	coordinator  *Coordinator
	targetUserID string

	pagePause time.Duration
	bootRetry time.Duration
}

// NewEntitySyncer creates the entity sync orchestrator.
func NewEntitySyncer(client ClientAPIInterface, store EntityStore, coordinator *Coordinator, targetUserID string) *EntitySyncer {
	return &EntitySyncer{
		client:       client,
		store:        store,
		reconciler:   NewReconciler(store),
		coordinator:  coordinator,
		targetUserID: targetUserID,
		pagePause:    entityPagePause,
		bootRetry:    bootRetryInterval,
	}
}

// Serve runs the orchestrator until the context is cancelled: one
// immediate incremental run, then the two fixed cadences.
func (s *EntitySyncer) Serve(ctx context.Context) error {
	logging.Info().Str("job", JobEntitySync).Msg("Entity sync orchestrator started")

	s.runAtBoot(ctx, ModeIncremental)

	incremental := time.NewTicker(incrementalInterval)
	defer incremental.Stop()
	full := time.NewTicker(fullInterval)
	defer full.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.Info().Str("job", JobEntitySync).Msg("Entity sync orchestrator stopped")
			return ctx.Err()
		case <-full.C:
			s.RunOnce(ctx, ModeFull)
		case <-incremental.C:
			s.RunOnce(ctx, ModeIncremental)
		}
	}
}

// runAtBoot retries the startup run until it wins the single-flight
// lock. A contested boot run must eventually execute, not be dropped
// until the next cadence tick.
func (s *EntitySyncer) runAtBoot(ctx context.Context, mode string) {
	for !s.RunOnce(ctx, mode) {
		select {
		case <-ctx.Done():
			return
		case <-time.After(s.bootRetry):
		}
	}
}

// RunOnce performs one sync run if no other sync is in flight, reporting
// whether a run executed. A tick that loses the lock race is skipped and
// logged, never queued. Run errors are absorbed here; the next cadence
// retries from scratch. Release of the lock is deferred so it survives a
// panicking run.
func (s *EntitySyncer) RunOnce(ctx context.Context, mode string) bool {
	ok, reason := s.coordinator.TryBegin(JobEntitySync, mode)
	if !ok {
		logging.Warn().Str("job", JobEntitySync).Str("mode", mode).Str("reason", reason).
			Msg("Sync tick skipped")
		return false
	}

	runID := uuid.NewString()
	logging.Info().Str("job", JobEntitySync).Str("mode", mode).Str("run_id", runID).
		Msg("Sync run starting")

	var err error
	defer func() {
		if r := recover(); r != nil {
			s.coordinator.Finish(JobEntitySync, mode, fmt.Errorf("sync run panicked: %v", r))
			panic(r)
		}
		s.coordinator.Finish(JobEntitySync, mode, err)
	}()
	err = s.run(ctx, mode)
	return true
}

func (s *EntitySyncer) run(ctx context.Context, mode string) error {
	if s.targetUserID == "" {
		return errors.New("no tracked account configured")
	}

	// The tracked account's bearer token is seeded by a prior login and
	// refreshed on every successful run.
	stored, err := s.store.GetUserByUserID(ctx, s.targetUserID)
	if err != nil {
		return fmt.Errorf("tracked account lookup failed: %w", err)
	}
	if stored.AuthToken == "" {
		return fmt.Errorf("tracked account %s has no auth token", s.targetUserID)
	}
	token := stored.AuthToken

	external, err := s.client.FetchAuthenticatedUser(ctx, token)
	if err != nil {
		return fmt.Errorf("auth profile fetch failed: %w", err)
	}

	user, err := s.reconciler.SyncUser(ctx, external, token)
	if err != nil {
		return err
	}

	projects, err := s.client.FetchProjects(ctx, token)
	if err != nil {
		return fmt.Errorf("project fetch failed: %w", err)
	}

	projectMap, err := s.reconciler.SyncProjects(ctx, user, projects)
	if err != nil {
		return err
	}
	if len(projectMap) == 0 {
		logging.Warn().Msg("No projects resolved, skipping reals sync")
		return nil
	}

	reals, err := s.fetchReals(ctx, token, mode)
	if err != nil {
		return err
	}

	_, err = s.reconciler.SyncReals(ctx, reals, projectMap, user.ClientID)
	return err
}

// fetchReals pages through the reals listing until the source reports no
// more pages. A page fetch failure stops paging but keeps what was
// already fetched, so a flaky tail page does not discard the whole run.
func (s *EntitySyncer) fetchReals(ctx context.Context, token, mode string) ([]models.ExternalReal, error) {
	offset := 0
	if mode != ModeFull {
		// Count-derived offsets drift if reals are removed upstream;
		// the 12-hourly full pass re-walks the listing from zero.
		count, err := s.store.CountTrackedReals(ctx, s.targetUserID)
		if err != nil {
			return nil, fmt.Errorf("reals offset calculation failed: %w", err)
		}
		offset = count
	}
	logging.Info().Str("mode", mode).Int("offset", offset).Msg("Fetching reals")

	limiter := rate.NewLimiter(rate.Every(s.pagePause), 1)
	var all []models.ExternalReal

	for {
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}

		page, err := s.client.FetchReals(ctx, token, offset, realsPageSize)
		if err != nil {
			logging.Error().Err(err).Int("offset", offset).
				Msg("Reals page fetch failed, keeping pages fetched so far")
			break
		}

		all = append(all, page.Reals...)
		offset += realsPageSize

		if !page.Pagination.HasMore {
			break
		}
	}

	logging.Info().Int("reals", len(all)).Msg("Reals fetched")
	return all, nil
}

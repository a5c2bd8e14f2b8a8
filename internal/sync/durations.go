// Simplex Analytics - Engagement Sync and Analytics Backend
// Copyright 2026 Zion C. (zioncodeliba)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zioncodeliba/simplex-analytics-backend

package sync

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/zioncodeliba/simplex-analytics-backend/internal/logging"
	"github.com/zioncodeliba/simplex-analytics-backend/internal/metrics"
	"github.com/zioncodeliba/simplex-analytics-backend/internal/models"
)

// DurationStore is the store surface the aggregator needs.
type DurationStore interface {
	SlideDurationTotals(ctx context.Context) ([]models.RealDurationTotal, error)
	BulkSetRealDurations(ctx context.Context, totals []models.RealDurationTotal) error
}

// DurationAggregator recomputes each real's total_duration from the
// slide-view stream: first-seen duration per (real, slide) pair, summed
// per real. Reals with no slide views keep their prior value.
type DurationAggregator struct {
	store   DurationStore
	limiter *rate.Limiter
}

// NewDurationAggregator creates an aggregator over the given store.
func NewDurationAggregator(store DurationStore) *DurationAggregator {
	return &DurationAggregator{
		store:   store,
		limiter: rate.NewLimiter(rate.Every(chunkPause), 1),
	}
}

// Run recomputes and writes back every real's duration total in chunks.
func (a *DurationAggregator) Run(ctx context.Context) error {
	totals, err := a.store.SlideDurationTotals(ctx)
	if err != nil {
		return fmt.Errorf("duration aggregation failed: %w", err)
	}
	if len(totals) == 0 {
		logging.Info().Msg("No slide durations to roll up")
		return nil
	}

	for start := 0; start < len(totals); start += chunkSize {
		end := start + chunkSize
		if end > len(totals) {
			end = len(totals)
		}

		if err := a.limiter.Wait(ctx); err != nil {
			return err
		}
		if err := a.store.BulkSetRealDurations(ctx, totals[start:end]); err != nil {
			return fmt.Errorf("duration aggregation failed: %w", err)
		}
	}

	metrics.DurationRollupTotals.Set(float64(len(totals)))
	logging.Info().Int("reals", len(totals)).Msg("Real duration totals recomputed")
	return nil
}

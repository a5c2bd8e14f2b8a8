// Simplex Analytics - Engagement Sync and Analytics Backend
// Copyright 2026 Zion C. (zioncodeliba)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zioncodeliba/simplex-analytics-backend

package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/zioncodeliba/simplex-analytics-backend/internal/models"
)

// BulkWriteEvents applies a batch of event write models against the named
// collection. Unordered, so a duplicate-key failure on one event never
// blocks the rest of the batch.
func (s *Store) BulkWriteEvents(ctx context.Context, collection string, writes []mongo.WriteModel) error {
	if len(writes) == 0 {
		return nil
	}

	opts := options.BulkWrite().SetOrdered(false)
	if _, err := s.db.Collection(collection).BulkWrite(ctx, writes, opts); err != nil {
		return fmt.Errorf("failed to bulk-write events into %s: %w", collection, err)
	}
	return nil
}

// SlideDurationTotals rolls up slide-view durations per real. The first
// grouping stage keeps one duration per (real, slide) pair, so replays of
// the same slide never inflate the total; the second sums those per real.
func (s *Store) SlideDurationTotals(ctx context.Context) ([]models.RealDurationTotal, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"real_id":  bson.M{"$nin": bson.A{nil, ""}},
			"slide_id": bson.M{"$nin": bson.A{nil, ""}},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":      bson.M{"real_id": "$real_id", "slide_id": "$slide_id"},
			"duration": bson.M{"$first": "$duration"},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":            "$_id.real_id",
			"total_duration": bson.M{"$sum": "$duration"},
		}}},
	}

	cursor, err := s.db.Collection(CollSlideViewed).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate slide durations: %w", err)
	}
	defer cursor.Close(ctx)

	var totals []models.RealDurationTotal
	if err := cursor.All(ctx, &totals); err != nil {
		return nil, fmt.Errorf("failed to decode slide duration totals: %w", err)
	}
	return totals, nil
}

// BulkSetRealDurations writes the rolled-up totals back onto the real
// documents. No upsert: a total for a real that is not stored yet is
// dropped rather than creating a stub document.
func (s *Store) BulkSetRealDurations(ctx context.Context, totals []models.RealDurationTotal) error {
	if len(totals) == 0 {
		return nil
	}

	writes := make([]mongo.WriteModel, 0, len(totals))
	for _, t := range totals {
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"realId": t.RealID}).
			SetUpdate(bson.M{"$set": bson.M{"total_duration": t.TotalDuration}}))
	}

	opts := options.BulkWrite().SetOrdered(false)
	if _, err := s.db.Collection(CollReals).BulkWrite(ctx, writes, opts); err != nil {
		return fmt.Errorf("failed to set real duration totals: %w", err)
	}
	return nil
}

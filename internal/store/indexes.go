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

	"github.com/zioncodeliba/simplex-analytics-backend/internal/logging"
)

// EnsureIndexes creates the uniqueness and foreign-key indexes the sync
// engine and read-layer aggregations depend on. CreateMany is idempotent,
// so this runs unconditionally at startup.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	specs := map[string][]mongo.IndexModel{
		CollUsers: {
			{Keys: bson.D{{Key: "userId", Value: 1}}, Options: unique},
		},
		CollProjects: {
			{Keys: bson.D{{Key: "projectId", Value: 1}}, Options: unique},
		},
		CollReals: {
			{Keys: bson.D{{Key: "realId", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "project", Value: 1}}},
		},
		CollUnits: {
			{Keys: bson.D{{Key: "unitId", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "real", Value: 1}}},
			{Keys: bson.D{{Key: "project", Value: 1}}},
		},
		CollPageViews: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "distinct_id", Value: 1}}},
			{Keys: bson.D{{Key: "session_id", Value: 1}}},
			{Keys: bson.D{{Key: "time", Value: -1}}},
		},
		CollPageLeaves: {
			{Keys: bson.D{{Key: "event_id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "project_id", Value: 1}}},
			{Keys: bson.D{{Key: "real_id", Value: 1}}},
			{Keys: bson.D{{Key: "distinct_id", Value: 1}}},
			{Keys: bson.D{{Key: "time", Value: -1}}},
		},
		CollSlideViewed: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "distinct_id", Value: 1}}},
			{Keys: bson.D{{Key: "real_id", Value: 1}}},
			{Keys: bson.D{{Key: "slide_id", Value: 1}}},
		},
		CollSlidePaused: {
			{Keys: bson.D{{Key: "event_id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "real_id", Value: 1}}},
		},
		CollSlideResumed: {
			{Keys: bson.D{{Key: "event_id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "real_id", Value: 1}}},
		},
		CollDrawerInteractions: {
			{Keys: bson.D{{Key: "event_id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "real_id", Value: 1}}},
		},
		CollZoomInteractions: {
			{Keys: bson.D{{Key: "event_id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "real_id", Value: 1}}},
		},
	}

	for coll, indexes := range specs {
		if _, err := s.db.Collection(coll).Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", coll, err)
		}
	}

	logging.Info().Int("collections", len(specs)).Msg("Store indexes ensured")
	return nil
}

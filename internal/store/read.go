// Simplex Analytics - Engagement Sync and Analytics Backend
// Copyright 2026 Zion C. (zioncodeliba)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zioncodeliba/simplex-analytics-backend

package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/zioncodeliba/simplex-analytics-backend/internal/models"
)

// ListReals returns one page of stored reals ordered by external id,
// along with the total count for pagination headers.
func (s *Store) ListReals(ctx context.Context, offset, limit int) ([]models.Real, int64, error) {
	coll := s.db.Collection(CollReals)

	total, err := coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count reals: %w", err)
	}

	cursor, err := coll.Find(ctx, bson.M{}, options.Find().
		SetSort(bson.D{{Key: "realId", Value: 1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit)))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reals: %w", err)
	}
	defer cursor.Close(ctx)

	var reals []models.Real
	if err := cursor.All(ctx, &reals); err != nil {
		return nil, 0, fmt.Errorf("failed to decode reals page: %w", err)
	}
	return reals, total, nil
}

// ListProjects returns every stored project. The project set is small
// (bounded by the tracked account's portfolio), so no pagination.
func (s *Store) ListProjects(ctx context.Context) ([]models.Project, error) {
	cursor, err := s.db.Collection(CollProjects).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "projectId", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer cursor.Close(ctx)

	var projects []models.Project
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, fmt.Errorf("failed to decode projects: %w", err)
	}
	return projects, nil
}

// ProjectEngagement rolls up a single project's reals into a count and a
// summed total duration. Callers fan this out per project.
func (s *Store) ProjectEngagement(ctx context.Context, project *models.Project) (*models.ProjectEngagement, error) {
	engagement := &models.ProjectEngagement{
		ProjectID:   project.ProjectID,
		ProjectName: project.ProjectName,
	}
	if len(project.Reals) == 0 {
		return engagement, nil
	}

	cursor, err := s.db.Collection(CollReals).Find(ctx,
		bson.M{"_id": bson.M{"$in": project.Reals}},
		options.Find().SetProjection(bson.M{"total_duration": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to read project %s reals: %w", project.ProjectID, err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var doc struct {
			TotalDuration float64 `bson:"total_duration"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode project %s real: %w", project.ProjectID, err)
		}
		engagement.RealCount++
		engagement.TotalDuration += doc.TotalDuration
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating project %s reals: %w", project.ProjectID, err)
	}
	return engagement, nil
}

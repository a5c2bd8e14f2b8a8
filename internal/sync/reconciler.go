// Simplex Analytics - Engagement Sync and Analytics Backend
// Copyright 2026 Zion C. (zioncodeliba)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zioncodeliba/simplex-analytics-backend

package sync

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/zioncodeliba/simplex-analytics-backend/internal/logging"
	"github.com/zioncodeliba/simplex-analytics-backend/internal/metrics"
	"github.com/zioncodeliba/simplex-analytics-backend/internal/models"
)

// EntityStore is the store surface the reconciler needs. Implemented by
// *store.Store; mocked in tests.
type EntityStore interface {
	GetUserByUserID(ctx context.Context, userID string) (*models.User, error)
	UpsertUser(ctx context.Context, user *models.ExternalUser, authToken string) (*models.User, error)
	BulkUpsertProjects(ctx context.Context, projects []models.ExternalProject, clientID string) error
	ProjectIDMap(ctx context.Context, externalIDs []string) (map[string]primitive.ObjectID, error)
	LinkUserProjects(ctx context.Context, userID primitive.ObjectID, projectIDs []primitive.ObjectID) error
	ExistingRealIDs(ctx context.Context) (map[string]struct{}, error)
	BulkUpsertReals(ctx context.Context, reals []models.RealUpsert) error
	RealIDMap(ctx context.Context, externalIDs []string) (map[string]primitive.ObjectID, error)
	LinkProjectReals(ctx context.Context, links []models.ProjectRealLink) error
	CountTrackedReals(ctx context.Context, userID string) (int, error)
}

// Reconciler turns fetched external entities into consistent store state.
//
// Steps always run in the order user, projects, user-project linkage,
// reals, project-real linkage; later steps depend on the internal ids
// resolved by earlier ones. Any step error aborts the cycle. All writes
// are idempotent upserts, so the next run repairs a half-finished cycle.
type Reconciler struct {
	store EntityStore
}

// NewReconciler creates a reconciler over the given store.
func NewReconciler(store EntityStore) *Reconciler {
	return &Reconciler{store: store}
}

// SyncUser upserts the tracked account's profile and returns the stored
// document.
func (r *Reconciler) SyncUser(ctx context.Context, user *models.ExternalUser, authToken string) (*models.User, error) {
	saved, err := r.store.UpsertUser(ctx, user, authToken)
	if err != nil {
		return nil, fmt.Errorf("user reconciliation failed: %w", err)
	}
	logging.Info().Str("user_id", saved.UserID).Str("client_id", saved.ClientID).Msg("User synced")
	return saved, nil
}

// SyncProjects upserts the project list, links user and projects in both
// directions and returns the external-to-internal project id map.
func (r *Reconciler) SyncProjects(ctx context.Context, user *models.User, projects []models.ExternalProject) (map[string]primitive.ObjectID, error) {
	if len(projects) == 0 {
		logging.Warn().Msg("No projects returned by client API")
		return map[string]primitive.ObjectID{}, nil
	}

	if err := r.store.BulkUpsertProjects(ctx, projects, user.ClientID); err != nil {
		return nil, fmt.Errorf("project reconciliation failed: %w", err)
	}

	externalIDs := make([]string, 0, len(projects))
	for _, p := range projects {
		externalIDs = append(externalIDs, p.ID)
	}

	projectMap, err := r.store.ProjectIDMap(ctx, externalIDs)
	if err != nil {
		return nil, fmt.Errorf("project reconciliation failed: %w", err)
	}

	internalIDs := make([]primitive.ObjectID, 0, len(projectMap))
	for _, id := range projectMap {
		internalIDs = append(internalIDs, id)
	}
	if err := r.store.LinkUserProjects(ctx, user.ID, internalIDs); err != nil {
		return nil, fmt.Errorf("user-project linkage failed: %w", err)
	}

	logging.Info().Int("projects", len(projectMap)).Msg("Projects synced and linked")
	return projectMap, nil
}

// SyncReals upserts fetched reals and links them to their projects.
//
// Only reals not yet stored are written. A real whose project_id does not
// resolve through the project map is dropped from the batch entirely, so
// no half-linked document is ever persisted. Returns the number of reals
// upserted.
func (r *Reconciler) SyncReals(ctx context.Context, reals []models.ExternalReal, projectMap map[string]primitive.ObjectID, clientID string) (int, error) {
	if len(reals) == 0 {
		return 0, nil
	}

	existing, err := r.store.ExistingRealIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("real reconciliation failed: %w", err)
	}

	var upserts []models.RealUpsert
	for _, real := range reals {
		if _, ok := existing[real.ID]; ok {
			continue
		}
		projectID, ok := projectMap[real.ProjectID]
		if !ok {
			metrics.RealsDropped.Inc()
			logging.Warn().
				Str("real_id", real.ID).
				Str("project_id", real.ProjectID).
				Msg("Dropping real with unresolvable project")
			continue
		}
		upserts = append(upserts, models.RealUpsert{
			Real:     real,
			Project:  projectID,
			ClientID: clientID,
		})
	}

	if len(upserts) == 0 {
		logging.Info().Int("fetched", len(reals)).Msg("No new reals to save")
		return 0, nil
	}

	if err := r.store.BulkUpsertReals(ctx, upserts); err != nil {
		return 0, fmt.Errorf("real reconciliation failed: %w", err)
	}
	metrics.RealsUpserted.Add(float64(len(upserts)))

	externalIDs := make([]string, 0, len(upserts))
	for _, u := range upserts {
		externalIDs = append(externalIDs, u.Real.ID)
	}
	realMap, err := r.store.RealIDMap(ctx, externalIDs)
	if err != nil {
		return 0, fmt.Errorf("real reconciliation failed: %w", err)
	}

	var links []models.ProjectRealLink
	for _, u := range upserts {
		realID, ok := realMap[u.Real.ID]
		if !ok {
			continue
		}
		links = append(links, models.ProjectRealLink{Project: u.Project, Real: realID})
	}
	if err := r.store.LinkProjectReals(ctx, links); err != nil {
		return 0, fmt.Errorf("project-real linkage failed: %w", err)
	}

	logging.Info().
		Int("fetched", len(reals)).
		Int("upserted", len(upserts)).
		Int("linked", len(links)).
		Msg("Reals synced and linked")
	return len(upserts), nil
}

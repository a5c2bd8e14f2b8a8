// Simplex Analytics - Engagement Sync and Analytics Backend
// Copyright 2026 Zion C. (zioncodeliba)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zioncodeliba/simplex-analytics-backend

package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/zioncodeliba/simplex-analytics-backend/internal/models"
)

// ErrUserNotFound is returned when the tracked account has no stored
// document yet (first boot before any login-seeded user exists).
var ErrUserNotFound = errors.New("user not found")

// GetUserByUserID fetches a user by external id.
func (s *Store) GetUserByUserID(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	err := s.db.Collection(CollUsers).FindOne(ctx, bson.M{"userId": userID}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user %s: %w", userID, err)
	}
	return &user, nil
}

// UpsertUser upserts the account document keyed on external user id and
// returns the stored document, including its internal id.
func (s *Store) UpsertUser(ctx context.Context, user *models.ExternalUser, authToken string) (*models.User, error) {
	filter := bson.M{"userId": user.ID}
	update := bson.M{
		"$set": bson.M{
			"userId":           user.ID,
			"name":             user.Name,
			"email":            user.Email,
			"userType":         user.Role,
			"client_id":        user.ClientID,
			"projects_allowed": user.ProjectsAllowed,
			"refreshTokenHash": user.RefreshTokenHash,
			"authToken":        authToken,
		},
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var saved models.User
	if err := s.db.Collection(CollUsers).FindOneAndUpdate(ctx, filter, update, opts).Decode(&saved); err != nil {
		return nil, fmt.Errorf("failed to upsert user %s: %w", user.ID, err)
	}
	return &saved, nil
}

// BulkUpsertProjects upserts projects keyed on external project id, each
// stamped with the owning client id. Unordered so one malformed document
// does not block siblings.
func (s *Store) BulkUpsertProjects(ctx context.Context, projects []models.ExternalProject, clientID string) error {
	if len(projects) == 0 {
		return nil
	}

	writes := make([]mongo.WriteModel, 0, len(projects))
	for _, p := range projects {
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"projectId": p.ID}).
			SetUpdate(bson.M{"$set": bson.M{
				"projectId":   p.ID,
				"projectName": p.Name,
				"client_id":   clientID,
			}}).
			SetUpsert(true))
	}

	opts := options.BulkWrite().SetOrdered(false)
	if _, err := s.db.Collection(CollProjects).BulkWrite(ctx, writes, opts); err != nil {
		return fmt.Errorf("failed to bulk-upsert projects: %w", err)
	}
	return nil
}

// ProjectIDMap resolves external project ids to internal object ids by
// re-reading the upserted set.
func (s *Store) ProjectIDMap(ctx context.Context, externalIDs []string) (map[string]primitive.ObjectID, error) {
	return s.idMap(ctx, CollProjects, "projectId", externalIDs)
}

// RealIDMap resolves external real ids to internal object ids.
func (s *Store) RealIDMap(ctx context.Context, externalIDs []string) (map[string]primitive.ObjectID, error) {
	return s.idMap(ctx, CollReals, "realId", externalIDs)
}

// idMap builds an external-id -> internal-id map over a collection.
func (s *Store) idMap(ctx context.Context, coll, keyField string, externalIDs []string) (map[string]primitive.ObjectID, error) {
	if len(externalIDs) == 0 {
		return map[string]primitive.ObjectID{}, nil
	}

	cursor, err := s.db.Collection(coll).Find(ctx,
		bson.M{keyField: bson.M{"$in": externalIDs}},
		options.Find().SetProjection(bson.M{"_id": 1, keyField: 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s id map: %w", coll, err)
	}
	defer cursor.Close(ctx)

	idMap := make(map[string]primitive.ObjectID, len(externalIDs))
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode %s id map row: %w", coll, err)
		}
		key, _ := doc[keyField].(string)
		id, ok := doc["_id"].(primitive.ObjectID)
		if key == "" || !ok {
			continue
		}
		idMap[key] = id
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating %s id map: %w", coll, err)
	}
	return idMap, nil
}

// LinkUserProjects applies the user<->project linkage in both directions
// via set-union updates, so repeated syncs never duplicate references.
func (s *Store) LinkUserProjects(ctx context.Context, userID primitive.ObjectID, projectIDs []primitive.ObjectID) error {
	if len(projectIDs) == 0 {
		return nil
	}

	_, err := s.db.Collection(CollUsers).UpdateByID(ctx, userID,
		bson.M{"$addToSet": bson.M{"projects": bson.M{"$each": projectIDs}}})
	if err != nil {
		return fmt.Errorf("failed to link projects to user: %w", err)
	}

	_, err = s.db.Collection(CollProjects).UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": projectIDs}},
		bson.M{"$addToSet": bson.M{"users": userID}})
	if err != nil {
		return fmt.Errorf("failed to link user to projects: %w", err)
	}
	return nil
}

// ExistingRealIDs returns the set of external real ids already stored.
func (s *Store) ExistingRealIDs(ctx context.Context) (map[string]struct{}, error) {
	cursor, err := s.db.Collection(CollReals).Find(ctx, bson.M{},
		options.Find().SetProjection(bson.M{"realId": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to list existing reals: %w", err)
	}
	defer cursor.Close(ctx)

	ids := make(map[string]struct{})
	for cursor.Next(ctx) {
		var doc struct {
			RealID string `bson:"realId"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode real id: %w", err)
		}
		if doc.RealID != "" {
			ids[doc.RealID] = struct{}{}
		}
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating real ids: %w", err)
	}
	return ids, nil
}

// BulkUpsertReals upserts reals keyed on external real id. Every entry has
// a resolved project reference; orphans never reach the store.
func (s *Store) BulkUpsertReals(ctx context.Context, reals []models.RealUpsert) error {
	if len(reals) == 0 {
		return nil
	}

	writes := make([]mongo.WriteModel, 0, len(reals))
	for _, r := range reals {
		set := bson.M{
			"realId":    r.Real.ID,
			"realName":  r.Real.IntroScreenText,
			"client_id": r.ClientID,
		}
		if len(r.Real.Raw) > 0 {
			var raw bson.M
			if err := bson.UnmarshalExtJSON(r.Real.Raw, true, &raw); err == nil {
				set["raw"] = raw
			}
		}
		update := bson.M{
			"$set":      set,
			"$addToSet": bson.M{"project": r.Project},
		}

		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"realId": r.Real.ID}).
			SetUpdate(update).
			SetUpsert(true))
	}

	opts := options.BulkWrite().SetOrdered(false)
	if _, err := s.db.Collection(CollReals).BulkWrite(ctx, writes, opts); err != nil {
		return fmt.Errorf("failed to bulk-upsert reals: %w", err)
	}
	return nil
}

// LinkProjectReals adds each real's internal id into its project's real
// set. Reals already carry the project reference from upsert.
func (s *Store) LinkProjectReals(ctx context.Context, links []models.ProjectRealLink) error {
	if len(links) == 0 {
		return nil
	}

	writes := make([]mongo.WriteModel, 0, len(links))
	for _, l := range links {
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": l.Project}).
			SetUpdate(bson.M{"$addToSet": bson.M{"reals": l.Real}}))
	}

	opts := options.BulkWrite().SetOrdered(false)
	if _, err := s.db.Collection(CollProjects).BulkWrite(ctx, writes, opts); err != nil {
		return fmt.Errorf("failed to link reals to projects: %w", err)
	}
	return nil
}

// CountTrackedReals sums the real-set sizes of the tracked account's
// projects. The entity sync uses this count as its incremental offset.
func (s *Store) CountTrackedReals(ctx context.Context, userID string) (int, error) {
	user, err := s.GetUserByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return 0, nil
		}
		return 0, err
	}
	if len(user.Projects) == 0 {
		return 0, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": bson.M{"$in": user.Projects}}}},
		{{Key: "$group", Value: bson.M{
			"_id": nil,
			"totalReals": bson.M{"$sum": bson.M{
				"$size": bson.M{"$ifNull": bson.A{"$reals", bson.A{}}},
			}},
		}}},
	}

	cursor, err := s.db.Collection(CollProjects).Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("failed to count tracked reals: %w", err)
	}
	defer cursor.Close(ctx)

	var result struct {
		TotalReals int `bson:"totalReals"`
	}
	if cursor.Next(ctx) {
		if err := cursor.Decode(&result); err != nil {
			return 0, fmt.Errorf("failed to decode reals count: %w", err)
		}
	}
	if err := cursor.Err(); err != nil {
		return 0, fmt.Errorf("failed iterating reals count: %w", err)
	}
	return result.TotalReals, nil
}

// Simplex Analytics - Engagement Sync and Analytics Backend
// Copyright 2026 Zion C. (zioncodeliba)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zioncodeliba/simplex-analytics-backend

package sync

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/zioncodeliba/simplex-analytics-backend/internal/models"
)

// mockEntityStore implements EntityStore with overridable function fields.
// Unset fields behave as successful no-ops.
type mockEntityStore struct {
	getUserFn            func(ctx context.Context, userID string) (*models.User, error)
	upsertUserFn         func(ctx context.Context, user *models.ExternalUser, authToken string) (*models.User, error)
	bulkUpsertProjectsFn func(ctx context.Context, projects []models.ExternalProject, clientID string) error
	projectIDMapFn       func(ctx context.Context, externalIDs []string) (map[string]primitive.ObjectID, error)
	linkUserProjectsFn   func(ctx context.Context, userID primitive.ObjectID, projectIDs []primitive.ObjectID) error
	existingRealIDsFn    func(ctx context.Context) (map[string]struct{}, error)
	bulkUpsertRealsFn    func(ctx context.Context, reals []models.RealUpsert) error
	realIDMapFn          func(ctx context.Context, externalIDs []string) (map[string]primitive.ObjectID, error)
	linkProjectRealsFn   func(ctx context.Context, links []models.ProjectRealLink) error
	countTrackedRealsFn  func(ctx context.Context, userID string) (int, error)
}

func (m *mockEntityStore) GetUserByUserID(ctx context.Context, userID string) (*models.User, error) {
	if m.getUserFn != nil {
		return m.getUserFn(ctx, userID)
	}
	return &models.User{UserID: userID, AuthToken: "token"}, nil
}

func (m *mockEntityStore) UpsertUser(ctx context.Context, user *models.ExternalUser, authToken string) (*models.User, error) {
	if m.upsertUserFn != nil {
		return m.upsertUserFn(ctx, user, authToken)
	}
	return &models.User{
		ID:        primitive.NewObjectID(),
		UserID:    user.ID,
		ClientID:  user.ClientID,
		AuthToken: authToken,
	}, nil
}

func (m *mockEntityStore) BulkUpsertProjects(ctx context.Context, projects []models.ExternalProject, clientID string) error {
	if m.bulkUpsertProjectsFn != nil {
		return m.bulkUpsertProjectsFn(ctx, projects, clientID)
	}
	return nil
}

func (m *mockEntityStore) ProjectIDMap(ctx context.Context, externalIDs []string) (map[string]primitive.ObjectID, error) {
	if m.projectIDMapFn != nil {
		return m.projectIDMapFn(ctx, externalIDs)
	}
	idMap := make(map[string]primitive.ObjectID, len(externalIDs))
	for _, id := range externalIDs {
		idMap[id] = primitive.NewObjectID()
	}
	return idMap, nil
}

func (m *mockEntityStore) LinkUserProjects(ctx context.Context, userID primitive.ObjectID, projectIDs []primitive.ObjectID) error {
	if m.linkUserProjectsFn != nil {
		return m.linkUserProjectsFn(ctx, userID, projectIDs)
	}
	return nil
}

func (m *mockEntityStore) ExistingRealIDs(ctx context.Context) (map[string]struct{}, error) {
	if m.existingRealIDsFn != nil {
		return m.existingRealIDsFn(ctx)
	}
	return map[string]struct{}{}, nil
}

func (m *mockEntityStore) BulkUpsertReals(ctx context.Context, reals []models.RealUpsert) error {
	if m.bulkUpsertRealsFn != nil {
		return m.bulkUpsertRealsFn(ctx, reals)
	}
	return nil
}

func (m *mockEntityStore) RealIDMap(ctx context.Context, externalIDs []string) (map[string]primitive.ObjectID, error) {
	if m.realIDMapFn != nil {
		return m.realIDMapFn(ctx, externalIDs)
	}
	idMap := make(map[string]primitive.ObjectID, len(externalIDs))
	for _, id := range externalIDs {
		idMap[id] = primitive.NewObjectID()
	}
	return idMap, nil
}

func (m *mockEntityStore) LinkProjectReals(ctx context.Context, links []models.ProjectRealLink) error {
	if m.linkProjectRealsFn != nil {
		return m.linkProjectRealsFn(ctx, links)
	}
	return nil
}

func (m *mockEntityStore) CountTrackedReals(ctx context.Context, userID string) (int, error) {
	if m.countTrackedRealsFn != nil {
		return m.countTrackedRealsFn(ctx, userID)
	}
	return 0, nil
}

// mockEventStore records every bulk write it receives.
type mockEventStore struct {
	writeFn func(ctx context.Context, collection string, writes []mongo.WriteModel) error

	calls []bulkWriteCall
}

type bulkWriteCall struct {
	collection string
	size       int
}

func (m *mockEventStore) BulkWriteEvents(ctx context.Context, collection string, writes []mongo.WriteModel) error {
	m.calls = append(m.calls, bulkWriteCall{collection: collection, size: len(writes)})
	if m.writeFn != nil {
		return m.writeFn(ctx, collection, writes)
	}
	return nil
}

// mockDurationStore implements DurationStore.
type mockDurationStore struct {
	totals       []models.RealDurationTotal
	totalsErr    error
	totalsCalls  int
	setCallSizes []int
	setErr       error
}

func (m *mockDurationStore) SlideDurationTotals(ctx context.Context) ([]models.RealDurationTotal, error) {
	m.totalsCalls++
	return m.totals, m.totalsErr
}

func (m *mockDurationStore) BulkSetRealDurations(ctx context.Context, totals []models.RealDurationTotal) error {
	m.setCallSizes = append(m.setCallSizes, len(totals))
	return m.setErr
}

// mockClientAPI implements ClientAPIInterface.
type mockClientAPI struct {
	userFn     func(ctx context.Context, token string) (*models.ExternalUser, error)
	projectsFn func(ctx context.Context, token string) ([]models.ExternalProject, error)
	realsFn    func(ctx context.Context, token string, offset, limit int) (*models.RealsPage, error)

	realsCalls []int // offsets, in call order
	userCalls  int
}

func (m *mockClientAPI) FetchAuthenticatedUser(ctx context.Context, token string) (*models.ExternalUser, error) {
	m.userCalls++
	if m.userFn != nil {
		return m.userFn(ctx, token)
	}
	return &models.ExternalUser{ID: "user-1", ClientID: "client-1"}, nil
}

func (m *mockClientAPI) FetchProjects(ctx context.Context, token string) ([]models.ExternalProject, error) {
	if m.projectsFn != nil {
		return m.projectsFn(ctx, token)
	}
	return []models.ExternalProject{{ID: "p1", Name: "Project One"}}, nil
}

func (m *mockClientAPI) FetchReals(ctx context.Context, token string, offset, limit int) (*models.RealsPage, error) {
	m.realsCalls = append(m.realsCalls, offset)
	if m.realsFn != nil {
		return m.realsFn(ctx, token, offset, limit)
	}
	return &models.RealsPage{}, nil
}

// mockAnalyticsAPI implements AnalyticsAPIInterface with scripted pages
// keyed by event type.
type mockAnalyticsAPI struct {
	pages   map[string][]EventsPage
	failFor map[string]error
	afters  map[string]time.Time
	fetchFn func(ctx context.Context, pageURL string) (*EventsPage, error)

	fetchCalls map[string]int
}

func newMockAnalyticsAPI() *mockAnalyticsAPI {
	return &mockAnalyticsAPI{
		pages:      map[string][]EventsPage{},
		failFor:    map[string]error{},
		afters:     map[string]time.Time{},
		fetchCalls: map[string]int{},
	}
}

func (m *mockAnalyticsAPI) EventsURL(eventType string, after time.Time) string {
	m.afters[eventType] = after
	return "mock://" + eventType
}

func (m *mockAnalyticsAPI) FetchEventsPage(ctx context.Context, pageURL string) (*EventsPage, error) {
	if m.fetchFn != nil {
		return m.fetchFn(ctx, pageURL)
	}

	eventType := pageURL[len("mock://"):]
	if err, ok := m.failFor[eventType]; ok {
		return nil, err
	}

	idx := m.fetchCalls[eventType]
	m.fetchCalls[eventType]++

	queue := m.pages[eventType]
	if idx >= len(queue) {
		return &EventsPage{}, nil
	}
	page := queue[idx]
	if idx < len(queue)-1 {
		page.NextURL = pageURL
	}
	return &page, nil
}

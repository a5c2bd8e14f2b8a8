// Simplex Analytics - Engagement Sync and Analytics Backend
// Copyright 2026 Zion C. (zioncodeliba)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zioncodeliba/simplex-analytics-backend

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/zioncodeliba/simplex-analytics-backend/internal/config"
	"github.com/zioncodeliba/simplex-analytics-backend/internal/models"
	syncengine "github.com/zioncodeliba/simplex-analytics-backend/internal/sync"
)

type mockReadStore struct {
	pingErr      error
	reals        []models.Real
	realsTotal   int64
	realsErr     error
	projects     []models.Project
	engagementFn func(ctx context.Context, project *models.Project) (*models.ProjectEngagement, error)
}

func (m *mockReadStore) Ping(ctx context.Context) error { return m.pingErr }

func (m *mockReadStore) ListReals(ctx context.Context, offset, limit int) ([]models.Real, int64, error) {
	if m.realsErr != nil {
		return nil, 0, m.realsErr
	}
	return m.reals, m.realsTotal, nil
}

func (m *mockReadStore) ListProjects(ctx context.Context) ([]models.Project, error) {
	return m.projects, nil
}

func (m *mockReadStore) ProjectEngagement(ctx context.Context, project *models.Project) (*models.ProjectEngagement, error) {
	if m.engagementFn != nil {
		return m.engagementFn(ctx, project)
	}
	return &models.ProjectEngagement{ProjectID: project.ProjectID, ProjectName: project.ProjectName}, nil
}

type mockController struct {
	statuses  []syncengine.RunStatus
	triggered []string
}

func (m *mockController) Status() []syncengine.RunStatus { return m.statuses }
func (m *mockController) TriggerEntitySync(mode string)  { m.triggered = append(m.triggered, mode) }

func testConfig() *config.APIConfig {
	return &config.APIConfig{
		DefaultPageSize: 20,
		MaxPageSize:     100,
		RateLimitReqs:   1000,
		RateLimitWindow: time.Minute,
		CORSOrigins:     []string{"*"},
	}
}

func serve(t *testing.T, store ReadStore, controller SyncController, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	router := NewRouter(testConfig(), store, controller)
	rec := httptest.NewRecorder()
	router.Setup().ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestHealth(t *testing.T) {
	rec := serve(t, &mockReadStore{}, &mockController{}, http.MethodGet, "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = serve(t, &mockReadStore{pingErr: errors.New("down")}, &mockController{}, http.MethodGet, "/health")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when store is unreachable, got %d", rec.Code)
	}
}

func TestSyncStatus(t *testing.T) {
	controller := &mockController{statuses: []syncengine.RunStatus{
		{Job: "entity_sync", Runs: 3},
		{Job: "event_sync", Running: true},
	}}

	rec := serve(t, &mockReadStore{}, controller, http.MethodGet, "/api/v1/sync/status")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Jobs []syncengine.RunStatus `json:"jobs"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(body.Jobs) != 2 || body.Jobs[0].Runs != 3 {
		t.Errorf("unexpected status payload: %+v", body.Jobs)
	}
}

func TestTriggerSync(t *testing.T) {
	controller := &mockController{}

	rec := serve(t, &mockReadStore{}, controller, http.MethodPost, "/api/v1/sync/trigger")
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	if len(controller.triggered) != 1 || controller.triggered[0] != syncengine.ModeIncremental {
		t.Errorf("expected incremental trigger by default, got %v", controller.triggered)
	}

	rec = serve(t, &mockReadStore{}, controller, http.MethodPost, "/api/v1/sync/trigger?mode=full")
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	if controller.triggered[len(controller.triggered)-1] != syncengine.ModeFull {
		t.Errorf("expected full trigger, got %v", controller.triggered)
	}

	rec = serve(t, &mockReadStore{}, controller, http.MethodPost, "/api/v1/sync/trigger?mode=bogus")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown mode, got %d", rec.Code)
	}
}

func TestListRealsPagination(t *testing.T) {
	store := &mockReadStore{
		reals:      []models.Real{{RealID: "r1"}, {RealID: "r2"}},
		realsTotal: 50,
	}

	rec := serve(t, store, &mockController{}, http.MethodGet, "/api/v1/reals?offset=10&limit=500")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Reals      []models.Real `json:"reals"`
		Pagination struct {
			Total   int64 `json:"total"`
			Offset  int   `json:"offset"`
			Limit   int   `json:"limit"`
			HasMore bool  `json:"hasMore"`
		} `json:"pagination"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Pagination.Limit != 100 {
		t.Errorf("expected limit clamped to 100, got %d", body.Pagination.Limit)
	}
	if body.Pagination.Offset != 10 || body.Pagination.Total != 50 {
		t.Errorf("unexpected pagination: %+v", body.Pagination)
	}
	if !body.Pagination.HasMore {
		t.Error("expected hasMore=true")
	}
}

func TestProjectEngagements(t *testing.T) {
	store := &mockReadStore{
		projects: []models.Project{
			{ProjectID: "p1", ProjectName: "One"},
			{ProjectID: "p2", ProjectName: "Two"},
		},
		engagementFn: func(ctx context.Context, project *models.Project) (*models.ProjectEngagement, error) {
			return &models.ProjectEngagement{
				ProjectID:     project.ProjectID,
				ProjectName:   project.ProjectName,
				RealCount:     2,
				TotalDuration: 15,
			}, nil
		},
	}

	rec := serve(t, store, &mockController{}, http.MethodGet, "/api/v1/projects/engagement")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body struct {
		Projects []models.ProjectEngagement `json:"projects"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(body.Projects) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(body.Projects))
	}
	if body.Projects[0].ProjectID != "p1" || body.Projects[1].ProjectID != "p2" {
		t.Errorf("expected order preserved across the fan-out, got %+v", body.Projects)
	}
	if body.Projects[0].TotalDuration != 15 {
		t.Errorf("expected total duration 15, got %v", body.Projects[0].TotalDuration)
	}
}

func TestProjectEngagementsPropagatesFailure(t *testing.T) {
	store := &mockReadStore{
		projects: []models.Project{{ProjectID: "p1"}},
		engagementFn: func(ctx context.Context, project *models.Project) (*models.ProjectEngagement, error) {
			return nil, errors.New("aggregation failed")
		},
	}

	rec := serve(t, store, &mockController{}, http.MethodGet, "/api/v1/projects/engagement")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

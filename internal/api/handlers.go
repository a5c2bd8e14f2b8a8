// Simplex Analytics - Engagement Sync and Analytics Backend
// Copyright 2026 Zion C. (zioncodeliba)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zioncodeliba/simplex-analytics-backend

package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/zioncodeliba/simplex-analytics-backend/internal/config"
	"github.com/zioncodeliba/simplex-analytics-backend/internal/logging"
	"github.com/zioncodeliba/simplex-analytics-backend/internal/models"
	syncengine "github.com/zioncodeliba/simplex-analytics-backend/internal/sync"
)

// engagementConcurrency bounds the per-project fan-out of the
// engagement rollup.
const engagementConcurrency = 8

// ReadStore is the store surface the read layer consumes.
type ReadStore interface {
	Ping(ctx context.Context) error
	ListReals(ctx context.Context, offset, limit int) ([]models.Real, int64, error)
	ListProjects(ctx context.Context) ([]models.Project, error)
	ProjectEngagement(ctx context.Context, project *models.Project) (*models.ProjectEngagement, error)
}

// Handler serves the read-side endpoints.
type Handler struct {
	cfg        *config.APIConfig
	store      ReadStore
	controller SyncController
}

// NewHandler creates the handler set.
func NewHandler(cfg *config.APIConfig, store ReadStore, controller SyncController) *Handler {
	return &Handler{cfg: cfg, store: store, controller: controller}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// Health reports process and store liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		logging.Error().Err(err).Msg("Health check failed")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unhealthy",
			"store":  "unreachable",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// SyncStatus returns both orchestrators' run history snapshots.
func (h *Handler) SyncStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"jobs": h.controller.Status()})
}

// TriggerSync kicks off an out-of-schedule entity sync. The run obeys
// the same single-flight lock as scheduled ticks, so a trigger during a
// running sync is a recorded skip, not an error.
func (h *Handler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("mode")
	switch mode {
	case "":
		mode = syncengine.ModeIncremental
	case syncengine.ModeIncremental, syncengine.ModeFull:
	default:
		writeError(w, http.StatusBadRequest, "mode must be incremental or full")
		return
	}

	h.controller.TriggerEntitySync(mode)
	writeJSON(w, http.StatusAccepted, map[string]string{"triggered": mode})
}

// pagination reads offset/limit query params with the configured bounds.
func (h *Handler) pagination(r *http.Request) (offset, limit int) {
	limit = h.cfg.DefaultPageSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > h.cfg.MaxPageSize {
		limit = h.cfg.MaxPageSize
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			offset = v
		}
	}
	return offset, limit
}

// ListReals returns one page of synced reals.
func (h *Handler) ListReals(w http.ResponseWriter, r *http.Request) {
	offset, limit := h.pagination(r)

	reals, total, err := h.store.ListReals(r.Context(), offset, limit)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to list reals")
		writeError(w, http.StatusInternalServerError, "failed to list reals")
		return
	}
	if reals == nil {
		reals = []models.Real{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"reals": reals,
		"pagination": map[string]any{
			"total":   total,
			"offset":  offset,
			"limit":   limit,
			"hasMore": int64(offset+len(reals)) < total,
		},
	})
}

// ProjectEngagements returns the per-project engagement rollup. The
// per-project aggregations fan out concurrently and await all.
func (h *Handler) ProjectEngagements(w http.ResponseWriter, r *http.Request) {
	projects, err := h.store.ListProjects(r.Context())
	if err != nil {
		logging.Error().Err(err).Msg("Failed to list projects")
		writeError(w, http.StatusInternalServerError, "failed to list projects")
		return
	}

	engagements := make([]*models.ProjectEngagement, len(projects))
	g, ctx := errgroup.WithContext(r.Context())
	g.SetLimit(engagementConcurrency)
	for i := range projects {
		g.Go(func() error {
			engagement, err := h.store.ProjectEngagement(ctx, &projects[i])
			if err != nil {
				return err
			}
			engagements[i] = engagement
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logging.Error().Err(err).Msg("Failed to compute project engagement")
		writeError(w, http.StatusInternalServerError, "failed to compute project engagement")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"projects": engagements})
}

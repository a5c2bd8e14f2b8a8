// Simplex Analytics - Engagement Sync and Analytics Backend
// Copyright 2026 Zion C. (zioncodeliba)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zioncodeliba/simplex-analytics-backend

// Package api exposes the read-side HTTP surface: health, sync status
// and trigger, and thin dashboard reads over the synced collections.
// The read layer never surfaces sync errors; it reflects whatever is in
// the store, stale or not.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zioncodeliba/simplex-analytics-backend/internal/config"
	syncengine "github.com/zioncodeliba/simplex-analytics-backend/internal/sync"
)

// SyncController is the sync-engine surface the API consumes: run
// status plus a manual entity-sync trigger.
type SyncController interface {
	Status() []syncengine.RunStatus
	TriggerEntitySync(mode string)
}

// Router wires handlers and middleware into the chi mux.
type Router struct {
	cfg     *config.APIConfig
	handler *Handler
}

// NewRouter creates the API router.
func NewRouter(cfg *config.APIConfig, store ReadStore, controller SyncController) *Router {
	return &Router{
		cfg:     cfg,
		handler: NewHandler(cfg, store, controller),
	}
}

// Setup builds the HTTP handler tree.
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: rt.cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Authorization"},
		MaxAge:         300,
	}))

	r.Get("/health", rt.handler.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(httprate.LimitByIP(rt.cfg.RateLimitReqs, rt.cfg.RateLimitWindow))
		r.Use(prometheusMetrics)

		r.Get("/sync/status", rt.handler.SyncStatus)
		r.Post("/sync/trigger", rt.handler.TriggerSync)

		r.Get("/reals", rt.handler.ListReals)
		r.Get("/projects/engagement", rt.handler.ProjectEngagements)
	})

	return r
}

// Simplex Analytics - Engagement Sync and Analytics Backend
// Copyright 2026 Zion C. (zioncodeliba)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zioncodeliba/simplex-analytics-backend

// Package main is the entry point for the Simplex analytics backend.
//
// The backend continuously mirrors engagement data into MongoDB from two
// upstream sources: the client product API (users, projects, reals) and
// the analytics capture API (interaction events). A duration rollup
// aggregates per-slide view times onto reals, and a small read-side HTTP
// API exposes the mirrored data.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: environment variables and optional YAML file (Koanf v2)
//  2. MongoDB: connection, ping, index creation
//  3. Event registry: routing table from event type to collection + mapper,
//     validated against the full event type list before anything runs
//  4. Sync engine: entity syncer and event syncer sharing a single-flight
//     coordinator so only one sync touches the store at a time
//  5. Supervisor tree: both syncers and the HTTP server under suture
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins): environment variables, config.yaml, built-in defaults.
// Required settings:
//   - MONGO_URL: MongoDB connection string
//   - CLIENT_API_BASE_URL: product API root
//   - ANALYTICS_BASE_URL, ANALYTICS_API_KEY: event capture API
//   - SYNC_TARGET_USER_ID: tracked account driving the entity sync
//
// # Signal Handling
//
// The server shuts down gracefully on SIGINT and SIGTERM: the supervisor
// tree stops all services, the HTTP server drains in-flight requests, and
// the MongoDB client disconnects.
package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/zioncodeliba/simplex-analytics-backend/internal/api"
	"github.com/zioncodeliba/simplex-analytics-backend/internal/config"
	"github.com/zioncodeliba/simplex-analytics-backend/internal/logging"
	"github.com/zioncodeliba/simplex-analytics-backend/internal/models"
	"github.com/zioncodeliba/simplex-analytics-backend/internal/store"
	"github.com/zioncodeliba/simplex-analytics-backend/internal/supervisor"
	syncengine "github.com/zioncodeliba/simplex-analytics-backend/internal/sync"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	logging.Info().
		Str("mongo_database", cfg.Mongo.Database).
		Str("client_api", cfg.ClientAPI.BaseURL).
		Str("analytics_api", cfg.Analytics.BaseURL).
		Msg("Starting Simplex analytics backend")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := store.Connect(ctx, &cfg.Mongo)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			logging.Error().Err(err).Msg("Error closing MongoDB client")
		}
	}()

	indexCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	err = st.EnsureIndexes(indexCtx)
	cancel()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create indexes")
	}
	logging.Info().Msg("MongoDB initialized successfully")

	// Fail fast on an incomplete routing table rather than silently
	// dropping an event type at runtime.
	registry := syncengine.NewRegistry()
	if err := registry.Validate(models.EventTypes); err != nil {
		logging.Fatal().Err(err).Msg("Event routing table is incomplete")
	}

	clientAPI, err := syncengine.NewClientAPI(cfg.ClientAPI.BaseURL)
	if err != nil {
		logging.Fatal().Err(err).Msg("Invalid client API base URL")
	}
	analyticsAPI, err := syncengine.NewAnalyticsAPI(cfg.Analytics.BaseURL, cfg.Analytics.APIKey)
	if err != nil {
		logging.Fatal().Err(err).Msg("Invalid analytics API base URL")
	}

	coordinator := syncengine.NewCoordinator()
	entitySyncer := syncengine.NewEntitySyncer(clientAPI, st, coordinator, cfg.Sync.TargetUserID)
	eventRouter := syncengine.NewRouter(registry, st)
	aggregator := syncengine.NewDurationAggregator(st)
	eventSyncer := syncengine.NewEventSyncer(analyticsAPI, eventRouter, aggregator, coordinator)

	controller := syncengine.NewController(ctx, coordinator, entitySyncer)
	apiRouter := api.NewRouter(&cfg.API, st, controller)
	httpServer := api.NewServer(&cfg.Server, apiRouter.Setup())

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddSyncService(entitySyncer)
	tree.AddSyncService(eventSyncer)
	tree.AddAPIService(httpServer)

	logging.Info().Msg("Supervisor tree starting")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Fatal().Err(err).Msg("Supervisor tree failed")
	}
	logging.Info().Msg("Shutdown complete")
}

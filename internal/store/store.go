// Simplex Analytics - Engagement Sync and Analytics Backend
// Copyright 2026 Zion C. (zioncodeliba)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zioncodeliba/simplex-analytics-backend

// Package store wraps the MongoDB collections backing the sync engine and
// the read layer.
//
// The store exposes idempotent upserts, unordered bulk writes and
// aggregation pipelines; it holds no sync policy. Consistency across
// collections relies on idempotent upserts plus the single-flight sync
// lock, not on transactions.
package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/zioncodeliba/simplex-analytics-backend/internal/config"
	"github.com/zioncodeliba/simplex-analytics-backend/internal/logging"
)

// Collection names. The event collection names follow the original
// deployment's mongoose model names, so an existing database keeps working.
const (
	CollUsers    = "users"
	CollProjects = "projects"
	CollReals    = "reals"
	CollUnits    = "units"

	CollPageViews          = "pageviewevents"
	CollPageLeaves         = "pageleaveevents"
	CollSlideViewed        = "sliderviewed"
	CollSlidePaused        = "slidepausedevents"
	CollSlideResumed       = "slideresumedevents"
	CollDrawerInteractions = "drawerinteractionevents"
	CollZoomInteractions   = "zoominteractionevents"
)

// Store is the MongoDB-backed document store.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect establishes the MongoDB connection and pings the deployment.
func Connect(ctx context.Context, cfg *config.MongoConfig) (*Store, error) {
	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URL))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	logging.Info().Str("database", cfg.Database).Msg("Connected to MongoDB")

	return &Store{
		client: client,
		db:     client.Database(cfg.Database),
	}, nil
}

// NewWithDatabase wraps an existing database handle. Used by tests.
func NewWithDatabase(db *mongo.Database) *Store {
	return &Store{client: db.Client(), db: db}
}

// Close disconnects from MongoDB with a bounded timeout.
func (s *Store) Close(ctx context.Context) error {
	closeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.client.Disconnect(closeCtx); err != nil {
		return fmt.Errorf("failed to disconnect from MongoDB: %w", err)
	}
	return nil
}

// Ping verifies store connectivity; used by the health endpoint.
func (s *Store) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.client.Ping(pingCtx, readpref.Primary())
}

// Collection returns a raw collection handle by name.
func (s *Store) Collection(name string) *mongo.Collection {
	return s.db.Collection(name)
}

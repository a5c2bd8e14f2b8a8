// Simplex Analytics - Engagement Sync and Analytics Backend
// Copyright 2026 Zion C. (zioncodeliba)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zioncodeliba/simplex-analytics-backend

// Package testinfra provides container-backed infrastructure for
// integration tests.
//
// The MongoContainer runs a real MongoDB instance via testcontainers-go,
// so store behavior that lives in aggregation pipelines (grouping,
// $first dedupe, $nin guards) is exercised against an actual server
// rather than interface fakes.
//
//	func TestPipeline(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    mongo, err := testinfra.NewMongoContainer(ctx)
//	    ...
//	}
//
// Tests using this package carry the integration build tag:
//
//	go test -tags integration ./internal/store/...
//
// Docker is required; tests skip gracefully when it is unavailable.
package testinfra

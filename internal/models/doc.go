// Simplex Analytics - Engagement Sync and Analytics Backend
// Copyright 2026 Zion C. (zioncodeliba)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zioncodeliba/simplex-analytics-backend

// Package models defines the store-resident documents (users, projects,
// reals, units and the per-event-type collections) and the wire DTOs of the
// two upstream APIs the sync engine consumes.
//
// Documents carry bson tags matching the collections' historical field
// names; external DTOs carry json tags matching the upstream payloads.
package models

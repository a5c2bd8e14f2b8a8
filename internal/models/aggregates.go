// Simplex Analytics - Engagement Sync and Analytics Backend
// Copyright 2026 Zion C. (zioncodeliba)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zioncodeliba/simplex-analytics-backend

package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// RealUpsert is a real ready for persistence: its external payload plus the
// resolved internal project reference and owning client. The reconciler
// only produces these for reals whose project mapping resolved.
type RealUpsert struct {
	Real     ExternalReal
	Project  primitive.ObjectID
	ClientID string
}

// ProjectRealLink is one bidirectional project<->real linkage to apply via
// set-union updates.
type ProjectRealLink struct {
	Project primitive.ObjectID
	Real    primitive.ObjectID
}

// RealDurationTotal is one row of the duration rollup: the summed
// first-seen slide durations for a real.
type RealDurationTotal struct {
	RealID        string  `bson:"_id"`
	TotalDuration float64 `bson:"total_duration"`
}

// ProjectEngagement is the read layer's per-project rollup.
type ProjectEngagement struct {
	ProjectID     string  `json:"project_id"`
	ProjectName   string  `json:"project_name"`
	RealCount     int     `json:"real_count"`
	TotalDuration float64 `json:"total_duration"`
}

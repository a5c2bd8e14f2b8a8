// Simplex Analytics - Engagement Sync and Analytics Backend
// Copyright 2026 Zion C. (zioncodeliba)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zioncodeliba/simplex-analytics-backend

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a synced account document. Upserted keyed on the external
// userId; never deleted by the sync engine.
type User struct {
	ID               primitive.ObjectID   `bson:"_id,omitempty"`
	UserID           string               `bson:"userId"`
	Email            string               `bson:"email,omitempty"`
	Name             string               `bson:"name,omitempty"`
	UserType         string               `bson:"userType,omitempty"`
	ClientID         string               `bson:"client_id,omitempty"`
	RefreshTokenHash string               `bson:"refreshTokenHash,omitempty"`
	AuthToken        string               `bson:"authToken,omitempty"`
	ProjectsAllowed  []string             `bson:"projects_allowed,omitempty"`
	Projects         []primitive.ObjectID `bson:"projects,omitempty"`
	CreatedAt        time.Time            `bson:"createdAt,omitempty"`
	UpdatedAt        time.Time            `bson:"updatedAt,omitempty"`
}

// Project is a synced project document. Upserted keyed on the external
// projectId; user and real reference sets grow via $addToSet only.
type Project struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty"`
	ProjectID   string               `bson:"projectId"`
	ProjectName string               `bson:"projectName,omitempty"`
	ClientID    string               `bson:"client_id,omitempty"`
	Status      string               `bson:"status,omitempty"`
	Users       []primitive.ObjectID `bson:"users,omitempty"`
	Reals       []primitive.ObjectID `bson:"reals,omitempty"`
	CreatedAt   time.Time            `bson:"createdAt,omitempty"`
	UpdatedAt   time.Time            `bson:"updatedAt,omitempty"`
}

// Real is a trackable content session target composed of ordered slides.
//
// TotalDuration is derived by the duration aggregator (first-seen duration
// per (real, slide) pair, summed per real) and must never be set manually.
// Raw retains the upstream payload verbatim for forward compatibility.
type Real struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty"`
	RealID        string               `bson:"realId"`
	RealName      string               `bson:"realName,omitempty"`
	ClientID      string               `bson:"client_id,omitempty"`
	Projects      []primitive.ObjectID `bson:"project,omitempty"`
	Units         []primitive.ObjectID `bson:"units,omitempty"`
	TotalDuration float64              `bson:"total_duration,omitempty"`
	Raw           bson.Raw             `bson:"raw,omitempty"`
	CreatedAt     time.Time            `bson:"createdAt,omitempty"`
	UpdatedAt     time.Time            `bson:"updatedAt,omitempty"`
}

// Unit is a sub-content item ("slide") within a Real.
type Unit struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty"`
	UnitID       string               `bson:"unitId"`
	UnitName     string               `bson:"unitName,omitempty"`
	Availability string               `bson:"availability,omitempty"`
	Reals        []primitive.ObjectID `bson:"real,omitempty"`
	Project      primitive.ObjectID   `bson:"project,omitempty"`
	CreatedAt    time.Time            `bson:"createdAt,omitempty"`
	UpdatedAt    time.Time            `bson:"updatedAt,omitempty"`
}

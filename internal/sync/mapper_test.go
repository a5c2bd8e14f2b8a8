// Simplex Analytics - Engagement Sync and Analytics Backend
// Copyright 2026 Zion C. (zioncodeliba)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zioncodeliba/simplex-analytics-backend

package sync

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/zioncodeliba/simplex-analytics-backend/internal/models"
)

func asUpdateOne(t *testing.T, w mongo.WriteModel) *mongo.UpdateOneModel {
	t.Helper()
	m, ok := w.(*mongo.UpdateOneModel)
	if !ok {
		t.Fatalf("expected *mongo.UpdateOneModel, got %T", w)
	}
	if m.Upsert == nil || !*m.Upsert {
		t.Fatal("expected an upsert")
	}
	return m
}

func TestMapSlideViewed(t *testing.T) {
	delay := 12.5
	ev := &models.RawEvent{
		ID:         "ev-1",
		DistinctID: "d1",
		Event:      models.EventSlideViewed,
		Properties: models.EventProperties{
			RealID:     "r1",
			SlideID:    "s1",
			SlideTitle: "Intro",
			AssetDelay: &delay,
			SentAt:     "2026-08-30T10:00:00Z",
		},
	}

	m := asUpdateOne(t, mapSlideViewed(ev))

	filter, ok := m.Filter.(bson.M)
	if !ok || filter["id"] != "ev-1" {
		t.Errorf("expected filter on source event id, got %+v", m.Filter)
	}

	update, ok := m.Update.(bson.M)
	if !ok {
		t.Fatalf("unexpected update type %T", m.Update)
	}
	doc, ok := update["$set"].(models.SlideViewedEvent)
	if !ok {
		t.Fatalf("unexpected $set type %T", update["$set"])
	}
	if doc.Duration != 12.5 {
		t.Errorf("expected duration from asset delay, got %v", doc.Duration)
	}
	if doc.RealID != "r1" || doc.SlideID != "s1" {
		t.Errorf("unexpected identifiers: %+v", doc)
	}
	want := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	if !doc.Time.Equal(want) {
		t.Errorf("expected sent-at time %v, got %v", want, doc.Time)
	}
}

func TestMapSlideViewedNilAssetDelay(t *testing.T) {
	ev := &models.RawEvent{ID: "ev-2", Event: models.EventSlideViewed}
	m := asUpdateOne(t, mapSlideViewed(ev))
	doc := m.Update.(bson.M)["$set"].(models.SlideViewedEvent)
	if doc.Duration != 0 {
		t.Errorf("expected zero duration without asset delay, got %v", doc.Duration)
	}
}

func TestMapPageViewExtractsRealID(t *testing.T) {
	ev := &models.RawEvent{
		ID:         "pv-1",
		DistinctID: "d1",
		Event:      models.EventPageView,
		Properties: models.EventProperties{
			Pathname:  "/real/abc123",
			SessionID: "sess-1",
		},
	}

	m := asUpdateOne(t, mapPageView(ev))
	if filter := m.Filter.(bson.M); filter["id"] != "pv-1" {
		t.Errorf("expected filter on source event id, got %+v", filter)
	}
	doc := m.Update.(bson.M)["$set"].(models.PageViewEvent)
	if doc.RealID != "abc123" {
		t.Errorf("expected real id abc123 from pathname, got %q", doc.RealID)
	}
}

func TestRealIDFromPath(t *testing.T) {
	tests := []struct {
		pathname string
		want     string
	}{
		{"/real/abc123", "abc123"},
		{"/real/", ""},
		{"", ""},
		{"/r", ""},
	}
	for _, tt := range tests {
		if got := realIDFromPath(tt.pathname); got != tt.want {
			t.Errorf("realIDFromPath(%q) = %q, want %q", tt.pathname, got, tt.want)
		}
	}
}

func TestMapPageLeaveNestedObjects(t *testing.T) {
	ev := &models.RawEvent{
		ID:    "pl-1",
		Event: models.EventPageLeave,
		Properties: models.EventProperties{
			SessionID:                     "sess-1",
			SessionEntryHost:              "viewer.example.com",
			PrevPageviewMaxScroll:         420,
			PrevPageviewMaxScrollPercent:  0.8,
			PrevPageviewLastScroll:        100,
			PrevPageviewLastScrollPercent: 0.2,
		},
	}

	m := asUpdateOne(t, mapPageLeave(ev))
	if filter := m.Filter.(bson.M); filter["event_id"] != "pl-1" {
		t.Errorf("expected filter on event_id, got %+v", filter)
	}
	doc := m.Update.(bson.M)["$set"].(models.PageLeaveEvent)
	if doc.PrevPageviewScroll.MaxScroll != 420 || doc.PrevPageviewScroll.MaxScrollPercentage != 0.8 {
		t.Errorf("unexpected scroll stats: %+v", doc.PrevPageviewScroll)
	}
	if doc.Session.ID != "sess-1" || doc.Session.EntryHost != "viewer.example.com" {
		t.Errorf("unexpected session info: %+v", doc.Session)
	}
}

func TestInteractionMappersUseEventTimestamp(t *testing.T) {
	ts := time.Date(2026, 8, 30, 9, 30, 0, 0, time.UTC)
	ev := &models.RawEvent{
		ID:        "zi-1",
		Event:     models.EventZoomInteraction,
		Timestamp: ts,
		Properties: models.EventProperties{
			ZoomScale: 2.5,
			RealID:    "r1",
		},
	}

	m := asUpdateOne(t, mapZoomInteraction(ev))
	doc := m.Update.(bson.M)["$set"].(models.ZoomInteractionEvent)
	if !doc.Time.Equal(ts) {
		t.Errorf("expected event timestamp %v, got %v", ts, doc.Time)
	}
	if doc.ZoomScale != 2.5 {
		t.Errorf("expected zoom scale 2.5, got %v", doc.ZoomScale)
	}
}

// Simplex Analytics - Engagement Sync and Analytics Backend
// Copyright 2026 Zion C. (zioncodeliba)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zioncodeliba/simplex-analytics-backend

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event type tags as emitted by the analytics API. The $-prefixed ones are
// the capture library's built-in autocapture events.
const (
	EventSlideViewed       = "slide_viewed"
	EventPageLeave         = "$pageleave"
	EventPageView          = "$pageview"
	EventZoomInteraction   = "zoom_interaction"
	EventDrawerInteraction = "drawer_interaction"
	EventSlideResumed      = "slide_resumed"
	EventSlidePaused       = "slide_paused"
)

// EventTypes lists every event type the sync engine ingests, in the order
// they are synced each cycle.
var EventTypes = []string{
	EventSlideViewed,
	EventPageLeave,
	EventPageView,
	EventZoomInteraction,
	EventDrawerInteraction,
	EventSlideResumed,
	EventSlidePaused,
}

// PageViewEvent records a page view. Keyed on the source event id.
type PageViewEvent struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	EventID    string             `bson:"id"`
	DistinctID string             `bson:"distinct_id,omitempty"`
	CurrentURL string             `bson:"current_url,omitempty"`
	RealID     string             `bson:"realId,omitempty"`
	SessionID  string             `bson:"session_id,omitempty"`
	Time       time.Time          `bson:"time,omitempty"`
}

// ScrollStats holds the previous pageview's scroll depth measurements,
// nested under page-leave events.
type ScrollStats struct {
	LastScroll           float64 `bson:"last_scroll,omitempty"`
	MaxScroll            float64 `bson:"max_scroll,omitempty"`
	LastScrollPercentage float64 `bson:"last_scroll_percentage,omitempty"`
	MaxScrollPercentage  float64 `bson:"max_scroll_percentage,omitempty"`
}

// SessionInfo holds session entry metadata nested under page-leave events.
type SessionInfo struct {
	ID            string `bson:"id,omitempty"`
	EntryURL      string `bson:"entry_url,omitempty"`
	EntryPathname string `bson:"entry_pathname,omitempty"`
	EntryHost     string `bson:"entry_host,omitempty"`
}

// PageLeaveEvent records a page leave with session duration and scroll
// depth. Keyed on event_id.
type PageLeaveEvent struct {
	ID                       primitive.ObjectID `bson:"_id,omitempty"`
	EventID                  string             `bson:"event_id"`
	DistinctID               string             `bson:"distinct_id,omitempty"`
	Time                     time.Time          `bson:"time,omitempty"`
	CurrentURL               string             `bson:"current_url,omitempty"`
	RealID                   string             `bson:"real_id,omitempty"`
	ProjectID                string             `bson:"project_id,omitempty"`
	ClientID                 string             `bson:"client_id,omitempty"`
	SessionDurationSeconds   string             `bson:"session_duration_seconds,omitempty"`
	SessionDurationFormatted string             `bson:"session_duration_formatted,omitempty"`
	PrevPageviewID           string             `bson:"prev_pageview_id,omitempty"`
	PrevPageviewPathname     string             `bson:"prev_pageview_pathname,omitempty"`
	PrevPageviewDuration     float64            `bson:"prev_pageview_duration,omitempty"`
	PrevPageviewScroll       ScrollStats        `bson:"prev_pageview_scroll,omitempty"`
	Session                  SessionInfo        `bson:"session,omitempty"`
}

// SlideViewedEvent records a slide view with its measured duration. Keyed
// on the source event id. Duration feeds the per-real rollup.
type SlideViewedEvent struct {
	ID                       primitive.ObjectID `bson:"_id,omitempty"`
	EventID                  string             `bson:"id"`
	DistinctID               string             `bson:"distinct_id,omitempty"`
	SlideTitle               string             `bson:"slide_title,omitempty"`
	RealID                   string             `bson:"real_id,omitempty"`
	SlideIndex               string             `bson:"slide_index,omitempty"`
	ViewDuration             string             `bson:"view_duration,omitempty"`
	ClientID                 string             `bson:"client_id,omitempty"`
	SlideID                  string             `bson:"slide_id,omitempty"`
	TotalSlides              string             `bson:"total_slides,omitempty"`
	ProjectID                string             `bson:"project_id,omitempty"`
	SessionDurationSeconds   string             `bson:"session_duration_seconds,omitempty"`
	SessionDurationFormatted string             `bson:"session_duration_formatted,omitempty"`
	Duration                 float64            `bson:"duration,omitempty"`
	Time                     time.Time          `bson:"time,omitempty"`
}

// SlidePausedEvent records a slide pause. Keyed on event_id.
type SlidePausedEvent struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	EventID         string             `bson:"event_id"`
	DistinctID      string             `bson:"distinct_id,omitempty"`
	SessionID       string             `bson:"session_id,omitempty"`
	Time            time.Time          `bson:"time,omitempty"`
	SlideID         string             `bson:"slide_id,omitempty"`
	SlideType       string             `bson:"slide_type,omitempty"`
	SlideIndex      string             `bson:"slide_index,omitempty"`
	RemainingTimeMS string             `bson:"remaining_time_ms,omitempty"`
	RealID          string             `bson:"real_id,omitempty"`
	PauseSource     string             `bson:"pause_source,omitempty"`
}

// SlideResumedEvent records a slide resume. Keyed on event_id.
type SlideResumedEvent struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty"`
	EventID             string             `bson:"event_id"`
	DistinctID          string             `bson:"distinct_id,omitempty"`
	SessionID           string             `bson:"session_id,omitempty"`
	Time                time.Time          `bson:"time,omitempty"`
	SlideID             string             `bson:"slide_id,omitempty"`
	SlideType           string             `bson:"slide_type,omitempty"`
	SlideIndex          string             `bson:"slide_index,omitempty"`
	RemainingTimeMS     string             `bson:"remaining_time_ms,omitempty"`
	RealID              string             `bson:"real_id,omitempty"`
	PreviousPauseSource string             `bson:"previous_pause_source,omitempty"`
}

// DrawerInteractionEvent records a drawer open/close/resize. Keyed on event_id.
type DrawerInteractionEvent struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	EventID      string             `bson:"event_id"`
	DistinctID   string             `bson:"distinct_id,omitempty"`
	SessionID    string             `bson:"session_id,omitempty"`
	Time         time.Time          `bson:"time,omitempty"`
	Action       string             `bson:"action,omitempty"`
	DrawerHeight float64            `bson:"drawer_height,omitempty"`
	SlideID      string             `bson:"slide_id,omitempty"`
	SlideIndex   string             `bson:"slide_index,omitempty"`
	RealID       string             `bson:"real_id,omitempty"`
}

// ZoomInteractionEvent records a pinch/zoom gesture. Keyed on event_id.
type ZoomInteractionEvent struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	EventID    string             `bson:"event_id"`
	DistinctID string             `bson:"distinct_id,omitempty"`
	SessionID  string             `bson:"session_id,omitempty"`
	Time       time.Time          `bson:"time,omitempty"`
	SlideID    string             `bson:"slide_id,omitempty"`
	SlideIndex string             `bson:"slide_index,omitempty"`
	RealID     string             `bson:"real_id,omitempty"`
	Action     string             `bson:"action,omitempty"`
	ZoomScale  float64            `bson:"zoom_scale,omitempty"`
	SlideType  string             `bson:"slide_type,omitempty"`
}

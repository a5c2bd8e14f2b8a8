// Simplex Analytics - Engagement Sync and Analytics Backend
// Copyright 2026 Zion C. (zioncodeliba)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zioncodeliba/simplex-analytics-backend

package models

import (
	"time"

	"github.com/goccy/go-json"
)

// ExternalUser is the client API's account representation.
type ExternalUser struct {
	ID               string   `json:"_id"`
	Name             string   `json:"name"`
	Email            string   `json:"email"`
	Role             string   `json:"role"`
	ClientID         string   `json:"client_id"`
	ProjectsAllowed  []string `json:"projects_allowed"`
	RefreshTokenHash string   `json:"refreshTokenHash"`
}

// AuthUserResponse wraps the client API's /auth/me payload.
type AuthUserResponse struct {
	User ExternalUser `json:"user"`
}

// ExternalProject is a project as returned by the client API.
type ExternalProject struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// ExternalReal is a real as returned by the client API's paginated listing.
// Raw preserves the complete upstream document so schema additions upstream
// survive a round trip through the store.
type ExternalReal struct {
	ID              string `json:"_id"`
	ProjectID       string `json:"project_id"`
	IntroScreenText string `json:"intro_screen_text"`
	ClientID        string `json:"client_id"`

	Raw json.RawMessage `json:"-"`
}

// RealsPagination is the pagination envelope of the reals listing.
type RealsPagination struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"hasMore"`
}

// RealsPage is one page of the reals listing.
type RealsPage struct {
	Reals      []ExternalReal
	Pagination RealsPagination
}

// EventProperties is the property bag attached to an analytics event.
// Field coverage follows what the seven mappers consume; everything else
// in the upstream bag is ignored.
type EventProperties struct {
	SentAt     string `json:"$sent_at"`
	CurrentURL string `json:"$current_url"`
	SessionID  string `json:"$session_id"`
	Pathname   string `json:"$pathname"`

	RealID                   string `json:"real_id"`
	ProjectID                string `json:"project_id"`
	ClientID                 string `json:"client_id"`
	SessionDurationSeconds   string `json:"session_duration_seconds"`
	SessionDurationFormatted string `json:"session_duration_formatted"`

	PrevPageviewID                  string  `json:"$prev_pageview_id"`
	PrevPageviewPathname            string  `json:"$prev_pageview_pathname"`
	PrevPageviewDuration            float64 `json:"$prev_pageview_duration"`
	PrevPageviewLastScroll          float64 `json:"$prev_pageview_last_scroll"`
	PrevPageviewMaxScroll           float64 `json:"$prev_pageview_max_scroll"`
	PrevPageviewLastScrollPercent   float64 `json:"$prev_pageview_last_scroll_percentage"`
	PrevPageviewMaxScrollPercent    float64 `json:"$prev_pageview_max_scroll_percentage"`
	SessionEntryURL                 string  `json:"$session_entry_url"`
	SessionEntryPathname            string  `json:"$session_entry_pathname"`
	SessionEntryHost                string  `json:"$session_entry_host"`

	SlideTitle          string   `json:"slide_title"`
	SlideIndex          string   `json:"slide_index"`
	ViewDuration        string   `json:"view_duration"`
	SlideID             string   `json:"slide_id"`
	TotalSlides         string   `json:"total_slides"`
	SlideType           string   `json:"slide_type"`
	RemainingTimeMS     string   `json:"remaining_time_ms"`
	PreviousPauseSource string   `json:"previous_pause_source"`
	PauseSource         string   `json:"pause_source"`
	AssetDelay          *float64 `json:"asset_delay"`
	Action              string   `json:"action"`
	DrawerHeight        float64  `json:"drawer_height"`
	ZoomScale           float64  `json:"zoom_scale"`
}

// RawEvent is a single event as returned by the analytics API.
type RawEvent struct {
	ID         string          `json:"id"`
	DistinctID string          `json:"distinct_id"`
	Event      string          `json:"event"`
	Timestamp  time.Time       `json:"timestamp"`
	Properties EventProperties `json:"properties"`
}

// SentAtTime parses the event's $sent_at property, falling back to the
// event timestamp when absent or malformed.
func (e *RawEvent) SentAtTime() time.Time {
	if e.Properties.SentAt != "" {
		if t, err := time.Parse(time.RFC3339, e.Properties.SentAt); err == nil {
			return t
		}
	}
	return e.Timestamp
}

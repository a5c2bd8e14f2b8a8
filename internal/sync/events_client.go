// Simplex Analytics - Engagement Sync and Analytics Backend
// Copyright 2026 Zion C. (zioncodeliba)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zioncodeliba/simplex-analytics-backend

/*
events_client.go - Analytics API Adapter

Cursor-paginated event fetches against the analytics capture API. Each
page fetch retries transport and rate-limit failures with exponential
backoff before giving up with ErrRetriesExhausted; the orchestrator then
abandons that event type for the cycle while sibling types proceed.
*/
package sync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/zioncodeliba/simplex-analytics-backend/internal/logging"
	"github.com/zioncodeliba/simplex-analytics-backend/internal/metrics"
	"github.com/zioncodeliba/simplex-analytics-backend/internal/models"
)

// ErrRetriesExhausted is returned once a page fetch has failed on every
// allowed attempt.
var ErrRetriesExhausted = errors.New("analytics API failed after all retry attempts")

// errRateLimited marks a 429 response, with or without a Retry-After
// header.
var errRateLimited = errors.New("analytics API rate limited (429)")

// EventsPage is one page of an event stream plus the cursor to the next.
type EventsPage struct {
	Events  []models.RawEvent
	NextURL string
}

// AnalyticsAPIInterface defines the analytics API operations the event
// sync consumes.
type AnalyticsAPIInterface interface {
	EventsURL(eventType string, after time.Time) string
	FetchEventsPage(ctx context.Context, pageURL string) (*EventsPage, error)
}

// AnalyticsAPI is the HTTP adapter for the analytics capture API.
type AnalyticsAPI struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client

	retryAttempts  int
	retryBaseDelay time.Duration
}

// NewAnalyticsAPI creates an analytics API adapter.
func NewAnalyticsAPI(baseURL, apiKey string) (*AnalyticsAPI, error) {
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid analytics API base URL: %w", err)
	}
	return &AnalyticsAPI{
		baseURL:        baseURL,
		apiKey:         apiKey,
		httpClient:     &http.Client{Timeout: requestTimeout},
		retryAttempts:  retryAttempts,
		retryBaseDelay: retryBaseDelay,
	}, nil
}

// EventsURL builds the first page URL for an event type. A zero after
// time means the full stream; otherwise only events newer than the
// boundary are requested.
func (a *AnalyticsAPI) EventsURL(eventType string, after time.Time) string {
	query := url.Values{}
	query.Set("event", eventType)
	query.Set("limit", strconv.Itoa(eventFetchLimit))
	if !after.IsZero() {
		query.Set("after", after.UTC().Format(time.RFC3339))
	}
	return a.baseURL + "/events?" + query.Encode()
}

// FetchEventsPage fetches one page, following the API's own next-page URL
// scheme. Transport failures, non-2xx statuses and rate limits all count
// against the attempt budget; a 429 honors the Retry-After header when
// present.
func (a *AnalyticsAPI) FetchEventsPage(ctx context.Context, pageURL string) (*EventsPage, error) {
	var lastErr error

	for attempt := 0; attempt < a.retryAttempts; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		page, retryAfter, err := a.fetchOnce(ctx, pageURL)
		if err == nil {
			return page, nil
		}
		lastErr = err

		if attempt == a.retryAttempts-1 {
			break
		}

		delay := a.retryBaseDelay * time.Duration(1<<uint(attempt+1))
		status := "transport"
		if errors.Is(err, errRateLimited) {
			status = "rate_limited"
			if retryAfter > 0 {
				delay = retryAfter
			}
		}
		metrics.EventFetchRetries.WithLabelValues(status).Inc()
		logging.Warn().Err(err).
			Int("attempt", attempt+1).
			Int("max_attempts", a.retryAttempts).
			Dur("delay", delay).
			Msg("Analytics API fetch failed, retrying")

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	metrics.EventFetchExhausted.Inc()
	return nil, fmt.Errorf("%w: %w", ErrRetriesExhausted, lastErr)
}

// fetchOnce performs a single page request. The returned duration is the
// server-requested backoff on 429, zero otherwise.
func (a *AnalyticsAPI) fetchOnce(ctx context.Context, pageURL string) (*EventsPage, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create analytics request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("analytics API request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusTooManyRequests {
		var retryAfter time.Duration
		if header := resp.Header.Get("Retry-After"); header != "" {
			if seconds, parseErr := strconv.Atoi(header); parseErr == nil && seconds > 0 {
				retryAfter = time.Duration(seconds) * time.Second
			}
		}
		return nil, retryAfter, errRateLimited
	}

	if resp.StatusCode != http.StatusOK {
		body := readBodyForError(resp.Body)
		return nil, 0, fmt.Errorf("analytics API returned status %d: %s", resp.StatusCode, body)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read analytics response: %w", err)
	}

	var decoded struct {
		Results []models.RawEvent `json:"results"`
		Next    string            `json:"next"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, 0, fmt.Errorf("failed to decode analytics response: %w", err)
	}

	return &EventsPage{Events: decoded.Results, NextURL: decoded.Next}, 0, nil
}

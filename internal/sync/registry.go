// Simplex Analytics - Engagement Sync and Analytics Backend
// Copyright 2026 Zion C. (zioncodeliba)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zioncodeliba/simplex-analytics-backend

package sync

import (
	"fmt"

	"github.com/zioncodeliba/simplex-analytics-backend/internal/models"
	"github.com/zioncodeliba/simplex-analytics-backend/internal/store"
)

// EventRoute binds an event type to its target collection and mapper.
type EventRoute struct {
	Collection string
	Map        MapperFunc
}

// Registry dispatches event types to routes. Built once at startup and
// validated before any sync runs; an event type the analytics API returns
// that has no route is skipped at runtime with a warning.
type Registry struct {
	routes map[string]EventRoute
}

// NewRegistry builds the route table covering every ingested event type.
func NewRegistry() *Registry {
	return &Registry{routes: map[string]EventRoute{
		models.EventPageView:          {Collection: store.CollPageViews, Map: mapPageView},
		models.EventPageLeave:         {Collection: store.CollPageLeaves, Map: mapPageLeave},
		models.EventSlideViewed:       {Collection: store.CollSlideViewed, Map: mapSlideViewed},
		models.EventSlidePaused:       {Collection: store.CollSlidePaused, Map: mapSlidePaused},
		models.EventSlideResumed:      {Collection: store.CollSlideResumed, Map: mapSlideResumed},
		models.EventDrawerInteraction: {Collection: store.CollDrawerInteractions, Map: mapDrawerInteraction},
		models.EventZoomInteraction:   {Collection: store.CollZoomInteractions, Map: mapZoomInteraction},
	}}
}

// Route returns the route for an event type.
func (r *Registry) Route(eventType string) (EventRoute, bool) {
	route, ok := r.routes[eventType]
	return route, ok
}

// Validate checks that every event type the sync cycles over has a
// complete route. Called at startup so a missing mapper fails the boot
// rather than silently dropping a stream.
func (r *Registry) Validate(eventTypes []string) error {
	for _, eventType := range eventTypes {
		route, ok := r.routes[eventType]
		if !ok {
			return fmt.Errorf("no route registered for event type %q", eventType)
		}
		if route.Map == nil {
			return fmt.Errorf("route for event type %q has no mapper", eventType)
		}
		if route.Collection == "" {
			return fmt.Errorf("route for event type %q has no target collection", eventType)
		}
	}
	return nil
}

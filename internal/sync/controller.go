// Simplex Analytics - Engagement Sync and Analytics Backend
// Copyright 2026 Zion C. (zioncodeliba)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zioncodeliba/simplex-analytics-backend

package sync

import "context"

// Controller is the sync engine's control surface for the HTTP API:
// run status snapshots and out-of-schedule entity sync triggers.
type Controller struct {
	base        context.Context
	coordinator *Coordinator
	entity      *EntitySyncer
}

// NewController creates the control surface. Triggered runs inherit the
// given base context, so process shutdown cancels them along with the
// scheduled ones.
func NewController(base context.Context, coordinator *Coordinator, entity *EntitySyncer) *Controller {
	return &Controller{base: base, coordinator: coordinator, entity: entity}
}

// Status returns run snapshots for both jobs.
func (c *Controller) Status() []RunStatus {
	return c.coordinator.Status()
}

// TriggerEntitySync starts an entity sync run in the background. The run
// takes the same single-flight lock as scheduled ticks; if another sync
// is in flight the trigger is recorded as a skip.
func (c *Controller) TriggerEntitySync(mode string) {
	go c.entity.RunOnce(c.base, mode)
}

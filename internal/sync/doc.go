// Simplex Analytics - Engagement Sync and Analytics Backend
// Copyright 2026 Zion C. (zioncodeliba)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zioncodeliba/simplex-analytics-backend

/*
Package sync implements the dual-source synchronization engine.

Two ticker-driven orchestrators pull external data into the store:

  - EntitySyncer mirrors the tracked account's user, projects and reals
    from the client API, hourly incrementally and every 12 hours in full.
  - EventSyncer drains the analytics API's event streams into per-type
    collections, hourly over a one-hour window and every 12 hours in
    full, finishing full runs with the slide-duration rollup.

The orchestrators are mutually exclusive. Both consult a shared
Coordinator holding a process-wide single-flight lock plus a per-job
running flag; a tick that cannot acquire both is skipped and logged,
never queued. Cadences are fixed constants rather than configuration.

All store writes are idempotent upserts, so a failed run leaves no
state the next scheduled run cannot repair.
*/
package sync

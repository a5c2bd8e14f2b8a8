// Simplex Analytics - Engagement Sync and Analytics Backend
// Copyright 2026 Zion C. (zioncodeliba)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zioncodeliba/simplex-analytics-backend

package sync

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/zioncodeliba/simplex-analytics-backend/internal/logging"
	"github.com/zioncodeliba/simplex-analytics-backend/internal/metrics"
)

// Skip reasons reported when a tick cannot start a run.
const (
	SkipJobRunning = "job_running"
	SkipLockHeld   = "lock_held"
)

// RunStatus is a point-in-time snapshot of one job's run history.
type RunStatus struct {
	Job        string    `json:"job"`
	Running    bool      `json:"running"`
	LastMode   string    `json:"last_mode,omitempty"`
	LastStart  time.Time `json:"last_start,omitempty"`
	LastFinish time.Time `json:"last_finish,omitempty"`
	LastError  string    `json:"last_error,omitempty"`
	Runs       uint64    `json:"runs"`
	Skips      uint64    `json:"skips"`
}

type jobState struct {
	running    bool
	lastMode   string
	lastStart  time.Time
	lastFinish time.Time
	lastError  string
	runs       uint64
	skips      uint64
}

// Coordinator guarantees at most one sync of either kind runs at a time.
//
// The shared flag is the process-wide single-flight lock; each job
// additionally carries its own running flag. A tick that finds either
// taken is skipped, never queued. Constructed once at bootstrap and
// passed to both orchestrators.
type Coordinator struct {
	shared atomic.Bool

	mu   sync.Mutex
	jobs map[string]*jobState
}

// NewCoordinator creates a coordinator with both locks free.
func NewCoordinator() *Coordinator {
	return &Coordinator{jobs: map[string]*jobState{
		JobEntitySync: {},
		JobEventSync:  {},
	}}
}

func (c *Coordinator) state(job string) *jobState {
	js, ok := c.jobs[job]
	if !ok {
		js = &jobState{}
		c.jobs[job] = js
	}
	return js
}

// TryBegin attempts to start a run for the job. On success the caller
// owns both the job flag and the shared lock and must call Finish. On
// failure the skip reason is returned and recorded.
func (c *Coordinator) TryBegin(job, mode string) (bool, string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	js := c.state(job)
	if js.running {
		js.skips++
		metrics.SyncSkipsTotal.WithLabelValues(job, SkipJobRunning).Inc()
		return false, SkipJobRunning
	}
	if !c.shared.CompareAndSwap(false, true) {
		js.skips++
		metrics.SyncSkipsTotal.WithLabelValues(job, SkipLockHeld).Inc()
		return false, SkipLockHeld
	}

	js.running = true
	js.lastMode = mode
	js.lastStart = time.Now().UTC()
	js.lastError = ""
	return true, ""
}

// Finish releases the job flag and the shared lock and records the run
// outcome. Safe to call exactly once per successful TryBegin; callers
// defer it so release is guaranteed on every exit path.
func (c *Coordinator) Finish(job, mode string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	js := c.state(job)
	js.running = false
	js.lastFinish = time.Now().UTC()
	js.runs++
	if err != nil {
		js.lastError = err.Error()
	}
	c.shared.Store(false)

	metrics.RecordSyncRun(job, mode, err, js.lastFinish.Sub(js.lastStart))
	if err != nil {
		logging.Error().Err(err).Str("job", job).Str("mode", mode).Msg("Sync run failed")
	} else {
		logging.Info().Str("job", job).Str("mode", mode).
			Dur("duration", js.lastFinish.Sub(js.lastStart)).Msg("Sync run finished")
	}
}

// Status returns snapshots for every known job.
func (c *Coordinator) Status() []RunStatus {
	c.mu.Lock()
	defer c.mu.Unlock()

	statuses := make([]RunStatus, 0, len(c.jobs))
	for _, job := range []string{JobEntitySync, JobEventSync} {
		js := c.state(job)
		statuses = append(statuses, RunStatus{
			Job:        job,
			Running:    js.running,
			LastMode:   js.lastMode,
			LastStart:  js.lastStart,
			LastFinish: js.lastFinish,
			LastError:  js.lastError,
			Runs:       js.runs,
			Skips:      js.skips,
		})
	}
	return statuses
}

// Simplex Analytics - Engagement Sync and Analytics Backend
// Copyright 2026 Zion C. (zioncodeliba)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zioncodeliba/simplex-analytics-backend

package sync

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/zioncodeliba/simplex-analytics-backend/internal/models"
)

// Triggered runs inherit the controller's base context, so shutdown
// cancels a manually started sync like any scheduled one.
func TestTriggerObeysBaseContextCancellation(t *testing.T) {
	base, cancel := context.WithCancel(context.Background())
	cancel()

	store := &mockEntityStore{
		getUserFn: func(ctx context.Context, userID string) (*models.User, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return &models.User{UserID: userID, AuthToken: "token"}, nil
		},
	}

	c := NewCoordinator()
	controller := NewController(base, c, newTestEntitySyncer(&mockClientAPI{}, store, c))
	controller.TriggerEntitySync(ModeIncremental)

	deadline := time.Now().Add(2 * time.Second)
	for {
		var entity RunStatus
		for _, status := range controller.Status() {
			if status.Job == JobEntitySync {
				entity = status
			}
		}
		if entity.Runs == 1 {
			if !strings.Contains(entity.LastError, "context canceled") {
				t.Errorf("expected run aborted by cancellation, got %q", entity.LastError)
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("triggered run did not finish")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

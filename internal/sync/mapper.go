// Simplex Analytics - Engagement Sync and Analytics Backend
// Copyright 2026 Zion C. (zioncodeliba)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zioncodeliba/simplex-analytics-backend

package sync

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/zioncodeliba/simplex-analytics-backend/internal/models"
)

// MapperFunc turns one raw analytics event into an upsert keyed by the
// event's natural key. Mappers are pure; all store interaction happens in
// the router.
type MapperFunc func(ev *models.RawEvent) mongo.WriteModel

// realIDFromPath extracts the real id from a viewer pathname of the form
// /real/<id>.
func realIDFromPath(pathname string) string {
	if len(pathname) <= 6 {
		return ""
	}
	return pathname[6:]
}

func mapPageView(ev *models.RawEvent) mongo.WriteModel {
	return mongo.NewUpdateOneModel().
		SetFilter(bson.M{"id": ev.ID}).
		SetUpdate(bson.M{"$set": models.PageViewEvent{
			EventID:    ev.ID,
			DistinctID: ev.DistinctID,
			CurrentURL: ev.Properties.CurrentURL,
			RealID:     realIDFromPath(ev.Properties.Pathname),
			SessionID:  ev.Properties.SessionID,
			Time:       ev.SentAtTime(),
		}}).
		SetUpsert(true)
}

func mapPageLeave(ev *models.RawEvent) mongo.WriteModel {
	return mongo.NewUpdateOneModel().
		SetFilter(bson.M{"event_id": ev.ID}).
		SetUpdate(bson.M{"$set": models.PageLeaveEvent{
			EventID:                  ev.ID,
			DistinctID:               ev.DistinctID,
			Time:                     ev.SentAtTime(),
			CurrentURL:               ev.Properties.CurrentURL,
			RealID:                   ev.Properties.RealID,
			ProjectID:                ev.Properties.ProjectID,
			ClientID:                 ev.Properties.ClientID,
			SessionDurationSeconds:   ev.Properties.SessionDurationSeconds,
			SessionDurationFormatted: ev.Properties.SessionDurationFormatted,
			PrevPageviewID:           ev.Properties.PrevPageviewID,
			PrevPageviewPathname:     ev.Properties.PrevPageviewPathname,
			PrevPageviewDuration:     ev.Properties.PrevPageviewDuration,
			PrevPageviewScroll: models.ScrollStats{
				LastScroll:           ev.Properties.PrevPageviewLastScroll,
				MaxScroll:            ev.Properties.PrevPageviewMaxScroll,
				LastScrollPercentage: ev.Properties.PrevPageviewLastScrollPercent,
				MaxScrollPercentage:  ev.Properties.PrevPageviewMaxScrollPercent,
			},
			Session: models.SessionInfo{
				ID:            ev.Properties.SessionID,
				EntryURL:      ev.Properties.SessionEntryURL,
				EntryPathname: ev.Properties.SessionEntryPathname,
				EntryHost:     ev.Properties.SessionEntryHost,
			},
		}}).
		SetUpsert(true)
}

// mapSlideViewed records a slide view. The duration field copied from
// asset_delay is the measurement the per-real rollup sums.
func mapSlideViewed(ev *models.RawEvent) mongo.WriteModel {
	var duration float64
	if ev.Properties.AssetDelay != nil {
		duration = *ev.Properties.AssetDelay
	}
	return mongo.NewUpdateOneModel().
		SetFilter(bson.M{"id": ev.ID}).
		SetUpdate(bson.M{"$set": models.SlideViewedEvent{
			EventID:                  ev.ID,
			DistinctID:               ev.DistinctID,
			SlideTitle:               ev.Properties.SlideTitle,
			RealID:                   ev.Properties.RealID,
			SlideIndex:               ev.Properties.SlideIndex,
			ViewDuration:             ev.Properties.ViewDuration,
			ClientID:                 ev.Properties.ClientID,
			SlideID:                  ev.Properties.SlideID,
			TotalSlides:              ev.Properties.TotalSlides,
			ProjectID:                ev.Properties.ProjectID,
			SessionDurationSeconds:   ev.Properties.SessionDurationSeconds,
			SessionDurationFormatted: ev.Properties.SessionDurationFormatted,
			Duration:                 duration,
			Time:                     ev.SentAtTime(),
		}}).
		SetUpsert(true)
}

func mapSlidePaused(ev *models.RawEvent) mongo.WriteModel {
	return mongo.NewUpdateOneModel().
		SetFilter(bson.M{"event_id": ev.ID}).
		SetUpdate(bson.M{"$set": models.SlidePausedEvent{
			EventID:         ev.ID,
			DistinctID:      ev.DistinctID,
			SessionID:       ev.Properties.SessionID,
			Time:            ev.Timestamp,
			SlideID:         ev.Properties.SlideID,
			SlideType:       ev.Properties.SlideType,
			SlideIndex:      ev.Properties.SlideIndex,
			RemainingTimeMS: ev.Properties.RemainingTimeMS,
			RealID:          ev.Properties.RealID,
			PauseSource:     ev.Properties.PauseSource,
		}}).
		SetUpsert(true)
}

func mapSlideResumed(ev *models.RawEvent) mongo.WriteModel {
	return mongo.NewUpdateOneModel().
		SetFilter(bson.M{"event_id": ev.ID}).
		SetUpdate(bson.M{"$set": models.SlideResumedEvent{
			EventID:             ev.ID,
			DistinctID:          ev.DistinctID,
			SessionID:           ev.Properties.SessionID,
			Time:                ev.Timestamp,
			SlideID:             ev.Properties.SlideID,
			SlideType:           ev.Properties.SlideType,
			SlideIndex:          ev.Properties.SlideIndex,
			RemainingTimeMS:     ev.Properties.RemainingTimeMS,
			RealID:              ev.Properties.RealID,
			PreviousPauseSource: ev.Properties.PreviousPauseSource,
		}}).
		SetUpsert(true)
}

func mapDrawerInteraction(ev *models.RawEvent) mongo.WriteModel {
	return mongo.NewUpdateOneModel().
		SetFilter(bson.M{"event_id": ev.ID}).
		SetUpdate(bson.M{"$set": models.DrawerInteractionEvent{
			EventID:      ev.ID,
			DistinctID:   ev.DistinctID,
			SessionID:    ev.Properties.SessionID,
			Time:         ev.Timestamp,
			Action:       ev.Properties.Action,
			DrawerHeight: ev.Properties.DrawerHeight,
			SlideID:      ev.Properties.SlideID,
			SlideIndex:   ev.Properties.SlideIndex,
			RealID:       ev.Properties.RealID,
		}}).
		SetUpsert(true)
}

func mapZoomInteraction(ev *models.RawEvent) mongo.WriteModel {
	return mongo.NewUpdateOneModel().
		SetFilter(bson.M{"event_id": ev.ID}).
		SetUpdate(bson.M{"$set": models.ZoomInteractionEvent{
			EventID:    ev.ID,
			DistinctID: ev.DistinctID,
			SessionID:  ev.Properties.SessionID,
			Time:       ev.Timestamp,
			SlideID:    ev.Properties.SlideID,
			SlideIndex: ev.Properties.SlideIndex,
			RealID:     ev.Properties.RealID,
			Action:     ev.Properties.Action,
			ZoomScale:  ev.Properties.ZoomScale,
			SlideType:  ev.Properties.SlideType,
		}}).
		SetUpsert(true)
}

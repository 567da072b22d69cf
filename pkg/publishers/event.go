package publishers

import (
	"time"

	"github.com/google/uuid"
	"github.com/samvad-hq/roli/internal/domain"
)

// Event is the payload published downstream for one fresh activity.
type Event struct {
	EventID     string          `json:"event_id"`
	FeedID      string          `json:"feed_id"`
	FeedName    string          `json:"feed_name"`
	Activity    domain.Activity `json:"activity"`
	CollectedAt time.Time       `json:"collected_at"`
}

// NewEvent wraps activity with a fresh event id.
func NewEvent(feedID, feedName string, activity domain.Activity) Event {
	return Event{
		EventID:     uuid.NewString(),
		FeedID:      feedID,
		FeedName:    feedName,
		Activity:    activity,
		CollectedAt: time.Now().UTC(),
	}
}

// attributes are the routing keys copied onto queue/topic messages.
func (e Event) attributes() map[string]string {
	attrs := map[string]string{
		"event_id": e.EventID,
		"feed_id":  e.FeedID,
	}
	if e.Activity.Kind != "" {
		attrs["activity_kind"] = e.Activity.Kind
	}
	return attrs
}

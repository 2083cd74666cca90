package templink

import (
	"time"

	"github.com/google/uuid"

	"github.com/orris-inc/templink/internal/domain/shared/events"
)

const EventTypeLinkAdded = "templink.added"

// LinkAddedEvent is published after a link has been inserted into a store.
type LinkAddedEvent struct {
	events.BaseEvent
	EventID    string    `json:"event_id"`
	Expiration time.Time `json:"expiration"`
	OneTime    bool      `json:"one_time"`
	Method     string    `json:"method,omitempty"`
	Redirect   string    `json:"redirect,omitempty"`
	Imported   bool      `json:"imported"`
}

func NewLinkAddedEvent[R any](link *Link[R], imported bool) *LinkAddedEvent {
	return &LinkAddedEvent{
		BaseEvent: events.BaseEvent{
			AggregateID: link.Token(),
			EventType:   EventTypeLinkAdded,
			OccurredAt:  time.Now().UTC(),
			Version:     1,
		},
		EventID:    uuid.NewString(),
		Expiration: link.Expiration(),
		OneTime:    link.OneTime(),
		Method:     link.Method(),
		Redirect:   link.Redirect(),
		Imported:   imported,
	}
}

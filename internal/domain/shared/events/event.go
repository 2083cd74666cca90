package events

import (
	"time"
)

// DomainEvent is anything the domain announces after a state change.
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetOccurredAt() time.Time
	// GetVersion is the event schema version.
	GetVersion() int
}

// BaseEvent provides common fields for all domain events
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	OccurredAt  time.Time `json:"occurred_at"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string   { return e.AggregateID }
func (e BaseEvent) GetEventType() string     { return e.EventType }
func (e BaseEvent) GetOccurredAt() time.Time { return e.OccurredAt }
func (e BaseEvent) GetVersion() int          { return e.Version }

// EventHandler reacts to one event. Errors are logged by the dispatcher.
type EventHandler interface {
	Handle(event DomainEvent) error
}

// EventHandlerFunc adapts a function to EventHandler.
type EventHandlerFunc func(event DomainEvent) error

func (f EventHandlerFunc) Handle(event DomainEvent) error {
	return f(event)
}

// EventPublisher publishes domain events
type EventPublisher interface {
	Publish(event DomainEvent) error
}

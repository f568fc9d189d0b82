package port

import "github.com/bnema/siteshell/internal/domain/entity"

// EventPublisher delivers domain events to registered listeners. Publish is
// only called from the event loop.
type EventPublisher interface {
	Publish(event entity.Event)
}

// NopPublisher drops every event.
type NopPublisher struct{}

// Publish implements EventPublisher.
func (NopPublisher) Publish(entity.Event) {}

package ports

import (
	"context"

	"agromarket/internal/core/domain/events"
)

// EventPublisher delivers notifications to subscribers. *events.Bus implements it.
type EventPublisher interface {
	Publish(ctx context.Context, e events.Event)
}

package events

import (
	"context"
	"log/slog"
	"slices"
	"sync"
)

type subscription struct {
	id      uint64
	deliver func(Event)
}

// Bus is a synchronous, in-process publish/subscribe channel.
type Bus struct {
	mu     sync.RWMutex
	subs   []subscription
	nextID uint64
	logger *slog.Logger
}

func NewBus(logger *slog.Logger) *Bus {
	return &Bus{logger: logger.With("component", "EventBus")}
}

// Subscribe registers handler for every published event of type T. Subscribing with
// T = Event receives all notifications. The returned func removes the subscription.
func Subscribe[T Event](b *Bus, handler func(T)) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{
		id: id,
		deliver: func(e Event) {
			if typed, ok := e.(T); ok {
				handler(typed)
			}
		},
	})

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}
}

// Publish delivers e to the current subscribers in subscription order and returns after the
// last handler. Subscriptions added or removed by a handler take effect from the next Publish.
func (b *Bus) Publish(ctx context.Context, e Event) {
	b.mu.RLock()
	subs := slices.Clone(b.subs)
	b.mu.RUnlock()

	for _, s := range subs {
		b.deliver(ctx, s, e)
	}
}

// Len returns the number of active subscriptions.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

func (b *Bus) deliver(ctx context.Context, s subscription, e Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.ErrorContext(ctx, "event handler panicked",
				"event", e.Name(),
				"eventID", e.ID().String(),
				"panic", r,
			)
		}
	}()

	s.deliver(e)
}

func (b *Bus) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.subs = slices.DeleteFunc(b.subs, func(s subscription) bool { return s.id == id })
}

// Package bus provides a thread-safe, in-process pub/sub event bus.
//
// Delivery is synchronous: Publish invokes handlers in the caller's
// goroutine, in subscription order. Handlers should be quick or offload
// heavy work to avoid blocking publishers.
package bus

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event is a single notification delivered through the Bus.
type Event struct {
	Type   string
	Source uuid.UUID
	Time   time.Time
	Data   any
}

// Handler receives published events.
type Handler func(Event)

// Subscription identifies a registered handler so it can be cancelled.
type Subscription struct {
	id        string
	eventType string
}

type entry struct {
	id string
	fn Handler
}

// Bus fans events out to handlers keyed by event type.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]entry
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{
		handlers: make(map[string][]entry),
	}
}

// Subscribe registers a handler for an event type and returns a handle
// for later cancellation.
func (b *Bus) Subscribe(eventType string, fn Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := uuid.NewString()
	b.handlers[eventType] = append(b.handlers[eventType], entry{id: id, fn: fn})
	return Subscription{id: id, eventType: eventType}
}

// Unsubscribe cancels a subscription. Unknown handles are ignored.
func (b *Bus) Unsubscribe(sub Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	entries := b.handlers[sub.eventType]
	for i, e := range entries {
		if e.id == sub.id {
			b.handlers[sub.eventType] = append(entries[:i], entries[i+1:]...)
			return
		}
	}
}

// Publish delivers the event to every subscriber of its type. The
// timestamp is stamped on delivery if the caller left it zero.
func (b *Bus) Publish(ev Event) {
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}

	b.mu.RLock()
	entries := make([]entry, len(b.handlers[ev.Type]))
	copy(entries, b.handlers[ev.Type])
	b.mu.RUnlock()

	for _, e := range entries {
		e.fn(ev)
	}
}

// SubscriberCount returns the number of handlers registered for a type.
func (b *Bus) SubscriberCount(eventType string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[eventType])
}

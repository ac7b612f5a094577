package events

import (
	"sync"
)

const defaultBufferSize = 100

// subscription tracks which event types a subscriber channel receives.
// A nil filter receives every type.
type subscription struct {
	types map[EventType]struct{}
}

func (s *subscription) wants(t EventType) bool {
	if s.types == nil {
		return true
	}
	_, ok := s.types[t]
	return ok
}

// Bus delivers run lifecycle events to subscribers
type Bus struct {
	mu          sync.RWMutex
	subscribers map[chan Event]*subscription
	bufferSize  int
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		subscribers: make(map[chan Event]*subscription),
		bufferSize:  defaultBufferSize,
	}
}

// Subscribe returns a channel that receives every event
func (b *Bus) Subscribe() <-chan Event {
	return b.subscribe(nil)
}

// SubscribeTypes returns a channel that receives only the given event types
func (b *Bus) SubscribeTypes(types ...EventType) <-chan Event {
	filter := make(map[EventType]struct{}, len(types))
	for _, t := range types {
		filter[t] = struct{}{}
	}
	return b.subscribe(filter)
}

func (b *Bus) subscribe(filter map[EventType]struct{}) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, b.bufferSize)
	b.subscribers[ch] = &subscription{types: filter}
	return ch
}

// Unsubscribe removes a subscriber channel
func (b *Bus) Unsubscribe(ch <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for sub := range b.subscribers {
		if sub == ch {
			delete(b.subscribers, sub)
			close(sub)
			return
		}
	}
}

// Publish sends an event to all subscribers interested in its type
// Non-blocking: if a subscriber's buffer is full, the event is dropped for that subscriber
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch, sub := range b.subscribers {
		if !sub.wants(event.Type) {
			continue
		}
		select {
		case ch <- event:
		default:
			// Channel full, drop event for this subscriber
		}
	}
}

// SubscriberCount returns the number of active subscribers
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

// Close closes all subscriber channels
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for ch := range b.subscribers {
		close(ch)
		delete(b.subscribers, ch)
	}
}

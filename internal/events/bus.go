package events

import (
	"errors"
	"sync"
	"time"
)

// ErrClosed is returned when publishing on a closed bus
var ErrClosed = errors.New("event bus is closed")

// subscriberBuffer bounds each subscriber channel. A slow subscriber
// drops events rather than blocking the mutation path.
const subscriberBuffer = 16

// Bus is an in-process Publisher. Mutation services publish after commit;
// presentation caches subscribe and invalidate the named views.
type Bus struct {
	mu          sync.Mutex
	subscribers []chan Event
	closed      bool
}

// NewBus creates an empty event bus
func NewBus() *Bus {
	return &Bus{}
}

// Publish sends the event to every subscriber. Sends are non-blocking:
// a subscriber whose buffer is full misses the event and is expected to
// treat any later event as a full invalidation.
func (b *Bus) Publish(event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosed
	}

	for _, ch := range b.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
	return nil
}

// Subscribe registers a new subscriber channel
func (b *Bus) Subscribe() <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, subscriberBuffer)
	if b.closed {
		close(ch)
		return ch
	}
	b.subscribers = append(b.subscribers, ch)
	return ch
}

// Close closes all subscriber channels. Publish after Close returns ErrClosed.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	for _, ch := range b.subscribers {
		close(ch)
	}
	b.subscribers = nil
	return nil
}

package events

// Publisher defines the interface for emitting view-invalidation events.
// This interface allows for loose coupling and easier testing by depending
// on behavior rather than concrete implementation.
type Publisher interface {
	// Publish emits an event to all current subscribers
	Publish(event Event) error

	// Subscribe registers a new subscriber and returns its channel
	Subscribe() <-chan Event

	// Close stops the publisher and closes all subscriber channels
	Close() error
}

// Compile-time verification that *Bus implements Publisher
var _ Publisher = (*Bus)(nil)

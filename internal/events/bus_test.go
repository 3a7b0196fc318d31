package events

import (
	"errors"
	"testing"
)

func TestPublishSubscribe(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	defer bus.Close()

	ch := bus.Subscribe()

	err := bus.Publish(Event{Views: []View{ViewDashboard, ViewProject("my-project")}})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	event := <-ch
	if len(event.Views) != 2 {
		t.Fatalf("Expected 2 views, got %d", len(event.Views))
	}
	if event.Views[0] != ViewDashboard {
		t.Errorf("Expected dashboard view, got %q", event.Views[0])
	}
	if event.Views[1] != View("project:my-project") {
		t.Errorf("Expected project view, got %q", event.Views[1])
	}
	if event.Timestamp.IsZero() {
		t.Error("Expected timestamp to be stamped on publish")
	}
}

func TestPublish_MultipleSubscribers(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	defer bus.Close()

	first := bus.Subscribe()
	second := bus.Subscribe()

	if err := bus.Publish(Event{Views: []View{ViewLabels}}); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	for i, ch := range []<-chan Event{first, second} {
		event := <-ch
		if len(event.Views) != 1 || event.Views[0] != ViewLabels {
			t.Errorf("Subscriber %d: expected labels view, got %v", i, event.Views)
		}
	}
}

func TestPublish_SlowSubscriberDropsEvents(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	defer bus.Close()

	ch := bus.Subscribe()

	// Publishing past the buffer never blocks; overflow is dropped
	for i := 0; i < subscriberBuffer+5; i++ {
		if err := bus.Publish(Event{Views: []View{ViewDashboard}}); err != nil {
			t.Fatalf("Publish %d failed: %v", i, err)
		}
	}

	received := 0
	for {
		select {
		case <-ch:
			received++
		default:
			if received != subscriberBuffer {
				t.Errorf("Expected %d buffered events, got %d", subscriberBuffer, received)
			}
			return
		}
	}
}

func TestClose(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	ch := bus.Subscribe()

	if err := bus.Close(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Subscriber channels are closed
	if _, open := <-ch; open {
		t.Error("Expected subscriber channel to be closed")
	}

	err := bus.Publish(Event{Views: []View{ViewDashboard}})
	if !errors.Is(err, ErrClosed) {
		t.Errorf("Expected ErrClosed, got %v", err)
	}

	// Close is idempotent
	if err := bus.Close(); err != nil {
		t.Errorf("Expected second Close to succeed, got %v", err)
	}

	// Subscribing after close yields a closed channel
	late := bus.Subscribe()
	if _, open := <-late; open {
		t.Error("Expected post-close subscription to be closed")
	}
}

func TestViewProject(t *testing.T) {
	t.Parallel()

	if ViewProject("my-project") != View("project:my-project") {
		t.Errorf("Unexpected view identifier %q", ViewProject("my-project"))
	}
}

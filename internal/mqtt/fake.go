package mqtt

import (
	"sync"

	"github.com/ml8/attiny85-skate-dryer/internal/logic"
)

// FakePublisher records published messages for test assertions. Safe for
// concurrent use: the daemon loop publishes from its own goroutine.
type FakePublisher struct {
	mu sync.Mutex

	events    []logic.Event
	system    []SystemEvent
	connected bool
	closed    bool
}

// NewFakePublisher creates an empty FakePublisher.
func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

// Publish records the controller event. The payload is formatted and
// discarded so encoding failures still surface.
func (f *FakePublisher) Publish(event logic.Event) error {
	if _, err := FormatPayload(event); err != nil {
		return err
	}
	f.mu.Lock()
	f.events = append(f.events, event)
	f.mu.Unlock()
	return nil
}

// PublishSystem records the system event.
func (f *FakePublisher) PublishSystem(event SystemEvent) error {
	if _, err := FormatSystemPayload(event); err != nil {
		return err
	}
	f.mu.Lock()
	f.system = append(f.system, event)
	f.mu.Unlock()
	return nil
}

// Events returns a copy of the recorded controller events, in publish order.
func (f *FakePublisher) Events() []logic.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]logic.Event(nil), f.events...)
}

// SystemEvents returns a copy of the recorded system events.
func (f *FakePublisher) SystemEvents() []SystemEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]SystemEvent(nil), f.system...)
}

// SetConnected controls what IsConnected reports.
func (f *FakePublisher) SetConnected(connected bool) {
	f.mu.Lock()
	f.connected = connected
	f.mu.Unlock()
}

// IsConnected reports the value set with SetConnected.
func (f *FakePublisher) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connected
}

// Close marks the publisher as closed.
func (f *FakePublisher) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}

// Closed reports whether Close was called.
func (f *FakePublisher) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

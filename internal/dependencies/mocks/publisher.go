package mocks

import (
	"sync"

	"github.com/mcoot/partyarcade/internal/model"
)

// PublishedEvent is an event captured by MockPublisher
type PublishedEvent struct {
	Group string
	Event model.Event
}

// MockPublisher records every event sent to it
type MockPublisher struct {
	mu     sync.Mutex
	events []PublishedEvent
	hook   func(PublishedEvent)
}

// NewMockPublisher creates an empty MockPublisher
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

// OnPublish sets a function run synchronously after each event is recorded.
// The hook may publish again.
func (p *MockPublisher) OnPublish(fn func(PublishedEvent)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hook = fn
}

// SendToGroup records the event
func (p *MockPublisher) SendToGroup(group string, event model.Event) {
	published := PublishedEvent{Group: group, Event: event}
	p.mu.Lock()
	p.events = append(p.events, published)
	hook := p.hook
	p.mu.Unlock()

	if hook != nil {
		hook(published)
	}
}

// Events returns a copy of everything published so far
func (p *MockPublisher) Events() []PublishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]PublishedEvent, len(p.events))
	copy(out, p.events)
	return out
}

// OfType returns the published events with the given type, in order
func (p *MockPublisher) OfType(t model.EventType) []PublishedEvent {
	var out []PublishedEvent
	for _, e := range p.Events() {
		if e.Event.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// Reset forgets all recorded events
func (p *MockPublisher) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
}

package events

import (
	"context"
	"sync"
)

// Recorded pairs an event name with its payload, for assertions in tests.
type Recorded struct {
	Event   string
	Verdict Verdict
}

// InMemorySink records emitted events. Used by unit tests and development
// mode.
type InMemorySink struct {
	mu     sync.Mutex
	events []Recorded
}

func NewInMemorySink() *InMemorySink {
	return &InMemorySink{}
}

func (s *InMemorySink) Emit(_ context.Context, event string, verdict Verdict) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, Recorded{Event: event, Verdict: verdict})
}

// Events returns a snapshot of everything emitted so far.
func (s *InMemorySink) Events() []Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Recorded, len(s.events))
	copy(out, s.events)
	return out
}

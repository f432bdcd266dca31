package audit

import (
	"context"
	"sync"
	"time"
)

// Publisher accepts audit events. Implementations must be safe for concurrent
// use. Publishing is best-effort from the caller's perspective: domain
// operations log publish failures but never fail on them.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// MemorySink buffers events in process. Default sink when Kafka is not
// configured, and the assertion target in tests.
type MemorySink struct {
	mu     sync.RWMutex
	events []Event
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Publish(_ context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// Events returns a snapshot of everything published so far.
func (s *MemorySink) Events() []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

package monitor

import "sync"

// Stream is the single-producer (sampler), multi-consumer (UI,
// persister) event queue from spec.md §4.8. Producers call Push; a
// drainer goroutine (owned by the Monitor) moves queued events under
// lock into an append-only list that backs readers, so consumers never
// see events out of enqueue order.
type Stream struct {
	mu      sync.Mutex
	pending []Event
	history []Event
}

// NewStream constructs an empty event stream.
func NewStream() *Stream {
	return &Stream{}
}

// Push enqueues an event for the next Drain.
func (s *Stream) Push(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, e)
}

// Drain moves any pending events into the append-only history and
// returns the events moved, preserving enqueue order.
func (s *Stream) Drain() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pending) == 0 {
		return nil
	}
	moved := s.pending
	s.pending = nil
	s.history = append(s.history, moved...)
	return moved
}

// History returns a snapshot of everything drained so far, oldest first.
func (s *Stream) History() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.history...)
}

// Len reports how many events have been drained into history.
func (s *Stream) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}

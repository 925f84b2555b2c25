package state

import "sync"

// Store applies actions atomically. Outcomes of a single operation land in
// the order they are dispatched; nothing here orders outcomes of distinct
// overlapping operations. Callers are expected to keep one lifecycle
// operation in flight per assessment, which the CLI does by construction. A
// response arriving after the user moved on still applies: there is no
// request tagging or cancellation at this layer.
type Store struct {
	mu    sync.Mutex
	state State
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Dispatch(a Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = reduce(s.state, a)
}

// Snapshot returns a copy of the current state. Slice contents are shared;
// treat them as read-only.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

package core

import (
	"sync"

	"github.com/cedoromal/persons-admin/internal/person"
)

// FilterStore holds the active listing criteria per browser session.
//
// The filter modal edits a transient draft; nothing here changes until the
// user applies, at which point the whole criteria set is replaced in one
// step. A field omitted from the applied criteria is unconstrained, never
// "left as it was".
type FilterStore struct {
	mu     sync.RWMutex
	active map[string]person.Filter
}

// NewFilterStore creates an empty store.
func NewFilterStore() *FilterStore {
	return &FilterStore{active: make(map[string]person.Filter)}
}

// Active returns the session's current criteria. A session that never
// applied a filter gets the unconstrained zero Filter.
func (s *FilterStore) Active(sessionID string) person.Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active[sessionID]
}

// Apply atomically replaces the session's criteria.
func (s *FilterStore) Apply(sessionID string, f person.Filter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active[sessionID] = f
}

// Drop forgets a session's criteria, e.g. when its cookie expires.
func (s *FilterStore) Drop(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, sessionID)
}

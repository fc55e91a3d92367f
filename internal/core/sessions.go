package core

import (
	"errors"
	"sync"
)

// Scope names the dialog a guard protects. Each browser session holds at
// most one in-flight request per scope.
type Scope string

const (
	ScopeSave   Scope = "save"
	ScopeDelete Scope = "delete"
	ScopeImport Scope = "import"
)

// ErrSessionBusy is returned when a submission arrives while the same
// session already has a request in flight for that dialog.
var ErrSessionBusy = errors.New("a request is already in flight for this dialog")

// SessionGuard tracks the in-flight state of every (session, scope) pair.
// A pair is either idle or in flight; there is no counter to get wrong and
// no way to hold two requests at once.
type SessionGuard struct {
	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewSessionGuard creates an empty guard set.
func NewSessionGuard() *SessionGuard {
	return &SessionGuard{inFlight: make(map[string]struct{})}
}

// Begin moves the pair from idle to in flight. It returns a release
// function that must be called after either outcome, or ErrSessionBusy if
// the pair is already in flight.
func (g *SessionGuard) Begin(sessionID string, scope Scope) (func(), error) {
	key := sessionID + "\x00" + string(scope)

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.inFlight[key]; busy {
		return nil, ErrSessionBusy
	}
	g.inFlight[key] = struct{}{}

	var once sync.Once
	release := func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.inFlight, key)
			g.mu.Unlock()
		})
	}
	return release, nil
}

// InFlight reports whether the pair currently has a request in flight.
// The UI uses this to disable dialog controls and dismissal.
func (g *SessionGuard) InFlight(sessionID string, scope Scope) bool {
	key := sessionID + "\x00" + string(scope)

	g.mu.Lock()
	defer g.mu.Unlock()
	_, busy := g.inFlight[key]
	return busy
}

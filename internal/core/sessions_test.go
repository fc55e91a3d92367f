package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionGuardBeginAndRelease(t *testing.T) {
	g := NewSessionGuard()

	release, err := g.Begin("sess", ScopeSave)
	require.NoError(t, err)
	assert.True(t, g.InFlight("sess", ScopeSave))

	_, err = g.Begin("sess", ScopeSave)
	assert.ErrorIs(t, err, ErrSessionBusy)

	release()
	assert.False(t, g.InFlight("sess", ScopeSave))

	// Idle again: a fresh Begin succeeds.
	release2, err := g.Begin("sess", ScopeSave)
	require.NoError(t, err)
	release2()
}

func TestSessionGuardScopesAreIndependent(t *testing.T) {
	g := NewSessionGuard()

	release, err := g.Begin("sess", ScopeSave)
	require.NoError(t, err)
	defer release()

	_, err = g.Begin("sess", ScopeDelete)
	require.NoError(t, err, "a busy save dialog must not block the delete dialog")
	_, err = g.Begin("sess", ScopeImport)
	require.NoError(t, err)
}

func TestSessionGuardSessionsAreIndependent(t *testing.T) {
	g := NewSessionGuard()

	release, err := g.Begin("alice", ScopeSave)
	require.NoError(t, err)
	defer release()

	_, err = g.Begin("bob", ScopeSave)
	assert.NoError(t, err, "one session's busy dialog must not block another session")
	assert.False(t, g.InFlight("carol", ScopeSave))
}

func TestSessionGuardReleaseIsIdempotent(t *testing.T) {
	g := NewSessionGuard()

	release, err := g.Begin("sess", ScopeImport)
	require.NoError(t, err)

	release()
	release() // a second call must not release someone else's guard

	again, err := g.Begin("sess", ScopeImport)
	require.NoError(t, err)
	release() // still a no-op against the new holder
	assert.True(t, g.InFlight("sess", ScopeImport))
	again()
}

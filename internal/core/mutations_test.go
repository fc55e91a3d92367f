package core

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"

	"github.com/cedoromal/persons-admin/internal/person"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSavePersonCreatesWhenNew(t *testing.T) {
	backend := newFakeBackend(t)
	backend.respond(func(w http.ResponseWriter, r *http.Request) {
		var p person.Person
		json.NewDecoder(r.Body).Decode(&p)
		p.PersonID = 42
		json.NewEncoder(w).Encode(p)
	})

	svc, notes := newTestService(t, backend, Options{})
	out, err := svc.SavePerson(context.Background(), "sess", person.Person{FirstName: "  Ada ", LastName: "Lovelace"})
	require.NoError(t, err)

	assert.True(t, out.Created)
	assert.Equal(t, int64(42), out.Person.PersonID)
	assert.Equal(t, "Ada", out.Person.FirstName, "names are trimmed before persistence")

	// Exactly one backend call, and it was a creation.
	assert.Equal(t, 1, backend.callCount(http.MethodPost, "/persons"))
	assert.Equal(t, 0, backend.callCount(http.MethodPut, "/persons/42"))

	assert.Equal(t, []Level{LevelProgress, LevelSuccess}, notes.levels())
	assert.Equal(t, "Successfully saved Ada Lovelace", notes.all()[1].Message)
}

func TestSavePersonUpdatesWhenPersisted(t *testing.T) {
	backend := newFakeBackend(t)
	backend.respond(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	svc, _ := newTestService(t, backend, Options{})
	out, err := svc.SavePerson(context.Background(), "sess", person.Person{PersonID: 7, FirstName: "Grace"})
	require.NoError(t, err)

	assert.False(t, out.Created)
	assert.Equal(t, 1, backend.callCount(http.MethodPut, "/persons/7"))
	assert.Equal(t, 0, backend.callCount(http.MethodPost, "/persons"))
}

func TestSavePersonFailureNotifiesOnce(t *testing.T) {
	backend := newFakeBackend(t)
	backend.respond(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	svc, notes := newTestService(t, backend, Options{})
	_, err := svc.SavePerson(context.Background(), "sess", person.Person{FirstName: "Ada"})
	require.Error(t, err)

	assert.Equal(t, []Level{LevelProgress, LevelError}, notes.levels())

	// The guard is released: a retry is allowed.
	backend.respond(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(person.Person{PersonID: 1, FirstName: "Ada"})
	})
	_, err = svc.SavePerson(context.Background(), "sess", person.Person{FirstName: "Ada"})
	assert.NoError(t, err)
}

func TestSavePersonInvalidatesListingCacheOnSuccess(t *testing.T) {
	backend := newFakeBackend(t)
	backend.respond(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			json.NewEncoder(w).Encode([]person.Person{{PersonID: 1}})
			return
		}
		json.NewEncoder(w).Encode(person.Person{PersonID: 2})
	})

	listingCache, _ := newTestCache(t)
	svc, _ := newTestService(t, backend, Options{Cache: listingCache})
	ctx := context.Background()

	_, err := svc.ListPersons(ctx, "sess")
	require.NoError(t, err)
	_, found, err := listingCache.Get(ctx, "all")
	require.NoError(t, err)
	require.True(t, found)

	_, err = svc.SavePerson(ctx, "sess", person.Person{FirstName: "Ada"})
	require.NoError(t, err)

	_, found, err = listingCache.Get(ctx, "all")
	require.NoError(t, err)
	assert.False(t, found, "a successful save must drop every cached listing")
}

func TestSavePersonFailureKeepsListingCache(t *testing.T) {
	backend := newFakeBackend(t)
	backend.respond(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			json.NewEncoder(w).Encode([]person.Person{{PersonID: 1}})
			return
		}
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	listingCache, _ := newTestCache(t)
	svc, _ := newTestService(t, backend, Options{Cache: listingCache})
	ctx := context.Background()

	_, err := svc.ListPersons(ctx, "sess")
	require.NoError(t, err)

	_, err = svc.SavePerson(ctx, "sess", person.Person{FirstName: "Ada"})
	require.Error(t, err)

	_, found, err := listingCache.Get(ctx, "all")
	require.NoError(t, err)
	assert.True(t, found, "a failed save must leave cached listings alone")
}

func TestDeletePersonWithoutIdentityFailsBeforeNetwork(t *testing.T) {
	backend := newFakeBackend(t)
	svc, notes := newTestService(t, backend, Options{})

	err := svc.DeletePerson(context.Background(), "sess", person.Person{FirstName: "Ada"})
	require.ErrorIs(t, err, ErrMissingPersonID)

	assert.Empty(t, backend.calls(), "the precondition failure must not reach the backend")
	assert.Equal(t, []Level{LevelError}, notes.levels())
}

func TestDeletePerson(t *testing.T) {
	backend := newFakeBackend(t)
	backend.respond(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	svc, notes := newTestService(t, backend, Options{})
	err := svc.DeletePerson(context.Background(), "sess", person.Person{PersonID: 7, FirstName: "Ada", LastName: "Lovelace"})
	require.NoError(t, err)

	assert.Equal(t, 1, backend.callCount(http.MethodDelete, "/persons/7"))
	assert.Equal(t, []Level{LevelProgress, LevelSuccess}, notes.levels())
	assert.Equal(t, "Successfully deleted Ada Lovelace", notes.all()[1].Message)
}

func TestSaveGuardRejectsConcurrentSubmission(t *testing.T) {
	backend := newFakeBackend(t)
	enter := make(chan struct{})
	proceed := make(chan struct{})
	backend.respond(func(w http.ResponseWriter, r *http.Request) {
		close(enter)
		<-proceed
		json.NewEncoder(w).Encode(person.Person{PersonID: 1})
	})

	svc, _ := newTestService(t, backend, Options{})
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		svc.SavePerson(ctx, "sess", person.Person{FirstName: "Ada"})
	}()

	<-enter
	_, err := svc.SavePerson(ctx, "sess", person.Person{FirstName: "Ada"})
	assert.ErrorIs(t, err, ErrSessionBusy)

	// Another session is unaffected, and so is another dialog.
	assert.False(t, svc.Guards().InFlight("other", ScopeSave))
	err = svc.DeletePerson(ctx, "sess", person.Person{})
	assert.ErrorIs(t, err, ErrMissingPersonID, "the delete guard is independent of the save guard")

	close(proceed)
	wg.Wait()

	// Once the first request settles the session is idle again.
	assert.False(t, svc.Guards().InFlight("sess", ScopeSave))
}

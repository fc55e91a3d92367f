package core

import (
	"context"
	"errors"

	"github.com/cedoromal/persons-admin/internal/logging"
	"github.com/cedoromal/persons-admin/internal/person"
)

// ErrMissingPersonID is returned when a delete targets a person that was
// never persisted. The failure is reported before any network call.
var ErrMissingPersonID = errors.New("no personId on target person")

// SaveOutcome reports what a save did.
type SaveOutcome struct {
	Person  person.Person
	Created bool
}

// SavePerson persists the draft. Identity routes the call: a person
// without a personId is created, one with a personId replaces the stored
// record, with exactly one backend call either way. Names are trimmed before
// persistence.
//
// While the call is in flight the session's save guard is held, so a
// repeated submission fails with ErrSessionBusy instead of duplicating the
// request. On success the listing cache is invalidated and a success
// notification names the person; on failure the guard is released and a
// single failure notification is emitted.
func (s *Service) SavePerson(ctx context.Context, sessionID string, p person.Person) (SaveOutcome, error) {
	release, err := s.guards.Begin(sessionID, ScopeSave)
	if err != nil {
		return SaveOutcome{}, err
	}
	defer release()

	p = p.Normalize()
	name := p.DisplayName()
	s.notifyf(sessionID, LevelProgress, "Saving %s...", name)

	outcome := SaveOutcome{Person: p}
	if p.IsNew() {
		saved, err := s.api.Create(ctx, p)
		if err != nil {
			s.notifyf(sessionID, LevelError, "Error while trying to save %s", name)
			return SaveOutcome{}, err
		}
		outcome.Person = saved
		outcome.Created = true
	} else {
		if err := s.api.Update(ctx, p); err != nil {
			s.notifyf(sessionID, LevelError, "Error while trying to save %s", name)
			return SaveOutcome{}, err
		}
	}

	s.invalidateListings(ctx)
	s.notifyf(sessionID, LevelSuccess, "Successfully saved %s", name)
	logging.FromContext(ctx).Info("person saved",
		"person_id", outcome.Person.PersonID,
		"created", outcome.Created,
	)
	return outcome, nil
}

// DeletePerson removes a persisted person. A target without a personId
// fails immediately with ErrMissingPersonID; no network call is made.
// Success and failure side effects mirror SavePerson, under the session's
// delete guard.
func (s *Service) DeletePerson(ctx context.Context, sessionID string, p person.Person) error {
	release, err := s.guards.Begin(sessionID, ScopeDelete)
	if err != nil {
		return err
	}
	defer release()

	name := p.DisplayName()
	if p.IsNew() {
		s.notifyf(sessionID, LevelError, "Error while trying to delete %s", name)
		return ErrMissingPersonID
	}

	s.notifyf(sessionID, LevelProgress, "Deleting %s...", name)

	if err := s.api.Delete(ctx, p.PersonID); err != nil {
		s.notifyf(sessionID, LevelError, "Error while trying to delete %s", name)
		return err
	}

	s.invalidateListings(ctx)
	s.notifyf(sessionID, LevelSuccess, "Successfully deleted %s", name)
	logging.FromContext(ctx).Info("person deleted", "person_id", p.PersonID)
	return nil
}

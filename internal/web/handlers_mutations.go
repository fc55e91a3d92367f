package web

import (
	"net/http"

	"github.com/cedoromal/persons-admin/internal/person"
	"github.com/cedoromal/persons-admin/internal/web/templates"
)

// handleSavePerson runs the save workflow for the submitted form. The
// presence of personId routes the call: without it the person is created,
// with it the stored record is replaced.
//
// On success the response closes the modal and triggers a table refetch
// via the persons-changed event; on failure the modal stays put and only
// the failure toast is rendered.
func (s *Server) handleSavePerson(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	sid := sessionID(r)
	draft := person.ParsePerson(r.PostForm)

	if _, err := s.service.SavePerson(r.Context(), sid, draft); err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondChanged(w, r)
}

// handleDeletePerson runs the delete workflow. A submission without a
// personId fails the precondition before any backend call.
func (s *Server) handleDeletePerson(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	sid := sessionID(r)
	target := person.ParsePerson(r.PostForm)

	if err := s.service.DeletePerson(r.Context(), sid, target); err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondChanged(w, r)
}

// handleApplyFilter atomically replaces the session's criteria and answers
// with the listing fetched under the new criteria. Omitted fields are
// unconstrained: this is a full replace, never a merge.
func (s *Server) handleApplyFilter(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	sid := sessionID(r)
	criteria := person.ParseFilter(r.PostForm)

	persons, err := s.service.ApplyFilter(r.Context(), sid, criteria)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("HX-Trigger-After-Swap", "close-modal")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	templates.PersonsTable(persons).Render(r.Context(), w)
}

// respondChanged closes the originating modal, triggers the table refetch
// and renders the queued toasts.
func (s *Server) respondChanged(w http.ResponseWriter, r *http.Request) {
	sid := sessionID(r)

	w.Header().Set("HX-Trigger", "persons-changed, close-modal")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	templates.Toasts(s.flashes.Drain(sid)).Render(r.Context(), w)
}

package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/cedoromal/persons-admin/internal/api"
	"github.com/cedoromal/persons-admin/internal/core"
	"github.com/cedoromal/persons-admin/internal/logging"
	"github.com/cedoromal/persons-admin/internal/person"
	"github.com/cedoromal/persons-admin/internal/web/templates"
	"github.com/go-chi/chi/v5"
)

// handleIndex renders the persons admin page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sid := sessionID(r)

	persons, err := s.service.ListPersons(ctx, sid)
	if err != nil {
		// The page still renders; the table shows up empty and the
		// failure surfaces as a toast.
		logging.FromContext(ctx).Error("initial listing failed", "error", err)
		persons = nil
	}

	data := templates.PageData{
		Persons:    persons,
		Filter:     s.service.ActiveFilter(sid),
		LastImport: s.service.LastImport(),
		Toasts:     s.flashes.Drain(sid),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	templates.Layout("Persons Admin", templates.Index(data)).Render(ctx, w)
}

// handlePersonsTable renders the table fragment for the session's active
// criteria. The persons-changed trigger re-requests this after mutations.
func (s *Server) handlePersonsTable(w http.ResponseWriter, r *http.Request) {
	persons, err := s.service.ListPersons(r.Context(), sessionID(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	templates.PersonsTable(persons).Render(r.Context(), w)
}

// handlePersonModalNew renders the empty add form.
func (s *Server) handlePersonModalNew(w http.ResponseWriter, r *http.Request) {
	busy := s.service.Guards().InFlight(sessionID(r), core.ScopeSave)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	templates.PersonModal("Add Person", person.Person{}, busy).Render(r.Context(), w)
}

// handlePersonModalEdit renders the edit form for a person. A missing
// record renders the empty fallback form rather than an error.
func (s *Server) handlePersonModalEdit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid person id", http.StatusBadRequest)
		return
	}

	p, err := s.service.GetPerson(r.Context(), id)
	if err != nil && !errors.Is(err, api.ErrNotFound) {
		s.respondError(w, r, err)
		return
	}

	busy := s.service.Guards().InFlight(sessionID(r), core.ScopeSave)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	templates.PersonModal("Edit Person", p, busy).Render(r.Context(), w)
}

// handleConfirmDelete renders the delete confirmation for a listed person.
func (s *Server) handleConfirmDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid person id", http.StatusBadRequest)
		return
	}

	p, err := s.service.GetPerson(r.Context(), id)
	if err != nil && !errors.Is(err, api.ErrNotFound) {
		s.respondError(w, r, err)
		return
	}

	busy := s.service.Guards().InFlight(sessionID(r), core.ScopeDelete)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	templates.ConfirmDeleteModal(p, busy).Render(r.Context(), w)
}

// handleFilterModal renders the criteria edit buffer seeded with the
// session's active filter.
func (s *Server) handleFilterModal(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	templates.FilterModal(s.service.ActiveFilter(sessionID(r))).Render(r.Context(), w)
}

// handleToasts drains and renders the session's queued notifications.
func (s *Server) handleToasts(w http.ResponseWriter, r *http.Request) {
	notes := s.flashes.Drain(sessionID(r))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	templates.Toasts(notes).Render(r.Context(), w)
}

// handleImportStatus renders the latest import attempt.
func (s *Server) handleImportStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	templates.ImportStatus(s.service.LastImport()).Render(r.Context(), w)
}

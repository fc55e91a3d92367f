package web

// errors.go provides unified error response handling for the web layer.
//
// Every workflow failure becomes one user-visible toast: the technical
// error is logged server-side with the request ID, the client only sees
// the mapped UserMessage. HTMX requests get a toast fragment, everything
// else a plain-text response.

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cedoromal/persons-admin/internal/api"
	"github.com/cedoromal/persons-admin/internal/core"
	"github.com/cedoromal/persons-admin/internal/web/templates"
	"github.com/go-chi/chi/v5/middleware"
)

// respondError logs the technical error and answers with the mapped
// user-facing message in the format the client expects.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	msg := core.MapError(err)
	status := statusFor(err)

	slog.Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", msg.Code,
		"request_id", middleware.GetReqID(r.Context()),
	)

	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		templates.ErrorAlert(msg).Render(r.Context(), w)
		return
	}

	http.Error(w, msg.Message+" ("+msg.Code+")", status)
}

// statusFor maps workflow errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrSessionBusy):
		return http.StatusConflict
	case errors.Is(err, core.ErrMissingPersonID),
		errors.Is(err, core.ErrNoFile):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, api.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

// isHTMX checks if the request is an HTMX request.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

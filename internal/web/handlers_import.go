package web

import (
	"io"
	"net/http"

	"github.com/cedoromal/persons-admin/internal/core"
	"github.com/cedoromal/persons-admin/internal/web/templates"
)

// maxImportForm bounds the multipart parse. Individual file size is
// enforced by the import pipeline against the configured ceiling; this is
// only a transport guard with headroom for the form envelope.
const maxImportForm = 32 << 20

// handleImport reads the dropped files and runs the CSV import pipeline.
// Multiple files are tolerated at the transport level; the pipeline uses
// the first and discards the rest.
//
// On success the response triggers a listing refetch; on failure no
// refetch trigger is emitted, only the failure toast.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportForm)
	if err := r.ParseMultipartForm(maxImportForm); err != nil {
		http.Error(w, "invalid upload form", http.StatusBadRequest)
		return
	}

	var files []core.ImportFile
	if r.MultipartForm != nil {
		for _, headers := range r.MultipartForm.File {
			for _, h := range headers {
				f, err := h.Open()
				if err != nil {
					http.Error(w, "failed to read file", http.StatusBadRequest)
					return
				}
				data, err := io.ReadAll(f)
				f.Close()
				if err != nil {
					http.Error(w, "failed to read file", http.StatusBadRequest)
					return
				}
				files = append(files, core.ImportFile{Name: h.Filename, Data: data})
			}
		}
	}

	sid := sessionID(r)
	if _, err := s.service.ImportCSV(r.Context(), sid, files); err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("HX-Trigger", "persons-changed")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	templates.Toasts(s.flashes.Drain(sid)).Render(r.Context(), w)
}

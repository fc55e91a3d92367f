package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cedoromal/persons-admin/internal/logging"
	"github.com/google/uuid"
)

// ImportPhase is the stage an import attempt is in.
type ImportPhase string

const (
	PhaseIdle             ImportPhase = "idle"
	PhaseRequestingTarget ImportPhase = "requesting_target"
	PhaseTransferring     ImportPhase = "transferring"
	PhaseIngesting        ImportPhase = "ingesting"
	PhaseSucceeded        ImportPhase = "succeeded"
	PhaseFailed           ImportPhase = "failed"
)

var (
	// ErrNoFile is returned when an import is submitted without a file.
	ErrNoFile = errors.New("no file provided")

	// ErrFileTooLarge is returned when the dropped file exceeds the
	// configured ceiling.
	ErrFileTooLarge = errors.New("file too large")
)

// ImportFile is one dropped file: name plus full contents, read into
// memory up front.
type ImportFile struct {
	Name string
	Data []byte
}

// ImportAttempt tracks one run of the pipeline for UI status.
type ImportAttempt struct {
	ID       string
	File     string
	Phase    ImportPhase
	Started  time.Time
	Finished time.Time
	Err      string
}

// Done reports whether the attempt reached a terminal phase.
func (a *ImportAttempt) Done() bool {
	return a.Phase == PhaseSucceeded || a.Phase == PhaseFailed
}

// ImportCSV runs the bulk-import pipeline for a dropped file list:
//
//	requesting_target -> transferring -> ingesting -> succeeded | failed
//
// Only the first file is used; any extra files are discarded (a policy
// the UI documents, not a silent bug). The pipeline requests a one-time
// upload descriptor from the backend, strips the storage base URL from the
// returned upload link to derive a same-origin transfer path, PUTs the raw
// bytes there as text/csv, then posts the object name back for ingestion.
//
// Any step failing ends the attempt: one failure notification, no retry,
// and no cleanup of an already-transferred object. On success the listing
// cache is invalidated.
func (s *Service) ImportCSV(ctx context.Context, sessionID string, files []ImportFile) (*ImportAttempt, error) {
	release, err := s.guards.Begin(sessionID, ScopeImport)
	if err != nil {
		return nil, err
	}
	defer release()

	if len(files) == 0 {
		s.notifyf(sessionID, LevelError, "No CSV file was provided")
		return nil, ErrNoFile
	}
	file := files[0]
	if len(files) > 1 {
		logging.FromContext(ctx).Info("extra dropped files discarded",
			"used", file.Name,
			"discarded", len(files)-1,
		)
	}
	if int64(len(file.Data)) > s.maxImportSize {
		s.notifyf(sessionID, LevelError, "CSV is larger than the %d byte limit", s.maxImportSize)
		return nil, fmt.Errorf("%w: %d bytes (limit %d)", ErrFileTooLarge, len(file.Data), s.maxImportSize)
	}

	attempt := &ImportAttempt{
		ID:      uuid.NewString(),
		File:    file.Name,
		Phase:   PhaseIdle,
		Started: time.Now(),
	}
	s.trackImport(attempt)

	ctx, cancel := context.WithTimeout(ctx, s.importTimeout)
	defer cancel()

	log := logging.WithFields(ctx, "attempt_id", attempt.ID, "file", file.Name)
	s.notifyf(sessionID, LevelProgress, "Uploading CSV...")

	err = s.runImport(ctx, attempt, file, log)
	if err != nil {
		s.finishImport(attempt, err)
		log.Error("csv import failed", "phase", attempt.Phase, "error", err)
		s.notifyf(sessionID, LevelError, "Error while uploading CSV")
		return attempt, err
	}

	s.finishImport(attempt, nil)
	s.invalidateListings(ctx)
	s.notifyf(sessionID, LevelSuccess, "Successfully uploaded CSV")
	log.Info("csv import succeeded", "bytes", len(file.Data))
	return attempt, nil
}

// runImport executes the three pipeline steps, advancing the attempt's
// phase before each one so a failure is attributed to the right stage.
func (s *Service) runImport(ctx context.Context, attempt *ImportAttempt, file ImportFile, log *slog.Logger) error {
	s.setPhase(attempt, PhaseRequestingTarget)
	desc, err := s.api.UploadTarget(ctx)
	if err != nil {
		return err
	}
	log.Debug("upload target issued", "obj_name", desc.ObjName)

	path, err := deriveTransferPath(desc.UploadLink, s.storageBase)
	if err != nil {
		return err
	}

	s.setPhase(attempt, PhaseTransferring)
	if err := s.transfer(ctx, path, file.Data); err != nil {
		return err
	}
	log.Debug("transfer complete", "path", path)

	s.setPhase(attempt, PhaseIngesting)
	return s.api.Ingest(ctx, desc.ObjName)
}

// transfer PUTs the CSV bytes to the derived path on the app's own origin,
// routing through the same-origin storage proxy.
func (s *Service) transfer(ctx context.Context, path string, data []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.transferBase+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build transfer request: %w", err)
	}
	req.Header.Set("Content-Type", "text/csv")

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("transfer failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 512))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("transfer failed: storage returned status %d", resp.StatusCode)
	}
	return nil
}

// deriveTransferPath strips the storage base URL from an upload link,
// leaving the path the transfer is issued against on the app's own origin.
// A link outside the configured storage base is refused; the transfer
// must never leave the same-origin proxy.
func deriveTransferPath(uploadLink, storageBase string) (string, error) {
	if storageBase == "" {
		return "", errors.New("storage base URL is not configured")
	}
	if !strings.HasPrefix(uploadLink, storageBase) {
		return "", fmt.Errorf("upload link %q is outside the storage base %q", uploadLink, storageBase)
	}
	path := strings.TrimPrefix(uploadLink, storageBase)
	if path == "" || !strings.HasPrefix(path, "/") {
		return "", fmt.Errorf("upload link %q has no usable path", uploadLink)
	}
	return path, nil
}

func (s *Service) trackImport(attempt *ImportAttempt) {
	s.mu.Lock()
	s.lastImport = attempt
	s.mu.Unlock()
}

func (s *Service) setPhase(attempt *ImportAttempt, phase ImportPhase) {
	s.mu.Lock()
	attempt.Phase = phase
	s.mu.Unlock()
}

func (s *Service) finishImport(attempt *ImportAttempt, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	attempt.Finished = time.Now()
	if err != nil {
		attempt.Phase = PhaseFailed
		attempt.Err = err.Error()
		return
	}
	attempt.Phase = PhaseSucceeded
}

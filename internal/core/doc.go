// Package core implements the admin workflows over the persons backend:
// the filter/query state machine, the mutation workflows (create, update,
// delete), and the CSV bulk-import pipeline. It has no UI dependencies and
// can be driven by any frontend.
//
// # Architecture
//
// Every workflow is request-scoped: a user action invokes a Service
// method, which performs the external calls, invalidates the record query
// cache on success, and reports progress/success/failure through a
// Notifier. Nothing here holds long-lived background state.
//
// Concurrency is advisory and UI-level. Each browser session owns a set of
// guards (one per dialog kind); a guard is either idle or in flight, and a
// second submission while in flight fails with ErrSessionBusy instead of
// issuing a duplicate request. This serializes submissions from one
// session only; concurrent edits from other clients are not detected, and
// the backend's last write wins.
//
// # Failure semantics
//
// Workflow errors are terminal for the attempt: one failure notification,
// a released guard, no retry, no rollback. A CSV import that uploaded its
// object but failed ingestion leaves the object behind; retention of
// orphaned objects is the storage service's concern.
package core

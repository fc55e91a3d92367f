package web

import (
	"context"
	"net/http"
	"sync"

	"github.com/cedoromal/persons-admin/internal/core"
	"github.com/google/uuid"
)

// sessionCookieName identifies the browser session the workflows (busy
// guards, filter state, toasts) are scoped to.
const sessionCookieName = "pa_session"

type contextKey string

const sessionKey contextKey = "session_id"

// sessionCookie ensures every request carries a session ID, issuing a
// cookie on first contact and exposing the ID through the context.
func sessionCookie(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(sessionCookieName); err == nil && c.Value != "" {
			id = c.Value
		} else {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookieName,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		ctx := context.WithValue(r.Context(), sessionKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionID returns the request's session ID.
func sessionID(r *http.Request) string {
	if id, ok := r.Context().Value(sessionKey).(string); ok {
		return id
	}
	return ""
}

// FlashStore queues workflow notifications per session until the UI
// collects them as toast fragments. It implements core.Notifier.
type FlashStore struct {
	mu     sync.Mutex
	queued map[string][]core.Notification
}

// NewFlashStore creates an empty store.
func NewFlashStore() *FlashStore {
	return &FlashStore{queued: make(map[string][]core.Notification)}
}

// Notify queues a notification for the session.
func (f *FlashStore) Notify(sessionID string, n core.Notification) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queued[sessionID] = append(f.queued[sessionID], n)
}

// Drain returns and clears the session's queued notifications.
func (f *FlashStore) Drain(sessionID string) []core.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.queued[sessionID]
	delete(f.queued, sessionID)
	return out
}

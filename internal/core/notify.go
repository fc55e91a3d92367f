package core

import "fmt"

// Level classifies a notification for toast rendering.
type Level string

const (
	LevelProgress Level = "progress"
	LevelSuccess  Level = "success"
	LevelError    Level = "error"
)

// Notification is a transient, user-visible status message. Failures are
// never modal: every workflow outcome surfaces as one of these.
type Notification struct {
	Level   Level
	Message string
}

// Notifier receives workflow notifications addressed to a browser session.
// Implementations must be safe for concurrent use.
type Notifier interface {
	Notify(sessionID string, n Notification)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) Notify(string, Notification) {}

func (s *Service) notifyf(sessionID string, level Level, format string, args ...any) {
	s.notifier.Notify(sessionID, Notification{
		Level:   level,
		Message: fmt.Sprintf(format, args...),
	})
}

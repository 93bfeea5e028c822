package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationLevel controls how a notification is presented.
type NotificationLevel string

const (
	NotificationInfo    NotificationLevel = "info"
	NotificationSuccess NotificationLevel = "success"
	NotificationWarning NotificationLevel = "warning"
	NotificationError   NotificationLevel = "error"
)

// Notification is a user-facing message derived from store changes.
// A persistent notification never expires on its own.
type Notification struct {
	ID         uuid.UUID
	Level      NotificationLevel
	Title      string
	Message    string
	Kind       RecordKind // set for "new data" notifications
	Persistent bool
	CreatedAt  time.Time
	ExpiresAt  time.Time // zero when Persistent
}

// Expired reports whether a transient notification is past its lifetime.
func (n Notification) Expired(now time.Time) bool {
	return !n.Persistent && !n.ExpiresAt.IsZero() && !now.Before(n.ExpiresAt)
}

// ChangeSignal is an opaque "something changed" message for one record kind.
// It carries no payload; receivers re-fetch the whole kind.
type ChangeSignal struct {
	Kind       RecordKind
	Operation  string
	ReceivedAt time.Time
}

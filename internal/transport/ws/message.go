package ws

import (
	"time"

	"github.com/heartmarshall/mediareport-backend/internal/domain"
	"github.com/heartmarshall/mediareport-backend/internal/service/notify"
	"github.com/heartmarshall/mediareport-backend/internal/service/store"
)

// Message types pushed to clients.
const (
	TypeNotification = "notification"
	TypeDismiss      = "dismiss"
	TypeState        = "state"
)

// Message is the envelope of every frame sent to a client.
type Message struct {
	Type         string               `json:"type"`
	Notification *NotificationPayload `json:"notification,omitempty"`
	ID           string               `json:"id,omitempty"`
	State        *StatePayload        `json:"state,omitempty"`
	At           time.Time            `json:"at"`
}

// NotificationPayload is a notification as shown to clients.
type NotificationPayload struct {
	ID         string     `json:"id"`
	Level      string     `json:"level"`
	Title      string     `json:"title"`
	Message    string     `json:"message"`
	Kind       string     `json:"kind,omitempty"`
	Persistent bool       `json:"persistent"`
	CreatedAt  time.Time  `json:"createdAt"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
}

// StatePayload mirrors the store state. Counts are totals over all authors
// and are only sent to admins.
type StatePayload struct {
	State      store.State               `json:"state"`
	Connected  bool                      `json:"connected"`
	LastUpdate *time.Time                `json:"lastUpdate"`
	Error      string                    `json:"error,omitempty"`
	Counts     map[domain.RecordKind]int `json:"counts,omitempty"`
}

// clientCommand is the only thing clients may send.
type clientCommand struct {
	Action string `json:"action"`
	ID     string `json:"id"`
}

func notificationMessage(n domain.Notification, at time.Time) Message {
	p := &NotificationPayload{
		ID:         n.ID.String(),
		Level:      string(n.Level),
		Title:      n.Title,
		Message:    n.Message,
		Kind:       string(n.Kind),
		Persistent: n.Persistent,
		CreatedAt:  n.CreatedAt,
	}
	if !n.ExpiresAt.IsZero() {
		exp := n.ExpiresAt
		p.ExpiresAt = &exp
	}
	return Message{Type: TypeNotification, Notification: p, At: at}
}

func changeMessage(c notify.Change, at time.Time) Message {
	if c.Type == notify.ChangeRemoved {
		return Message{Type: TypeDismiss, ID: c.Notification.ID.String(), At: at}
	}
	return notificationMessage(c.Notification, at)
}

func stateMessage(ev store.Event, withCounts bool) Message {
	p := &StatePayload{
		State:     ev.State,
		Connected: ev.Connected,
		Error:     ev.Error,
	}
	if !ev.LastUpdate.IsZero() {
		last := ev.LastUpdate
		p.LastUpdate = &last
	}
	if withCounts {
		p.Counts = ev.Counts
	}
	return Message{Type: TypeState, State: p, At: ev.At}
}

func eventOf(s store.Snapshot, at time.Time) store.Event {
	counts := make(map[domain.RecordKind]int, len(domain.RecordKinds))
	for _, k := range domain.RecordKinds {
		counts[k] = s.Count(k)
	}
	return store.Event{
		State:      s.State,
		Connected:  s.Connected,
		Counts:     counts,
		LastUpdate: s.LastUpdate,
		Error:      s.Error,
		At:         at,
	}
}

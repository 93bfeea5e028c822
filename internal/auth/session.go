package auth

import (
	"context"
	"maps"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/mediareport-backend/internal/domain"
)

// SessionHolder keeps the session that long-lived components (the state
// store) act under and broadcasts sign-in and sign-out transitions.
//
// A pinned session (the configured service account) is never replaced by an
// interactive login and never released by a logout. Without a pinned session
// the first interactive login binds the holder and that user's logout releases
// it.
type SessionHolder struct {
	mu      sync.RWMutex
	current *domain.Session
	pinned  bool
	subs    map[int]chan *domain.Session
	nextID  int
}

// NewSessionHolder creates an empty, signed-out holder.
func NewSessionHolder() *SessionHolder {
	return &SessionHolder{subs: make(map[int]chan *domain.Session)}
}

// Current returns a copy of the current session, or nil when signed out.
func (h *SessionHolder) Current(ctx context.Context) (*domain.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return cloneSession(h.current), nil
}

// Pin installs s as the pinned session and notifies subscribers.
func (h *SessionHolder) Pin(s *domain.Session) {
	h.mu.Lock()
	h.current = cloneSession(s)
	h.pinned = s != nil
	h.broadcastLocked()
	h.mu.Unlock()
}

// Bind installs s when no session is held. Returns false when the holder is
// already occupied.
func (h *SessionHolder) Bind(s *domain.Session) bool {
	if s == nil {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.current != nil {
		return false
	}
	h.current = cloneSession(s)
	h.broadcastLocked()
	return true
}

// Release signs the holder out when it holds an unpinned session of userID.
func (h *SessionHolder) Release(userID uuid.UUID) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.pinned || h.current == nil || h.current.UserID != userID {
		return false
	}
	h.current = nil
	h.broadcastLocked()
	return true
}

// Clear signs the holder out unconditionally, including a pinned session.
func (h *SessionHolder) Clear() {
	h.mu.Lock()
	h.current = nil
	h.pinned = false
	h.broadcastLocked()
	h.mu.Unlock()
}

// Changes subscribes to auth-state transitions. Each value is the new session
// or nil on sign-out. A slow subscriber only ever sees the latest transition.
// The returned function cancels the subscription and closes the channel.
func (h *SessionHolder) Changes() (<-chan *domain.Session, func()) {
	ch := make(chan *domain.Session, 1)

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs[id] = ch
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
			close(ch)
		})
	}
}

func (h *SessionHolder) broadcastLocked() {
	for _, ch := range h.subs {
		// Drop a pending, unread transition in favour of the newest one.
		select {
		case <-ch:
		default:
		}
		ch <- cloneSession(h.current)
	}
}

func cloneSession(s *domain.Session) *domain.Session {
	if s == nil {
		return nil
	}
	cp := *s
	cp.Metadata = maps.Clone(s.Metadata)
	return &cp
}

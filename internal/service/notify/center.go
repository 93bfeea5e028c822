// Package notify derives user-facing notifications from store events.
package notify

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/mediareport-backend/internal/config"
	"github.com/heartmarshall/mediareport-backend/internal/domain"
	"github.com/heartmarshall/mediareport-backend/internal/service/store"
)

// ChangeType tells subscribers whether a notification appeared or went away.
type ChangeType string

const (
	ChangeAdded   ChangeType = "added"
	ChangeRemoved ChangeType = "removed"
)

// Change is one notification feed update.
type Change struct {
	Type         ChangeType
	Notification domain.Notification
}

const subscriberBuffer = 16

// Center keeps the bounded list of active notifications.
type Center struct {
	log *slog.Logger
	ttl time.Duration
	max int
	now func() time.Time

	mu       sync.Mutex
	items    []domain.Notification
	counts   map[domain.RecordKind]int
	baseline bool // next settled event only records counts
	seenConn bool
	conn     bool
	lostID   uuid.UUID

	subs   map[int]chan Change
	nextID int
}

// NewCenter creates a notification center.
func NewCenter(logger *slog.Logger, cfg config.NotificationsConfig) *Center {
	return &Center{
		log:      logger.With("service", "notify"),
		ttl:      cfg.TTL,
		max:      cfg.MaxRetained,
		now:      time.Now,
		counts:   make(map[domain.RecordKind]int),
		baseline: true,
		subs:     make(map[int]chan Change),
	}
}

// Run consumes store events until ctx is done or events is closed, pruning
// expired notifications in between.
func (c *Center) Run(ctx context.Context, events <-chan store.Event) {
	tick := c.ttl / 2
	if tick < 100*time.Millisecond {
		tick = 100 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			c.Observe(ev)
		case <-ticker.C:
			c.Active()
		}
	}
}

// Observe applies one store event.
func (c *Center) Observe(ev store.Event) {
	c.mu.Lock()
	var changes []Change

	switch ev.State {
	case store.StateLoading, store.StateUninitialized:
		// Collections are being replaced; the next settled event is a baseline.
		c.baseline = true
		c.seenConn = false
	default:
		if c.baseline {
			c.baseline = false
		} else {
			for _, kind := range domain.RecordKinds {
				if ev.Counts[kind] > c.counts[kind] {
					changes = append(changes, c.addLocked(c.newData(kind))...)
				}
			}
		}
		changes = append(changes, c.observeConnLocked(ev.Connected)...)
	}
	c.counts = ev.Counts

	c.mu.Unlock()
	c.publish(changes)
}

func (c *Center) observeConnLocked(up bool) []Change {
	prevSeen, prev := c.seenConn, c.conn
	c.seenConn, c.conn = true, up

	switch {
	case !up && prevSeen && prev && c.lostID == uuid.Nil:
		n := domain.Notification{
			ID:         uuid.New(),
			Level:      domain.NotificationError,
			Title:      "Connection lost",
			Message:    "Live updates are paused. Data may be out of date.",
			Persistent: true,
			CreatedAt:  c.now(),
		}
		c.lostID = n.ID
		c.log.Warn("connection lost notification raised")
		return c.addLocked(n)

	case up && c.lostID != uuid.Nil:
		var changes []Change
		if removed, ok := c.removeLocked(c.lostID); ok {
			changes = append(changes, removed)
		}
		c.lostID = uuid.Nil
		now := c.now()
		return append(changes, c.addLocked(domain.Notification{
			ID:        uuid.New(),
			Level:     domain.NotificationSuccess,
			Title:     "Connection restored",
			Message:   "Live updates resumed.",
			CreatedAt: now,
			ExpiresAt: now.Add(c.ttl),
		})...)
	}
	return nil
}

func (c *Center) newData(kind domain.RecordKind) domain.Notification {
	now := c.now()
	return domain.Notification{
		ID:        uuid.New(),
		Level:     domain.NotificationInfo,
		Title:     "New data",
		Message:   "New " + kind.Label() + " data is available.",
		Kind:      kind,
		CreatedAt: now,
		ExpiresAt: now.Add(c.ttl),
	}
}

// addLocked appends n and drops the oldest entries beyond the cap.
func (c *Center) addLocked(n domain.Notification) []Change {
	changes := []Change{{Type: ChangeAdded, Notification: n}}
	c.items = append(c.items, n)
	for len(c.items) > c.max {
		dropped := c.items[0]
		c.items = c.items[1:]
		if dropped.ID == c.lostID {
			c.lostID = uuid.Nil
		}
		changes = append(changes, Change{Type: ChangeRemoved, Notification: dropped})
	}
	return changes
}

func (c *Center) removeLocked(id uuid.UUID) (Change, bool) {
	i := slices.IndexFunc(c.items, func(n domain.Notification) bool { return n.ID == id })
	if i < 0 {
		return Change{}, false
	}
	n := c.items[i]
	c.items = slices.Delete(c.items, i, i+1)
	return Change{Type: ChangeRemoved, Notification: n}, true
}

// Active prunes expired notifications and returns the rest, oldest first.
func (c *Center) Active() []domain.Notification {
	c.mu.Lock()
	now := c.now()
	var changes []Change
	kept := c.items[:0]
	for _, n := range c.items {
		if n.Expired(now) {
			changes = append(changes, Change{Type: ChangeRemoved, Notification: n})
			continue
		}
		kept = append(kept, n)
	}
	c.items = kept
	out := slices.Clone(c.items)
	c.mu.Unlock()

	c.publish(changes)
	return out
}

// Dismiss removes a notification. Persistent ones cannot be dismissed.
func (c *Center) Dismiss(id uuid.UUID) bool {
	c.mu.Lock()
	if id == c.lostID {
		c.mu.Unlock()
		return false
	}
	change, ok := c.removeLocked(id)
	c.mu.Unlock()

	if ok {
		c.publish([]Change{change})
	}
	return ok
}

// Subscribe delivers every added and removed notification. A subscriber that
// falls behind loses updates. The returned function cancels the subscription.
func (c *Center) Subscribe() (<-chan Change, func()) {
	ch := make(chan Change, subscriberBuffer)

	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = ch
	c.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			c.mu.Unlock()
			close(ch)
		})
	}
}

func (c *Center) publish(changes []Change) {
	if len(changes) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ch := range c.subs {
		for _, change := range changes {
			select {
			case ch <- change:
			default:
				c.log.Debug("notification subscriber lagging, update dropped")
			}
		}
	}
}

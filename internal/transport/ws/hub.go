// Package ws pushes notifications and store state to dashboard clients over
// websockets.
package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/heartmarshall/mediareport-backend/internal/domain"
	"github.com/heartmarshall/mediareport-backend/internal/service/notify"
	"github.com/heartmarshall/mediareport-backend/internal/service/store"
	"github.com/heartmarshall/mediareport-backend/pkg/ctxutil"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 64
)

type tokenValidator interface {
	ValidateToken(ctx context.Context, token string) (ctxutil.Identity, error)
}

type notificationFeed interface {
	Active() []domain.Notification
	Dismiss(id uuid.UUID) bool
	Subscribe() (<-chan notify.Change, func())
}

type stateFeed interface {
	Snapshot() store.Snapshot
	Events() (<-chan store.Event, func())
}

// Hub tracks connected clients. The client set is owned by the Run
// goroutine; ServeHTTP hands new clients over through register.
type Hub struct {
	log       *slog.Logger
	validator tokenValidator
	notes     notificationFeed
	states    stateFeed
	upgrader  websocket.Upgrader
	now       func() time.Time

	register   chan *client
	unregister chan *client
	clients    map[*client]struct{}
	done       chan struct{}
}

// NewHub creates a Hub. origins lists the allowed Origin headers; "*" allows
// any.
func NewHub(logger *slog.Logger, validator tokenValidator, notes notificationFeed, states stateFeed, origins []string) *Hub {
	h := &Hub{
		log:        logger.With("service", "ws"),
		validator:  validator,
		notes:      notes,
		states:     states,
		now:        time.Now,
		register:   make(chan *client),
		unregister: make(chan *client),
		clients:    make(map[*client]struct{}),
		done:       make(chan struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(origins),
	}
	return h
}

func originChecker(origins []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		return slices.ContainsFunc(origins, func(o string) bool {
			o = strings.TrimSpace(o)
			return o == "*" || o == origin
		})
	}
}

// Run fans feed updates out to clients until ctx is cancelled, then closes
// every connection.
func (h *Hub) Run(ctx context.Context) {
	changes, cancelChanges := h.notes.Subscribe()
	events, cancelEvents := h.states.Events()
	defer func() {
		cancelChanges()
		cancelEvents()
		for c := range h.clients {
			h.drop(c)
		}
		close(h.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.greet(c)
			h.log.Debug("client connected",
				slog.String("user_id", c.ident.UserID.String()),
				slog.Int("clients", len(h.clients)))

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				h.drop(c)
				h.log.Debug("client disconnected", slog.Int("clients", len(h.clients)))
			}

		case change, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			h.broadcast(changeMessage(change, h.now()), nil)

		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			h.broadcast(stateMessage(ev, false), func(c *client) *Message {
				if !c.admin() {
					return nil
				}
				m := stateMessage(ev, true)
				return &m
			})
		}
	}
}

// greet sends the current state and retained notifications to a new client.
func (h *Hub) greet(c *client) {
	now := h.now()
	h.deliver(c, stateMessage(eventOf(h.states.Snapshot(), now), c.admin()))
	for _, n := range h.notes.Active() {
		h.deliver(c, notificationMessage(n, now))
	}
}

// broadcast sends msg to every client. override may replace the message for
// individual clients.
func (h *Hub) broadcast(msg Message, override func(*client) *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Error("marshal message", slog.String("error", err.Error()))
		return
	}
	for c := range h.clients {
		if override != nil {
			if m := override(c); m != nil {
				h.deliver(c, *m)
				continue
			}
		}
		h.send(c, data)
	}
}

func (h *Hub) deliver(c *client, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Error("marshal message", slog.String("error", err.Error()))
		return
	}
	h.send(c, data)
}

// send queues data for c; a client whose buffer is full is disconnected.
func (h *Hub) send(c *client, data []byte) {
	select {
	case c.send <- data:
	default:
		h.log.Warn("client too slow, disconnecting", slog.String("user_id", c.ident.UserID.String()))
		h.drop(c)
	}
}

func (h *Hub) drop(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}

// ServeHTTP upgrades an authenticated request. The access token is read from
// the access_token query parameter, since browsers cannot set headers on the
// handshake; an identity set by the auth middleware is accepted as well.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	select {
	case <-h.done:
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	default:
	}

	ident, ok := ctxutil.IdentityFromCtx(r.Context())
	if token := r.URL.Query().Get("access_token"); token != "" {
		var err error
		ident, err = h.validator.ValidateToken(r.Context(), token)
		ok = err == nil
	}
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	c := &client{hub: h, conn: conn, send: make(chan []byte, sendBuffer), ident: ident}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

func (h *Hub) leave(c *client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) dismiss(c *client, cmd clientCommand) {
	id, err := uuid.Parse(cmd.ID)
	if err != nil {
		return
	}
	if h.notes.Dismiss(id) {
		h.log.Debug("notification dismissed", slog.String("id", id.String()),
			slog.String("user_id", c.ident.UserID.String()))
	}
}

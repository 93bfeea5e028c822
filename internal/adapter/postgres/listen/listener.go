// Package listen turns PostgreSQL LISTEN/NOTIFY into per-kind change signal channels.
package listen

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/mediareport-backend/internal/config"
	"github.com/heartmarshall/mediareport-backend/internal/domain"
)

// Conn is a connection that is already listening on every record channel.
type Conn interface {
	WaitForNotification(ctx context.Context) (*pgconn.Notification, error)
	Close()
}

// Connector opens a listening connection.
type Connector func(ctx context.Context) (Conn, error)

// Listener holds one dedicated connection and fans notifications out to
// subscribers. When the connection drops it reports connectivity=false,
// reconnects with exponential backoff and reports connectivity=true again.
//
// Delivery is lossy by kind: if a subscriber already has a pending signal
// buffered up to its capacity, further signals are dropped. Signals carry no
// payload so a pending one covers any that follow.
type Listener struct {
	log     *slog.Logger
	connect Connector
	cfg     config.RealtimeConfig

	mu        sync.Mutex
	nextID    int
	subs      map[domain.RecordKind]map[int]chan domain.ChangeSignal
	watchers  map[int]chan bool
	connected bool
	closed    bool

	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a Listener that acquires its connection from pool.
func New(logger *slog.Logger, pool *pgxpool.Pool, cfg config.RealtimeConfig) *Listener {
	return NewWithConnector(logger, PoolConnector(pool), cfg)
}

// NewWithConnector creates a Listener on top of an arbitrary connector.
func NewWithConnector(logger *slog.Logger, connect Connector, cfg config.RealtimeConfig) *Listener {
	return &Listener{
		log:      logger.With("component", "listener"),
		connect:  connect,
		cfg:      cfg,
		subs:     make(map[domain.RecordKind]map[int]chan domain.ChangeSignal),
		watchers: make(map[int]chan bool),
	}
}

// Start launches the receive loop. It returns immediately; connection
// failures are retried in the background.
func (l *Listener) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.done = make(chan struct{})
	go l.run(ctx)
}

// Close stops the receive loop and closes every subscriber channel.
func (l *Listener) Close() {
	if l.cancel != nil {
		l.cancel()
		<-l.done
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	for kind, subs := range l.subs {
		for id, ch := range subs {
			close(ch)
			delete(subs, id)
		}
		delete(l.subs, kind)
	}
	for id, ch := range l.watchers {
		close(ch)
		delete(l.watchers, id)
	}
}

// Subscribe returns a channel of change signals for kind and a function that
// cancels the subscription. The channel is closed on cancel or Close.
func (l *Listener) Subscribe(kind domain.RecordKind) (<-chan domain.ChangeSignal, func()) {
	ch := make(chan domain.ChangeSignal, l.buffer())

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := l.nextID
	l.nextID++
	if l.subs[kind] == nil {
		l.subs[kind] = make(map[int]chan domain.ChangeSignal)
	}
	l.subs[kind][id] = ch
	l.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			if c, ok := l.subs[kind][id]; ok {
				delete(l.subs[kind], id)
				close(c)
			}
		})
	}
}

// Connectivity returns a channel that receives the connection state on every
// transition. The current state is delivered first.
func (l *Listener) Connectivity() (<-chan bool, func()) {
	ch := make(chan bool, l.buffer())

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := l.nextID
	l.nextID++
	l.watchers[id] = ch
	ch <- l.connected
	l.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			if c, ok := l.watchers[id]; ok {
				delete(l.watchers, id)
				close(c)
			}
		})
	}
}

// Connected reports whether the listening connection is currently up.
func (l *Listener) Connected() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.connected
}

func (l *Listener) buffer() int {
	if l.cfg.SignalBuffer < 1 {
		return 1
	}
	return l.cfg.SignalBuffer
}

func (l *Listener) run(ctx context.Context) {
	defer close(l.done)

	delay := l.cfg.MinBackoff
	for {
		conn, err := l.connect(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			l.log.WarnContext(ctx, "listen connect failed",
				slog.String("error", err.Error()),
				slog.Duration("retry_in", delay))
			if !sleep(ctx, delay) {
				return
			}
			delay = nextBackoff(delay, l.cfg.MinBackoff, l.cfg.MaxBackoff)
			continue
		}

		delay = l.cfg.MinBackoff
		l.setConnected(true)
		l.log.InfoContext(ctx, "listening for record changes")

		err = l.receive(ctx, conn)
		conn.Close()
		l.setConnected(false)

		if ctx.Err() != nil {
			return
		}
		l.log.WarnContext(ctx, "listen connection lost", slog.String("error", err.Error()))
	}
}

func (l *Listener) receive(ctx context.Context, conn Conn) error {
	for {
		n, err := conn.WaitForNotification(ctx)
		if err != nil {
			return err
		}
		kind, ok := kindFromChannel(n.Channel)
		if !ok {
			l.log.DebugContext(ctx, "ignoring notification", slog.String("channel", n.Channel))
			continue
		}
		l.dispatch(domain.ChangeSignal{Kind: kind, Operation: n.Payload, ReceivedAt: time.Now()})
	}
}

func (l *Listener) dispatch(sig domain.ChangeSignal) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, ch := range l.subs[sig.Kind] {
		select {
		case ch <- sig:
		default:
		}
	}
}

func (l *Listener) setConnected(v bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.connected == v {
		return
	}
	l.connected = v
	for _, ch := range l.watchers {
		select {
		case ch <- v:
		default:
			// Keep only the latest state for slow watchers.
			select {
			case <-ch:
			default:
			}
			ch <- v
		}
	}
}

func kindFromChannel(channel string) (domain.RecordKind, bool) {
	for _, k := range domain.RecordKinds {
		if k.Channel() == channel {
			return k, true
		}
	}
	return "", false
}

func nextBackoff(cur, lo, hi time.Duration) time.Duration {
	if cur < lo {
		return lo
	}
	next := cur * 2
	if next > hi || next <= 0 {
		return hi
	}
	return next
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// PoolConnector acquires a dedicated connection from pool and issues LISTEN
// for every record channel.
func PoolConnector(pool *pgxpool.Pool) Connector {
	return func(ctx context.Context) (Conn, error) {
		c, err := pool.Acquire(ctx)
		if err != nil {
			return nil, fmt.Errorf("listen.acquire: %w", err)
		}
		for _, k := range domain.RecordKinds {
			if _, err := c.Exec(ctx, "LISTEN "+pgx.Identifier{k.Channel()}.Sanitize()); err != nil {
				c.Release()
				return nil, fmt.Errorf("listen.LISTEN %s: %w", k.Channel(), err)
			}
		}
		return &poolConn{conn: c}, nil
	}
}

type poolConn struct {
	conn *pgxpool.Conn
}

func (p *poolConn) WaitForNotification(ctx context.Context) (*pgconn.Notification, error) {
	n, err := p.conn.Conn().WaitForNotification(ctx)
	if err != nil {
		return nil, err
	}
	return n, nil
}

// Close drops the underlying connection instead of returning it to the pool,
// since it still has LISTEN registrations.
func (p *poolConn) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = p.conn.Conn().Close(ctx)
	p.conn.Release()
}

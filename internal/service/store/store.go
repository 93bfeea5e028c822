// Package store holds the application state: the signed-in user and the four
// record collections, kept current by the change feed.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/heartmarshall/mediareport-backend/internal/config"
	"github.com/heartmarshall/mediareport-backend/internal/domain"
)

// State is the lifecycle state of the store.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateLoading       State = "loading"
	StateReady         State = "ready"
	StateDegraded      State = "degraded"
)

// remote is the record backend: fetch-all and insert-one per kind.
type remote interface {
	ListPlatform(ctx context.Context) ([]domain.PlatformData, error)
	ListWebsite(ctx context.Context) ([]domain.WebsiteData, error)
	ListNews(ctx context.Context) ([]domain.NewsData, error)
	ListRPA(ctx context.Context) ([]domain.RPAData, error)

	InsertPlatform(ctx context.Context, rec domain.PlatformData) error
	InsertWebsite(ctx context.Context, rec domain.WebsiteData) error
	InsertNews(ctx context.Context, rec domain.NewsData) error
	InsertRPA(ctx context.Context, rec domain.RPAData) error
}

// changeFeed delivers per-kind change signals and the feed's connection state.
type changeFeed interface {
	Subscribe(kind domain.RecordKind) (<-chan domain.ChangeSignal, func())
	Connectivity() (<-chan bool, func())
}

// sessionSource provides the session the store acts under.
type sessionSource interface {
	Current(ctx context.Context) (*domain.Session, error)
	Changes() (<-chan *domain.Session, func())
}

// Snapshot is an immutable copy of the store state.
type Snapshot struct {
	User       *domain.User
	Platform   []domain.PlatformData
	Website    []domain.WebsiteData
	News       []domain.NewsData
	RPA        []domain.RPAData
	State      State
	Connected  bool
	LastUpdate time.Time
	Error      string
}

// Count returns the size of the collection for kind.
func (s Snapshot) Count(kind domain.RecordKind) int {
	switch kind {
	case domain.KindPlatform:
		return len(s.Platform)
	case domain.KindWebsite:
		return len(s.Website)
	case domain.KindNews:
		return len(s.News)
	case domain.KindRPA:
		return len(s.RPA)
	}
	return 0
}

// Event summarises a state change for observers.
type Event struct {
	State      State
	Connected  bool
	Counts     map[domain.RecordKind]int
	LastUpdate time.Time
	Error      string
	At         time.Time
}

const eventBuffer = 32

// Store owns the in-memory collections. Every mutation happens on the loop
// goroutine; readers get copies.
type Store struct {
	log      *slog.Logger
	remote   remote
	feed     changeFeed
	sessions sessionSource
	cfg      config.StoreConfig
	now      func() time.Time

	mu    sync.RWMutex
	data  collections
	user  *domain.User
	state State
	conn  bool
	last  time.Time
	err   string

	// Loop-owned.
	epoch    uint64
	feedDown bool
	results  chan fetchResult

	subMu  sync.Mutex
	subs   map[int]chan Event
	nextID int

	cancel   context.CancelFunc
	disposes []func()
	wg       sync.WaitGroup
	started  bool
	closed   bool
}

// New creates a store. Call Start to load data and begin consuming changes.
func New(logger *slog.Logger, remote remote, feed changeFeed, sessions sessionSource, cfg config.StoreConfig) *Store {
	return &Store{
		log:      logger.With("service", "store"),
		remote:   remote,
		feed:     feed,
		sessions: sessions,
		cfg:      cfg,
		now:      time.Now,
		state:    StateUninitialized,
		results:  make(chan fetchResult),
		subs:     make(map[int]chan Event),
	}
}

// Start bootstraps the session, subscribes to the change feed and auth-state
// changes, runs the initial load when signed in and starts the consumption
// loop. It returns after the initial load settles; a failed load leaves the
// store degraded and is not returned as an error.
func (s *Store) Start(ctx context.Context) error {
	if s.started {
		return fmt.Errorf("store.Start: already started")
	}
	s.started = true

	session, err := s.sessions.Current(ctx)
	if err != nil {
		return fmt.Errorf("store.Start bootstrap session: %w", err)
	}

	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel

	// Subscribe before loading so changes made during the load are not lost.
	signals := make(map[domain.RecordKind]<-chan domain.ChangeSignal, len(domain.RecordKinds))
	for _, kind := range domain.RecordKinds {
		ch, dispose := s.feed.Subscribe(kind)
		signals[kind] = ch
		s.disposes = append(s.disposes, dispose)
	}
	connCh, disposeConn := s.feed.Connectivity()
	authCh, disposeAuth := s.sessions.Changes()
	s.disposes = append(s.disposes, disposeConn, disposeAuth)

	if session != nil {
		s.signIn(session)
		s.applyResult(s.loadAll(ctx, s.epoch))
	} else {
		s.log.InfoContext(ctx, "store started without session")
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(loopCtx, signals, connCh, authCh)
	}()

	return nil
}

// Close stops the loop, disposes every subscription and waits for the loop
// to exit. Pending fetches are abandoned.
func (s *Store) Close() {
	if s.closed {
		return
	}
	s.closed = true
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	for _, dispose := range s.disposes {
		dispose()
	}

	s.subMu.Lock()
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
	s.subMu.Unlock()
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Platform:   slices.Clone(s.data.platform),
		Website:    slices.Clone(s.data.website),
		News:       slices.Clone(s.data.news),
		RPA:        slices.Clone(s.data.rpa),
		State:      s.state,
		Connected:  s.conn,
		LastUpdate: s.last,
		Error:      s.err,
	}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	return snap
}

// Events subscribes to state change summaries. When a subscriber falls
// behind, the oldest pending event is dropped. The returned function cancels
// the subscription.
func (s *Store) Events() (<-chan Event, func()) {
	ch := make(chan Event, eventBuffer)

	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	s.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			if _, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(ch)
			}
		})
	}
}

// update applies fn under the write lock and publishes the resulting event.
func (s *Store) update(fn func()) {
	s.mu.Lock()
	fn()
	ev := Event{
		State:      s.state,
		Connected:  s.conn,
		LastUpdate: s.last,
		Error:      s.err,
		At:         s.now(),
		Counts: map[domain.RecordKind]int{
			domain.KindPlatform: len(s.data.platform),
			domain.KindWebsite:  len(s.data.website),
			domain.KindNews:     len(s.data.news),
			domain.KindRPA:      len(s.data.rpa),
		},
	}
	s.mu.Unlock()

	s.publish(ev)
}

func (s *Store) publish(ev Event) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- ev:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- ev:
		default:
		}
	}
}

package store

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/mediareport-backend/internal/domain"
)

// run is the single consumption loop. It drains the per-kind signal channels,
// connectivity and auth-state changes and fetch results, and is the only
// goroutine that changes store state after Start.
func (s *Store) run(
	ctx context.Context,
	signals map[domain.RecordKind]<-chan domain.ChangeSignal,
	connCh <-chan bool,
	authCh <-chan *domain.Session,
) {
	platformCh := signals[domain.KindPlatform]
	websiteCh := signals[domain.KindWebsite]
	newsCh := signals[domain.KindNews]
	rpaCh := signals[domain.KindRPA]

	for {
		var sig domain.ChangeSignal
		var ok bool

		select {
		case <-ctx.Done():
			return

		case sig, ok = <-platformCh:
			if !ok {
				platformCh = nil
				continue
			}
		case sig, ok = <-websiteCh:
			if !ok {
				websiteCh = nil
				continue
			}
		case sig, ok = <-newsCh:
			if !ok {
				newsCh = nil
				continue
			}
		case sig, ok = <-rpaCh:
			if !ok {
				rpaCh = nil
				continue
			}

		case up, open := <-connCh:
			if !open {
				connCh = nil
				continue
			}
			s.onConnectivity(ctx, up)
			continue

		case session, open := <-authCh:
			if !open {
				authCh = nil
				continue
			}
			s.onSession(ctx, session)
			continue

		case res := <-s.results:
			s.applyResult(res)
			continue
		}

		s.onSignal(ctx, sig)
	}
}

// onSignal starts a full re-fetch of the signalled kind. Re-fetches are not
// serialised; whichever resolves last determines the collection.
func (s *Store) onSignal(ctx context.Context, sig domain.ChangeSignal) {
	if !s.signedIn() {
		return
	}
	s.log.DebugContext(ctx, "change signal",
		slog.String("kind", string(sig.Kind)),
		slog.String("op", sig.Operation))

	epoch := s.epoch
	s.spawn(ctx, func() fetchResult { return s.fetchKind(ctx, epoch, sig.Kind) })
}

// onConnectivity tracks the change feed connection. Coming back after a loss
// triggers a full reload since signals may have been missed.
func (s *Store) onConnectivity(ctx context.Context, up bool) {
	if !up {
		if !s.feedDown {
			s.log.WarnContext(ctx, "change feed disconnected")
		}
		s.feedDown = true
		s.update(func() { s.conn = false })
		return
	}

	if !s.feedDown {
		return
	}
	s.feedDown = false
	s.log.InfoContext(ctx, "change feed reconnected, reloading")
	if !s.signedIn() {
		return
	}
	epoch := s.epoch
	s.spawn(ctx, func() fetchResult { return s.loadAll(ctx, epoch) })
}

// onSession handles sign-in and sign-out. Subscriptions stay in place across
// sessions; signals are ignored while signed out.
func (s *Store) onSession(ctx context.Context, session *domain.Session) {
	if session == nil {
		s.signOut()
		return
	}
	s.signIn(session)
	epoch := s.epoch
	s.spawn(ctx, func() fetchResult { return s.loadAll(ctx, epoch) })
}

// spawn runs fetch on its own goroutine and hands the result to the loop.
func (s *Store) spawn(ctx context.Context, fetch func() fetchResult) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		res := fetch()
		select {
		case s.results <- res:
		case <-ctx.Done():
		}
	}()
}

func (s *Store) signedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

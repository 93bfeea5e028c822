package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/mediareport-backend/internal/domain"
)

// collections holds the four record slices. The store replaces slices
// wholesale and never mutates one in place.
type collections struct {
	platform []domain.PlatformData
	website  []domain.WebsiteData
	news     []domain.NewsData
	rpa      []domain.RPAData
}

// fetchResult carries a completed fetch back to the loop. kind is empty for a
// full load of every kind.
type fetchResult struct {
	epoch uint64
	kind  domain.RecordKind
	data  collections
	err   error
}

// loadAll fetches every kind concurrently and settles once all four finish.
func (s *Store) loadAll(ctx context.Context, epoch uint64) fetchResult {
	var data collections

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		data.platform, err = s.remote.ListPlatform(gctx)
		return wrapFetch(domain.KindPlatform, err)
	})
	g.Go(func() error {
		var err error
		data.website, err = s.remote.ListWebsite(gctx)
		return wrapFetch(domain.KindWebsite, err)
	})
	g.Go(func() error {
		var err error
		data.news, err = s.remote.ListNews(gctx)
		return wrapFetch(domain.KindNews, err)
	})
	g.Go(func() error {
		var err error
		data.rpa, err = s.listRPA(gctx)
		return wrapFetch(domain.KindRPA, err)
	})

	return fetchResult{epoch: epoch, data: data, err: g.Wait()}
}

// fetchKind re-fetches a single kind.
func (s *Store) fetchKind(ctx context.Context, epoch uint64, kind domain.RecordKind) fetchResult {
	res := fetchResult{epoch: epoch, kind: kind}
	var err error
	switch kind {
	case domain.KindPlatform:
		res.data.platform, err = s.remote.ListPlatform(ctx)
	case domain.KindWebsite:
		res.data.website, err = s.remote.ListWebsite(ctx)
	case domain.KindNews:
		res.data.news, err = s.remote.ListNews(ctx)
	case domain.KindRPA:
		res.data.rpa, err = s.listRPA(ctx)
	default:
		err = fmt.Errorf("unknown record kind %q", kind)
	}
	res.err = wrapFetch(kind, err)
	return res
}

// listRPA treats a missing rpa_data table as an empty collection when allowed.
func (s *Store) listRPA(ctx context.Context) ([]domain.RPAData, error) {
	recs, err := s.remote.ListRPA(ctx)
	if err != nil && s.cfg.TolerateMissingRPA && errors.Is(err, domain.ErrTableMissing) {
		s.log.DebugContext(ctx, "rpa table missing, using empty collection")
		return []domain.RPAData{}, nil
	}
	return recs, err
}

func wrapFetch(kind domain.RecordKind, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("fetch %s: %w", kind.Label(), err)
}

// applyResult folds a completed fetch into the state. Results from a previous
// session are dropped. Within a session the last result to arrive wins.
// While a full load is pending only its result may leave the loading state;
// a single-kind result just replaces that collection.
func (s *Store) applyResult(res fetchResult) {
	if res.epoch != s.epoch {
		return
	}
	partial := res.kind != ""
	loading := s.state == StateLoading

	if res.err != nil {
		if errors.Is(res.err, context.Canceled) {
			return
		}
		s.log.Error("store fetch failed", slog.String("error", res.err.Error()))
		if partial && loading {
			return
		}
		s.update(func() {
			s.state = StateDegraded
			s.conn = false
			s.err = userMessage(res.err)
		})
		return
	}

	s.update(func() {
		switch res.kind {
		case "":
			s.data = nonNil(res.data)
		case domain.KindPlatform:
			s.data.platform = nonNilSlice(res.data.platform)
		case domain.KindWebsite:
			s.data.website = nonNilSlice(res.data.website)
		case domain.KindNews:
			s.data.news = nonNilSlice(res.data.news)
		case domain.KindRPA:
			s.data.rpa = nonNilSlice(res.data.rpa)
		}
		if partial && loading {
			return
		}
		s.state = StateReady
		s.conn = !s.feedDown
		s.err = ""
		s.last = s.now()
	})
}

// signIn starts a new session epoch and moves to loading.
func (s *Store) signIn(session *domain.Session) {
	s.epoch++
	user := session.User()
	s.update(func() {
		s.user = &user
		s.state = StateLoading
		s.err = ""
	})
	s.log.Info("store session started",
		slog.String("user_id", user.ID.String()),
		slog.String("role", user.Role.String()))
}

// signOut clears the user and every collection.
func (s *Store) signOut() {
	s.epoch++
	s.update(func() {
		s.user = nil
		s.data = collections{}
		s.state = StateUninitialized
		s.conn = false
		s.err = ""
		s.last = time.Time{}
	})
	s.log.Info("store session ended")
}

// userMessage renders a fetch error for display.
func userMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrTableMissing):
		return "Failed to load data: a report table is missing"
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrForbidden):
		return "Failed to load data: access denied"
	default:
		return "Failed to load data: " + err.Error()
	}
}

func nonNil(c collections) collections {
	return collections{
		platform: nonNilSlice(c.platform),
		website:  nonNilSlice(c.website),
		news:     nonNilSlice(c.news),
		rpa:      nonNilSlice(c.rpa),
	}
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

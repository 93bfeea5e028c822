package store

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/heartmarshall/mediareport-backend/internal/domain"
	"github.com/heartmarshall/mediareport-backend/pkg/ctxutil"
)

// AddPlatform validates and inserts a platform record. The collection is not
// updated locally; the change feed delivers the new record.
func (s *Store) AddPlatform(ctx context.Context, in PlatformInput) error {
	if err := in.Validate(); err != nil {
		return err
	}
	ctx, author, err := s.author(ctx)
	if err != nil {
		return fmt.Errorf("store.AddPlatform: %w", err)
	}

	rec := domain.PlatformData{
		Entry:    in.entry(author),
		Platform: strings.TrimSpace(in.Platform),
		Metrics: domain.PlatformMetrics{
			Followers:   in.Followers,
			Engagement:  in.Engagement,
			Reach:       in.Reach,
			Impressions: in.Impressions,
			Clicks:      in.Clicks,
			Conversions: in.Conversions,
		},
	}
	if err := s.remote.InsertPlatform(ctx, rec); err != nil {
		return fmt.Errorf("store.AddPlatform: %w", err)
	}
	s.logInsert(ctx, domain.KindPlatform, rec.Entry)
	return nil
}

// AddWebsite validates and inserts a website record.
func (s *Store) AddWebsite(ctx context.Context, in WebsiteInput) error {
	if err := in.Validate(); err != nil {
		return err
	}
	ctx, author, err := s.author(ctx)
	if err != nil {
		return fmt.Errorf("store.AddWebsite: %w", err)
	}

	rec := domain.WebsiteData{
		Entry:              in.entry(author),
		Visitors:           in.Visitors,
		PageViews:          in.PageViews,
		BounceRate:         in.BounceRate,
		AvgSessionDuration: in.AvgSessionDuration,
		Conversions:        in.Conversions,
		TopPages:           compact(in.TopPages),
	}
	if err := s.remote.InsertWebsite(ctx, rec); err != nil {
		return fmt.Errorf("store.AddWebsite: %w", err)
	}
	s.logInsert(ctx, domain.KindWebsite, rec.Entry)
	return nil
}

// AddNews validates and inserts a news record.
func (s *Store) AddNews(ctx context.Context, in NewsInput) error {
	if err := in.Validate(); err != nil {
		return err
	}
	ctx, author, err := s.author(ctx)
	if err != nil {
		return fmt.Errorf("store.AddNews: %w", err)
	}

	rec := domain.NewsData{
		Entry:      in.entry(author),
		Mentions:   in.Mentions,
		Sentiment:  domain.Sentiment(strings.ToLower(strings.TrimSpace(in.Sentiment))),
		Reach:      in.Reach,
		TopSources: compact(in.TopSources),
	}
	if err := s.remote.InsertNews(ctx, rec); err != nil {
		return fmt.Errorf("store.AddNews: %w", err)
	}
	s.logInsert(ctx, domain.KindNews, rec.Entry)
	return nil
}

// AddRPA validates and inserts an RPA record.
func (s *Store) AddRPA(ctx context.Context, in RPAInput) error {
	if err := in.Validate(); err != nil {
		return err
	}
	ctx, author, err := s.author(ctx)
	if err != nil {
		return fmt.Errorf("store.AddRPA: %w", err)
	}

	rec := domain.RPAData{
		Entry:              in.entry(author),
		TotalIncomingMails: in.TotalIncomingMails,
		TotalDistributed:   in.TotalDistributed,
		TopRedirectedUnits: domain.RedirectedUnits{
			Unit1: strings.TrimSpace(in.Unit1),
			Unit2: strings.TrimSpace(in.Unit2),
			Unit3: strings.TrimSpace(in.Unit3),
		},
	}
	if err := s.remote.InsertRPA(ctx, rec); err != nil {
		return fmt.Errorf("store.AddRPA: %w", err)
	}
	s.logInsert(ctx, domain.KindRPA, rec.Entry)
	return nil
}

// author resolves who is entering the record: the caller identity in ctx, or
// the store's session user. The returned context always carries an identity.
func (s *Store) author(ctx context.Context) (context.Context, string, error) {
	if ident, ok := ctxutil.IdentityFromCtx(ctx); ok {
		if ident.Name == "" {
			return ctx, "", domain.ErrUnauthorized
		}
		return ctx, ident.Name, nil
	}

	s.mu.RLock()
	user := s.user
	s.mu.RUnlock()
	if user == nil {
		return ctx, "", domain.ErrUnauthorized
	}

	ctx = ctxutil.WithIdentity(ctx, ctxutil.Identity{
		UserID: user.ID,
		Name:   user.Name,
		Role:   user.Role.String(),
	})
	return ctx, user.Name, nil
}

func (s *Store) logInsert(ctx context.Context, kind domain.RecordKind, e domain.Entry) {
	s.log.InfoContext(ctx, "record inserted",
		slog.String("kind", string(kind)),
		slog.String("period", e.Period().String()),
		slog.String("entered_by", e.EnteredBy))
}

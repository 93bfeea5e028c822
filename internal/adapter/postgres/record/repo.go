// Package record implements fetch-all and insert-one for the four record tables.
package record

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	postgres "github.com/heartmarshall/mediareport-backend/internal/adapter/postgres"
	"github.com/heartmarshall/mediareport-backend/internal/domain"
	"github.com/heartmarshall/mediareport-backend/pkg/ctxutil"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repo reads and writes dashboard records.
type Repo struct {
	db postgres.Querier
}

// New creates a new record repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// ListPlatform returns all platform records, newest first.
func (r *Repo) ListPlatform(ctx context.Context) ([]domain.PlatformData, error) {
	rows, err := selectAll[PlatformRow](ctx, r.db, domain.KindPlatform, platformColumns)
	if err != nil {
		return nil, err
	}
	return ConvertPlatform(rows), nil
}

// ListWebsite returns all website records, newest first.
func (r *Repo) ListWebsite(ctx context.Context) ([]domain.WebsiteData, error) {
	rows, err := selectAll[WebsiteRow](ctx, r.db, domain.KindWebsite, websiteColumns)
	if err != nil {
		return nil, err
	}
	return ConvertWebsite(rows), nil
}

// ListNews returns all news records, newest first.
func (r *Repo) ListNews(ctx context.Context) ([]domain.NewsData, error) {
	rows, err := selectAll[NewsRow](ctx, r.db, domain.KindNews, newsColumns)
	if err != nil {
		return nil, err
	}
	return ConvertNews(rows), nil
}

// ListRPA returns all RPA records, newest first.
// Returns domain.ErrTableMissing when rpa_data has not been migrated.
func (r *Repo) ListRPA(ctx context.Context) ([]domain.RPAData, error) {
	rows, err := selectAll[RPARow](ctx, r.db, domain.KindRPA, rpaColumns)
	if err != nil {
		return nil, err
	}
	return ConvertRPA(rows), nil
}

func selectAll[T any](ctx context.Context, db postgres.Querier, kind domain.RecordKind, columns []string) ([]T, error) {
	query, args, err := psql.Select(columns...).
		From(kind.Table()).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("record.List %s build query: %w", kind, err)
	}

	var rows []T
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, db), &rows, query, args...); err != nil {
		return nil, postgres.MapError(err, kind.Table())
	}
	return rows, nil
}

// InsertPlatform stores a platform record for the caller in ctx.
func (r *Repo) InsertPlatform(ctx context.Context, rec domain.PlatformData) error {
	metrics := map[string]int64{
		"followers":   rec.Metrics.Followers,
		"engagement":  rec.Metrics.Engagement,
		"reach":       rec.Metrics.Reach,
		"impressions": rec.Metrics.Impressions,
		"clicks":      rec.Metrics.Clicks,
		"conversions": rec.Metrics.Conversions,
	}
	return r.insert(ctx, domain.KindPlatform, rec.Entry,
		[]string{"platform", "metrics"},
		[]any{rec.Platform, metrics},
	)
}

// InsertWebsite stores a website record for the caller in ctx.
func (r *Repo) InsertWebsite(ctx context.Context, rec domain.WebsiteData) error {
	return r.insert(ctx, domain.KindWebsite, rec.Entry,
		[]string{"visitors", "page_views", "bounce_rate", "avg_session_duration", "conversions", "top_pages"},
		[]any{rec.Visitors, rec.PageViews, rec.BounceRate, rec.AvgSessionDuration, rec.Conversions, CompactList(rec.TopPages)},
	)
}

// InsertNews stores a news record for the caller in ctx.
func (r *Repo) InsertNews(ctx context.Context, rec domain.NewsData) error {
	return r.insert(ctx, domain.KindNews, rec.Entry,
		[]string{"mentions", "sentiment", "reach", "top_sources"},
		[]any{rec.Mentions, string(rec.Sentiment), rec.Reach, list(rec.TopSources)},
	)
}

// InsertRPA stores an RPA record for the caller in ctx.
func (r *Repo) InsertRPA(ctx context.Context, rec domain.RPAData) error {
	units := map[string]string{
		"unit1": rec.TopRedirectedUnits.Unit1,
		"unit2": rec.TopRedirectedUnits.Unit2,
		"unit3": rec.TopRedirectedUnits.Unit3,
	}
	return r.insert(ctx, domain.KindRPA, rec.Entry,
		[]string{"total_incoming_mails", "total_distributed", "top_redirected_units"},
		[]any{rec.TotalIncomingMails, rec.TotalDistributed, units},
	)
}

// insert appends the shared entry columns and the caller identity to the
// kind-specific columns. The created record is not returned; it shows up
// through the change feed.
func (r *Repo) insert(ctx context.Context, kind domain.RecordKind, e domain.Entry, columns []string, values []any) error {
	ident, ok := ctxutil.IdentityFromCtx(ctx)
	if !ok {
		return fmt.Errorf("record.Insert %s: %w", kind, domain.ErrUnauthorized)
	}

	enteredBy := e.EnteredBy
	if enteredBy == "" {
		enteredBy = ident.Name
	}

	columns = append(columns, "month", "year", "entered_by", "user_id")
	values = append(values, e.Month, e.Year, enteredBy, ident.UserID)

	query, args, err := psql.Insert(kind.Table()).
		Columns(columns...).
		Values(values...).
		ToSql()
	if err != nil {
		return fmt.Errorf("record.Insert %s build query: %w", kind, err)
	}

	if _, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, kind.Table())
	}
	return nil
}

package record

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/mediareport-backend/internal/domain"
	"github.com/heartmarshall/mediareport-backend/pkg/ctxutil"
)

func newMock(t *testing.T) (*Repo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return New(mock), mock
}

func callerCtx() (context.Context, ctxutil.Identity) {
	ident := ctxutil.Identity{UserID: uuid.New(), Name: "Ayşe", Role: "staff"}
	return ctxutil.WithIdentity(context.Background(), ident), ident
}

func TestRepo_ListPlatform(t *testing.T) {
	t.Parallel()

	repo, mock := newMock(t)
	id := uuid.New()
	created := time.Date(2024, 7, 20, 9, 0, 0, 0, time.UTC)

	rows := pgxmock.NewRows(platformColumns).
		AddRow(id, ptr("Instagram"), map[string]any{"followers": float64(1000)}, ptr("July"), ptr(int64(2024)), ptr("Ayşe"), &created)
	mock.ExpectQuery(`SELECT (.+) FROM platform_data ORDER BY created_at DESC`).
		WillReturnRows(rows)

	got, err := repo.ListPlatform(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, id, got[0].ID)
	assert.Equal(t, int64(1000), got[0].Metrics.Followers)
	assert.Equal(t, "Ayşe", got[0].EnteredBy)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_ListNews_Empty(t *testing.T) {
	t.Parallel()

	repo, mock := newMock(t)
	mock.ExpectQuery(`SELECT (.+) FROM news_data`).
		WillReturnRows(pgxmock.NewRows(newsColumns))

	got, err := repo.ListNews(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_ListRPA_MissingTable(t *testing.T) {
	t.Parallel()

	repo, mock := newMock(t)
	mock.ExpectQuery(`SELECT (.+) FROM rpa_data`).
		WillReturnError(&pgconn.PgError{Code: "42P01", Message: `relation "rpa_data" does not exist`})

	_, err := repo.ListRPA(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTableMissing), "got %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_ListWebsite_BackendError(t *testing.T) {
	t.Parallel()

	repo, mock := newMock(t)
	boom := errors.New("connection reset")
	mock.ExpectQuery(`SELECT (.+) FROM website_data`).WillReturnError(boom)

	_, err := repo.ListWebsite(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, domain.ErrTableMissing)
}

func TestRepo_InsertPlatform(t *testing.T) {
	t.Parallel()

	repo, mock := newMock(t)
	ctx, ident := callerCtx()

	mock.ExpectExec(`INSERT INTO platform_data \(platform,metrics,month,year,entered_by,user_id\)`).
		WithArgs("Instagram", pgxmock.AnyArg(), "July", 2024, "Ayşe", ident.UserID).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.InsertPlatform(ctx, domain.PlatformData{
		Entry:    domain.Entry{Month: "July", Year: 2024},
		Platform: "Instagram",
		Metrics:  domain.PlatformMetrics{Followers: 1000},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_InsertNews_ExplicitEnteredBy(t *testing.T) {
	t.Parallel()

	repo, mock := newMock(t)
	ctx, ident := callerCtx()

	mock.ExpectExec(`INSERT INTO news_data`).
		WithArgs(int64(3), "negative", int64(900), []string{"BBC"}, "August", 2024, "Mehmet", ident.UserID).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repo.InsertNews(ctx, domain.NewsData{
		Entry:      domain.Entry{Month: "August", Year: 2024, EnteredBy: "Mehmet"},
		Mentions:   3,
		Sentiment:  domain.SentimentNegative,
		Reach:      900,
		TopSources: []string{"BBC"},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_Insert_NoIdentity(t *testing.T) {
	t.Parallel()

	repo, mock := newMock(t)

	err := repo.InsertRPA(context.Background(), domain.RPAData{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_Insert_CheckViolation(t *testing.T) {
	t.Parallel()

	repo, mock := newMock(t)
	ctx, _ := callerCtx()

	mock.ExpectExec(`INSERT INTO news_data`).
		WillReturnError(&pgconn.PgError{Code: "23514", ConstraintName: "news_data_sentiment_check"})

	err := repo.InsertNews(ctx, domain.NewsData{Sentiment: "ecstatic"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

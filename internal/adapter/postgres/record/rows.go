package record

import (
	"time"

	"github.com/google/uuid"
)

// Raw rows as stored in PostgreSQL. Every nullable column is a pointer and
// JSON columns are loosely typed so that conversion can be total.

// PlatformRow is a platform_data row.
type PlatformRow struct {
	ID        uuid.UUID      `db:"id"`
	Platform  *string        `db:"platform"`
	Metrics   map[string]any `db:"metrics"`
	Month     *string        `db:"month"`
	Year      *int64         `db:"year"`
	EnteredBy *string        `db:"entered_by"`
	CreatedAt *time.Time     `db:"created_at"`
}

// WebsiteRow is a website_data row.
type WebsiteRow struct {
	ID                 uuid.UUID  `db:"id"`
	Visitors           *int64     `db:"visitors"`
	PageViews          *int64     `db:"page_views"`
	BounceRate         *float64   `db:"bounce_rate"`
	AvgSessionDuration *float64   `db:"avg_session_duration"`
	Conversions        *int64     `db:"conversions"`
	TopPages           []string   `db:"top_pages"`
	Month              *string    `db:"month"`
	Year               *int64     `db:"year"`
	EnteredBy          *string    `db:"entered_by"`
	CreatedAt          *time.Time `db:"created_at"`
}

// NewsRow is a news_data row.
type NewsRow struct {
	ID         uuid.UUID  `db:"id"`
	Mentions   *int64     `db:"mentions"`
	Sentiment  *string    `db:"sentiment"`
	Reach      *int64     `db:"reach"`
	TopSources []string   `db:"top_sources"`
	Month      *string    `db:"month"`
	Year       *int64     `db:"year"`
	EnteredBy  *string    `db:"entered_by"`
	CreatedAt  *time.Time `db:"created_at"`
}

// RPARow is an rpa_data row.
type RPARow struct {
	ID                 uuid.UUID      `db:"id"`
	TotalIncomingMails *int64         `db:"total_incoming_mails"`
	TotalDistributed   *int64         `db:"total_distributed"`
	TopRedirectedUnits map[string]any `db:"top_redirected_units"`
	Month              *string        `db:"month"`
	Year               *int64         `db:"year"`
	EnteredBy          *string        `db:"entered_by"`
	CreatedAt          *time.Time     `db:"created_at"`
}

var (
	platformColumns = []string{"id", "platform", "metrics", "month", "year", "entered_by", "created_at"}
	websiteColumns  = []string{
		"id", "visitors", "page_views", "bounce_rate", "avg_session_duration", "conversions",
		"top_pages", "month", "year", "entered_by", "created_at",
	}
	newsColumns = []string{"id", "mentions", "sentiment", "reach", "top_sources", "month", "year", "entered_by", "created_at"}
	rpaColumns  = []string{
		"id", "total_incoming_mails", "total_distributed", "top_redirected_units",
		"month", "year", "entered_by", "created_at",
	}
)

package domain

import (
	"time"

	"github.com/google/uuid"
)

// Record is the behaviour shared by all four record kinds.
type Record interface {
	RecordKind() RecordKind
	Author() string
	Period() Period
	CreatedAt() time.Time
}

// Entry holds the fields every record carries.
type Entry struct {
	ID        uuid.UUID
	Month     string
	Year      int
	EnteredBy string
	EnteredAt time.Time
}

func (e Entry) Author() string       { return e.EnteredBy }
func (e Entry) Period() Period       { return PeriodOf(e.Month, e.Year) }
func (e Entry) CreatedAt() time.Time { return e.EnteredAt }

// PlatformMetrics are the monthly social media counters for one platform.
type PlatformMetrics struct {
	Followers   int64
	Engagement  int64
	Reach       int64
	Impressions int64
	Clicks      int64
	Conversions int64
}

// PlatformData is one month of metrics for a social media platform.
type PlatformData struct {
	Entry
	Platform string
	Metrics  PlatformMetrics
}

func (PlatformData) RecordKind() RecordKind { return KindPlatform }

// WebsiteData is one month of website analytics.
type WebsiteData struct {
	Entry
	Visitors           int64
	PageViews          int64
	BounceRate         float64 // percent
	AvgSessionDuration float64 // minutes
	Conversions        int64
	TopPages           []string
}

func (WebsiteData) RecordKind() RecordKind { return KindWebsite }

// NewsData is one month of press coverage.
type NewsData struct {
	Entry
	Mentions   int64
	Sentiment  Sentiment
	Reach      int64
	TopSources []string
}

func (NewsData) RecordKind() RecordKind { return KindNews }

// RedirectedUnits names the three units that received the most redirected mail.
type RedirectedUnits struct {
	Unit1 string
	Unit2 string
	Unit3 string
}

// RPAData is one month of mail-distribution automation statistics.
// TotalDistributed is expected to not exceed TotalIncomingMails but this is not enforced.
type RPAData struct {
	Entry
	TotalIncomingMails int64
	TotalDistributed   int64
	TopRedirectedUnits RedirectedUnits
}

func (RPAData) RecordKind() RecordKind { return KindRPA }

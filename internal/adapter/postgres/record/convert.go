package record

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/mediareport-backend/internal/domain"
)

// Converters are total: NULL numbers become 0, NULL lists become empty
// slices, unknown sentiment becomes neutral. They never fail.

// ConvertPlatform maps raw platform rows to domain records.
func ConvertPlatform(rows []PlatformRow) []domain.PlatformData {
	out := make([]domain.PlatformData, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.PlatformData{
			Entry:    entry(r.ID, r.Month, r.Year, r.EnteredBy, r.CreatedAt),
			Platform: str(r.Platform),
			Metrics: domain.PlatformMetrics{
				Followers:   Int(r.Metrics["followers"]),
				Engagement:  Int(r.Metrics["engagement"]),
				Reach:       Int(r.Metrics["reach"]),
				Impressions: Int(r.Metrics["impressions"]),
				Clicks:      Int(r.Metrics["clicks"]),
				Conversions: Int(r.Metrics["conversions"]),
			},
		})
	}
	return out
}

// ConvertWebsite maps raw website rows to domain records.
func ConvertWebsite(rows []WebsiteRow) []domain.WebsiteData {
	out := make([]domain.WebsiteData, 0, len(rows))
	for _, r := range rows {
		rec := domain.WebsiteData{
			Entry:              entry(r.ID, r.Month, r.Year, r.EnteredBy, r.CreatedAt),
			Visitors:           i64(r.Visitors),
			PageViews:          i64(r.PageViews),
			BounceRate:         f64(r.BounceRate),
			AvgSessionDuration: f64(r.AvgSessionDuration),
			Conversions:        i64(r.Conversions),
			TopPages:           CompactList(r.TopPages),
		}
		out = append(out, rec)
	}
	return out
}

// ConvertNews maps raw news rows to domain records.
func ConvertNews(rows []NewsRow) []domain.NewsData {
	out := make([]domain.NewsData, 0, len(rows))
	for _, r := range rows {
		rec := domain.NewsData{
			Entry:      entry(r.ID, r.Month, r.Year, r.EnteredBy, r.CreatedAt),
			Mentions:   i64(r.Mentions),
			Sentiment:  NormalizeSentiment(str(r.Sentiment)),
			Reach:      i64(r.Reach),
			TopSources: list(r.TopSources),
		}
		out = append(out, rec)
	}
	return out
}

// ConvertRPA maps raw RPA rows to domain records.
func ConvertRPA(rows []RPARow) []domain.RPAData {
	out := make([]domain.RPAData, 0, len(rows))
	for _, r := range rows {
		rec := domain.RPAData{
			Entry:              entry(r.ID, r.Month, r.Year, r.EnteredBy, r.CreatedAt),
			TotalIncomingMails: i64(r.TotalIncomingMails),
			TotalDistributed:   i64(r.TotalDistributed),
			TopRedirectedUnits: domain.RedirectedUnits{
				Unit1: Text(r.TopRedirectedUnits["unit1"]),
				Unit2: Text(r.TopRedirectedUnits["unit2"]),
				Unit3: Text(r.TopRedirectedUnits["unit3"]),
			},
		}
		out = append(out, rec)
	}
	return out
}

// NormalizeSentiment accepts known values case-insensitively and clamps
// anything else to neutral.
func NormalizeSentiment(s string) domain.Sentiment {
	v := domain.Sentiment(strings.ToLower(strings.TrimSpace(s)))
	if v.IsValid() {
		return v
	}
	return domain.SentimentNeutral
}

// Int coerces a loosely typed JSON value to an integer.
// Numbers are truncated, numeric strings are parsed, anything else is 0.
func Int(v any) int64 {
	switch n := v.(type) {
	case nil:
		return 0
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	case float32:
		return floatToInt(float64(n))
	case float64:
		return floatToInt(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i
		}
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return floatToInt(f)
	case string:
		return parseInt(n)
	}
	return 0
}

// Text returns v when it is a string, otherwise "".
func Text(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// CompactList trims entries and drops empty ones. The result is never nil.
func CompactList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func parseInt(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return floatToInt(f)
}

func floatToInt(f float64) int64 {
	if math.IsNaN(f) || math.IsInf(f, 0) || f > math.MaxInt64 || f < math.MinInt64 {
		return 0
	}
	return int64(f)
}

func entry(id uuid.UUID, month *string, year *int64, enteredBy *string, createdAt *time.Time) domain.Entry {
	e := domain.Entry{
		ID:        id,
		Month:     str(month),
		Year:      int(i64(year)),
		EnteredBy: str(enteredBy),
	}
	if createdAt != nil {
		e.EnteredAt = *createdAt
	}
	return e
}

func list(in []string) []string {
	if in == nil {
		return []string{}
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func i64(p *int64) int64 {
	if p == nil {
		return 0
	}
	return *p
}

func f64(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

package record

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/mediareport-backend/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func TestConverters_EmptyInput(t *testing.T) {
	t.Parallel()

	p := ConvertPlatform(nil)
	w := ConvertWebsite([]WebsiteRow{})
	n := ConvertNews(nil)
	r := ConvertRPA(nil)

	assert.NotNil(t, p)
	assert.Empty(t, p)
	assert.NotNil(t, w)
	assert.Empty(t, w)
	assert.NotNil(t, n)
	assert.Empty(t, n)
	assert.NotNil(t, r)
	assert.Empty(t, r)
}

func TestConvertPlatform_MissingMetricDefaultsToZero(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	created := time.Date(2024, 7, 15, 10, 0, 0, 0, time.UTC)
	rows := []PlatformRow{{
		ID:        id,
		Platform:  ptr("Instagram"),
		Metrics:   map[string]any{"followers": float64(1000), "reach": "2500"},
		Month:     ptr("July"),
		Year:      ptr(int64(2024)),
		EnteredBy: ptr("Ayşe"),
		CreatedAt: &created,
	}}

	got := ConvertPlatform(rows)
	require.Len(t, got, 1)

	rec := got[0]
	assert.Equal(t, id, rec.ID)
	assert.Equal(t, "Instagram", rec.Platform)
	assert.Equal(t, int64(1000), rec.Metrics.Followers)
	assert.Equal(t, int64(2500), rec.Metrics.Reach)
	assert.Zero(t, rec.Metrics.Engagement)
	assert.Zero(t, rec.Metrics.Impressions)
	assert.Zero(t, rec.Metrics.Clicks)
	assert.Zero(t, rec.Metrics.Conversions)
	assert.Equal(t, "July", rec.Month)
	assert.Equal(t, 2024, rec.Year)
	assert.Equal(t, "Ayşe", rec.EnteredBy)
	assert.Equal(t, created, rec.EnteredAt)
}

func TestConvertPlatform_NilMetricsAndFields(t *testing.T) {
	t.Parallel()

	got := ConvertPlatform([]PlatformRow{{ID: uuid.New()}})
	require.Len(t, got, 1)
	assert.Equal(t, domain.PlatformMetrics{}, got[0].Metrics)
	assert.Empty(t, got[0].Platform)
	assert.Zero(t, got[0].Year)
	assert.True(t, got[0].EnteredAt.IsZero())
}

func TestConvertWebsite_NullColumns(t *testing.T) {
	t.Parallel()

	got := ConvertWebsite([]WebsiteRow{{
		ID:         uuid.New(),
		Visitors:   ptr(int64(1200)),
		BounceRate: ptr(42.5),
		TopPages:   []string{"/home", " ", "", "/about "},
	}})
	require.Len(t, got, 1)

	rec := got[0]
	assert.Equal(t, int64(1200), rec.Visitors)
	assert.Zero(t, rec.PageViews)
	assert.Zero(t, rec.Conversions)
	assert.InDelta(t, 42.5, rec.BounceRate, 1e-9)
	assert.Zero(t, rec.AvgSessionDuration)
	assert.Equal(t, []string{"/home", "/about"}, rec.TopPages)
}

func TestConvertWebsite_NilListIsEmpty(t *testing.T) {
	t.Parallel()

	got := ConvertWebsite([]WebsiteRow{{ID: uuid.New()}})
	require.Len(t, got, 1)
	assert.NotNil(t, got[0].TopPages)
	assert.Empty(t, got[0].TopPages)
}

func TestConvertNews_Sentiment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  *string
		want domain.Sentiment
	}{
		{ptr("positive"), domain.SentimentPositive},
		{ptr("NEGATIVE"), domain.SentimentNegative},
		{ptr(" neutral "), domain.SentimentNeutral},
		{ptr("ecstatic"), domain.SentimentNeutral},
		{ptr(""), domain.SentimentNeutral},
		{nil, domain.SentimentNeutral},
	}

	for _, tt := range tests {
		got := ConvertNews([]NewsRow{{ID: uuid.New(), Sentiment: tt.raw}})
		require.Len(t, got, 1)
		assert.Equal(t, tt.want, got[0].Sentiment)
		assert.NotNil(t, got[0].TopSources)
	}
}

func TestConvertNews_PreservesSourceOrder(t *testing.T) {
	t.Parallel()

	got := ConvertNews([]NewsRow{{
		ID:         uuid.New(),
		Mentions:   ptr(int64(14)),
		TopSources: []string{"Hürriyet", "Sabah", "BBC"},
	}})
	require.Len(t, got, 1)
	assert.Equal(t, int64(14), got[0].Mentions)
	assert.Zero(t, got[0].Reach)
	assert.Equal(t, []string{"Hürriyet", "Sabah", "BBC"}, got[0].TopSources)
}

func TestConvertRPA(t *testing.T) {
	t.Parallel()

	got := ConvertRPA([]RPARow{{
		ID:                 uuid.New(),
		TotalIncomingMails: ptr(int64(500)),
		TopRedirectedUnits: map[string]any{"unit1": "Finance", "unit2": 7, "unit3": " Legal "},
	}})
	require.Len(t, got, 1)

	rec := got[0]
	assert.Equal(t, int64(500), rec.TotalIncomingMails)
	assert.Zero(t, rec.TotalDistributed)
	assert.Equal(t, domain.RedirectedUnits{Unit1: "Finance", Unit3: "Legal"}, rec.TopRedirectedUnits)
}

func TestInt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   any
		want int64
	}{
		{"nil", nil, 0},
		{"int", 5, 5},
		{"int64", int64(7), 7},
		{"float", 12.9, 12},
		{"json number", json.Number("42"), 42},
		{"json float", json.Number("3.5"), 3},
		{"numeric string", "1000", 1000},
		{"padded string", " 15 ", 15},
		{"decimal string", "12.7", 12},
		{"garbage string", "abc", 0},
		{"empty string", "", 0},
		{"bool", true, 0},
		{"map", map[string]any{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Int(tt.in))
		})
	}
}

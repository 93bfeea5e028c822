package rest

import (
	"time"

	"github.com/heartmarshall/mediareport-backend/internal/domain"
	"github.com/heartmarshall/mediareport-backend/internal/service/store"
)

// ---------------------------------------------------------------------------
// Requests
// ---------------------------------------------------------------------------

type periodRequest struct {
	Month string  `json:"month"`
	Year  flexInt `json:"year"`
}

func (p periodRequest) input(c *coercion) store.PeriodInput {
	return store.PeriodInput{Month: p.Month, Year: int(c.int("year", p.Year))}
}

type platformRequest struct {
	periodRequest
	Platform    string  `json:"platform"`
	Followers   flexInt `json:"followers"`
	Engagement  flexInt `json:"engagement"`
	Reach       flexInt `json:"reach"`
	Impressions flexInt `json:"impressions"`
	Clicks      flexInt `json:"clicks"`
	Conversions flexInt `json:"conversions"`
}

func (r platformRequest) input() (store.PlatformInput, error) {
	var c coercion
	in := store.PlatformInput{
		PeriodInput: r.periodRequest.input(&c),
		Platform:    r.Platform,
		Followers:   c.int("followers", r.Followers),
		Engagement:  c.int("engagement", r.Engagement),
		Reach:       c.int("reach", r.Reach),
		Impressions: c.int("impressions", r.Impressions),
		Clicks:      c.int("clicks", r.Clicks),
		Conversions: c.int("conversions", r.Conversions),
	}
	return in, c.err()
}

type websiteRequest struct {
	periodRequest
	Visitors           flexInt    `json:"visitors"`
	PageViews          flexInt    `json:"pageViews"`
	BounceRate         flexFloat  `json:"bounceRate"`
	AvgSessionDuration flexFloat  `json:"avgSessionDuration"`
	Conversions        flexInt    `json:"conversions"`
	TopPages           stringList `json:"topPages"`
}

func (r websiteRequest) input() (store.WebsiteInput, error) {
	var c coercion
	in := store.WebsiteInput{
		PeriodInput:        r.periodRequest.input(&c),
		Visitors:           c.int("visitors", r.Visitors),
		PageViews:          c.int("pageViews", r.PageViews),
		BounceRate:         c.float("bounceRate", r.BounceRate),
		AvgSessionDuration: c.float("avgSessionDuration", r.AvgSessionDuration),
		Conversions:        c.int("conversions", r.Conversions),
		TopPages:           r.TopPages,
	}
	return in, c.err()
}

type newsRequest struct {
	periodRequest
	Mentions   flexInt    `json:"mentions"`
	Sentiment  string     `json:"sentiment"`
	Reach      flexInt    `json:"reach"`
	TopSources stringList `json:"topSources"`
}

func (r newsRequest) input() (store.NewsInput, error) {
	var c coercion
	in := store.NewsInput{
		PeriodInput: r.periodRequest.input(&c),
		Mentions:    c.int("mentions", r.Mentions),
		Sentiment:   r.Sentiment,
		Reach:       c.int("reach", r.Reach),
		TopSources:  r.TopSources,
	}
	return in, c.err()
}

type unitsRequest struct {
	Unit1 string `json:"unit1"`
	Unit2 string `json:"unit2"`
	Unit3 string `json:"unit3"`
}

type rpaRequest struct {
	periodRequest
	TotalIncomingMails flexInt      `json:"totalIncomingMails"`
	TotalDistributed   flexInt      `json:"totalDistributed"`
	TopRedirectedUnits unitsRequest `json:"topRedirectedUnits"`
}

func (r rpaRequest) input() (store.RPAInput, error) {
	var c coercion
	in := store.RPAInput{
		PeriodInput:        r.periodRequest.input(&c),
		TotalIncomingMails: c.int("totalIncomingMails", r.TotalIncomingMails),
		TotalDistributed:   c.int("totalDistributed", r.TotalDistributed),
		Unit1:              r.TopRedirectedUnits.Unit1,
		Unit2:              r.TopRedirectedUnits.Unit2,
		Unit3:              r.TopRedirectedUnits.Unit3,
	}
	return in, c.err()
}

// ---------------------------------------------------------------------------
// Responses
// ---------------------------------------------------------------------------

type entryResponse struct {
	ID        string    `json:"id"`
	Month     string    `json:"month"`
	Year      int       `json:"year"`
	EnteredBy string    `json:"enteredBy"`
	EnteredAt time.Time `json:"enteredAt"`
}

func toEntry(e domain.Entry) entryResponse {
	return entryResponse{
		ID:        e.ID.String(),
		Month:     e.Month,
		Year:      e.Year,
		EnteredBy: e.EnteredBy,
		EnteredAt: e.EnteredAt,
	}
}

type platformResponse struct {
	entryResponse
	Platform    string `json:"platform"`
	Followers   int64  `json:"followers"`
	Engagement  int64  `json:"engagement"`
	Reach       int64  `json:"reach"`
	Impressions int64  `json:"impressions"`
	Clicks      int64  `json:"clicks"`
	Conversions int64  `json:"conversions"`
}

type websiteResponse struct {
	entryResponse
	Visitors           int64    `json:"visitors"`
	PageViews          int64    `json:"pageViews"`
	BounceRate         float64  `json:"bounceRate"`
	AvgSessionDuration float64  `json:"avgSessionDuration"`
	Conversions        int64    `json:"conversions"`
	TopPages           []string `json:"topPages"`
}

type newsResponse struct {
	entryResponse
	Mentions   int64    `json:"mentions"`
	Sentiment  string   `json:"sentiment"`
	Reach      int64    `json:"reach"`
	TopSources []string `json:"topSources"`
}

type rpaResponse struct {
	entryResponse
	TotalIncomingMails int64        `json:"totalIncomingMails"`
	TotalDistributed   int64        `json:"totalDistributed"`
	TopRedirectedUnits unitsRequest `json:"topRedirectedUnits"`
}

func toPlatform(r domain.PlatformData) platformResponse {
	m := r.Metrics
	return platformResponse{
		entryResponse: toEntry(r.Entry),
		Platform:      r.Platform,
		Followers:     m.Followers,
		Engagement:    m.Engagement,
		Reach:         m.Reach,
		Impressions:   m.Impressions,
		Clicks:        m.Clicks,
		Conversions:   m.Conversions,
	}
}

func toWebsite(r domain.WebsiteData) websiteResponse {
	return websiteResponse{
		entryResponse:      toEntry(r.Entry),
		Visitors:           r.Visitors,
		PageViews:          r.PageViews,
		BounceRate:         r.BounceRate,
		AvgSessionDuration: r.AvgSessionDuration,
		Conversions:        r.Conversions,
		TopPages:           nonNil(r.TopPages),
	}
}

func toNews(r domain.NewsData) newsResponse {
	return newsResponse{
		entryResponse: toEntry(r.Entry),
		Mentions:      r.Mentions,
		Sentiment:     r.Sentiment.String(),
		Reach:         r.Reach,
		TopSources:    nonNil(r.TopSources),
	}
}

func toRPA(r domain.RPAData) rpaResponse {
	u := r.TopRedirectedUnits
	return rpaResponse{
		entryResponse:      toEntry(r.Entry),
		TotalIncomingMails: r.TotalIncomingMails,
		TotalDistributed:   r.TotalDistributed,
		TopRedirectedUnits: unitsRequest{Unit1: u.Unit1, Unit2: u.Unit2, Unit3: u.Unit3},
	}
}

func mapSlice[T, R any](in []T, fn func(T) R) []R {
	out := make([]R, len(in))
	for i, v := range in {
		out[i] = fn(v)
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

type userResponse struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	Department string `json:"department"`
}

func toUser(u *domain.User) *userResponse {
	if u == nil {
		return nil
	}
	return &userResponse{
		ID:         u.ID.String(),
		Email:      u.Email,
		Name:       u.Name,
		Role:       u.Role.String(),
		Department: u.Department,
	}
}

type notificationResponse struct {
	ID         string     `json:"id"`
	Level      string     `json:"level"`
	Title      string     `json:"title"`
	Message    string     `json:"message"`
	Kind       string     `json:"kind,omitempty"`
	Persistent bool       `json:"persistent"`
	CreatedAt  time.Time  `json:"createdAt"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
}

func toNotification(n domain.Notification) notificationResponse {
	resp := notificationResponse{
		ID:         n.ID.String(),
		Level:      string(n.Level),
		Title:      n.Title,
		Message:    n.Message,
		Kind:       string(n.Kind),
		Persistent: n.Persistent,
		CreatedAt:  n.CreatedAt,
	}
	if !n.ExpiresAt.IsZero() {
		exp := n.ExpiresAt
		resp.ExpiresAt = &exp
	}
	return resp
}

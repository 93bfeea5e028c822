package domain

import "strings"

// Role is the access level of a dashboard user.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

func (r Role) String() string { return string(r) }

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleStaff:
		return true
	}
	return false
}

// ParseRole returns the role for s, falling back to RoleStaff for anything unknown.
func ParseRole(s string) Role {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if r.IsValid() {
		return r
	}
	return RoleStaff
}

// Sentiment is the overall tone of news coverage for a period.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

func (s Sentiment) String() string { return string(s) }

func (s Sentiment) IsValid() bool {
	switch s {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return true
	}
	return false
}

// Sentiments lists every valid sentiment in display order.
var Sentiments = []Sentiment{SentimentPositive, SentimentNeutral, SentimentNegative}

// RecordKind identifies one of the four record streams.
// The value is the backing table name.
type RecordKind string

const (
	KindPlatform RecordKind = "platform_data"
	KindWebsite  RecordKind = "website_data"
	KindNews     RecordKind = "news_data"
	KindRPA      RecordKind = "rpa_data"
)

// RecordKinds lists all kinds in load order.
var RecordKinds = []RecordKind{KindPlatform, KindWebsite, KindNews, KindRPA}

func (k RecordKind) String() string { return string(k) }

func (k RecordKind) IsValid() bool {
	switch k {
	case KindPlatform, KindWebsite, KindNews, KindRPA:
		return true
	}
	return false
}

// Table returns the backing table name.
func (k RecordKind) Table() string { return string(k) }

// Channel returns the LISTEN/NOTIFY channel that carries change signals for the kind.
func (k RecordKind) Channel() string { return string(k) + "_changes" }

// Label is a short human-readable name.
func (k RecordKind) Label() string {
	switch k {
	case KindPlatform:
		return "social media"
	case KindWebsite:
		return "website"
	case KindNews:
		return "news"
	case KindRPA:
		return "RPA"
	}
	return string(k)
}

// ParseRecordKind accepts either the table name or the short slug used in URLs
// ("platform", "website", "news", "rpa").
func ParseRecordKind(s string) (RecordKind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if k := RecordKind(s); k.IsValid() {
		return k, true
	}
	if k := RecordKind(s + "_data"); k.IsValid() {
		return k, true
	}
	return "", false
}

// Package report derives role-scoped, filtered aggregates from record
// collections. Every function is pure and safe on empty input.
package report

import (
	"strings"

	"github.com/heartmarshall/mediareport-backend/internal/domain"
)

// Scope returns the records the viewer may see: staff see only records they
// entered themselves, admins see everything. The input is never modified.
func Scope[T domain.Record](viewer domain.User, records []T) []T {
	if viewer.IsAdmin() {
		return records
	}
	out := make([]T, 0, len(records))
	for _, r := range records {
		if r.Author() == viewer.Name {
			out = append(out, r)
		}
	}
	return out
}

// Filter narrows records by entry period and category. Zero fields match
// everything.
type Filter struct {
	From     domain.Period
	To       domain.Period
	Category string
}

// Apply returns the records matching f.
func Apply[T domain.Record](records []T, f Filter) []T {
	if f.From.IsZero() && f.To.IsZero() && f.Category == "" {
		return records
	}
	out := make([]T, 0, len(records))
	for _, r := range records {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Match reports whether r passes the filter. Category compares against the
// platform name for platform records and the sentiment for news records; it
// is ignored for the other kinds.
func (f Filter) Match(r domain.Record) bool {
	p := r.Period()
	if !f.From.IsZero() && p.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && f.To.Before(p) {
		return false
	}
	if f.Category == "" {
		return true
	}
	switch rec := any(r).(type) {
	case domain.PlatformData:
		return strings.EqualFold(rec.Platform, f.Category)
	case domain.NewsData:
		return strings.EqualFold(string(rec.Sentiment), f.Category)
	}
	return true
}

// View scopes then filters.
func View[T domain.Record](viewer domain.User, records []T, f Filter) []T {
	return Apply(Scope(viewer, records), f)
}

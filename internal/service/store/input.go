package store

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/heartmarshall/mediareport-backend/internal/domain"
)

const (
	maxNameLen  = 100
	maxListLen  = 20
	maxItemLen  = 200
	maxDuration = 24 * 60 // minutes
)

// PeriodInput is the reporting month shared by every input.
type PeriodInput struct {
	Month string
	Year  int
}

func (p PeriodInput) validate(errs []domain.FieldError) []domain.FieldError {
	if p.Month == "" {
		errs = append(errs, domain.FieldError{Field: "month", Message: "required"})
	} else if _, ok := domain.ParseMonth(p.Month); !ok {
		errs = append(errs, domain.FieldError{Field: "month", Message: "must be an English month name"})
	}
	if p.Year < domain.MinYear || p.Year > domain.MaxYear {
		errs = append(errs, domain.FieldError{Field: "year", Message: "out of range"})
	}
	return errs
}

func (p PeriodInput) entry(enteredBy string) domain.Entry {
	month, _ := domain.ParseMonth(p.Month)
	return domain.Entry{Month: month, Year: p.Year, EnteredBy: enteredBy}
}

// PlatformInput holds a new social media platform record.
type PlatformInput struct {
	PeriodInput
	Platform    string
	Followers   int64
	Engagement  int64
	Reach       int64
	Impressions int64
	Clicks      int64
	Conversions int64
}

// Validate validates the platform input.
func (i PlatformInput) Validate() error {
	errs := i.PeriodInput.validate(nil)

	name := strings.TrimSpace(i.Platform)
	if name == "" {
		errs = append(errs, domain.FieldError{Field: "platform", Message: "required"})
	} else if utf8.RuneCountInString(name) > maxNameLen {
		errs = append(errs, domain.FieldError{Field: "platform", Message: "too long"})
	}

	errs = nonNegative(errs, []intField{
		{"followers", i.Followers},
		{"engagement", i.Engagement},
		{"reach", i.Reach},
		{"impressions", i.Impressions},
		{"clicks", i.Clicks},
		{"conversions", i.Conversions},
	})

	return result(errs)
}

// WebsiteInput holds a new website analytics record.
type WebsiteInput struct {
	PeriodInput
	Visitors           int64
	PageViews          int64
	BounceRate         float64
	AvgSessionDuration float64
	Conversions        int64
	TopPages           []string
}

// Validate validates the website input.
func (i WebsiteInput) Validate() error {
	errs := i.PeriodInput.validate(nil)

	errs = nonNegative(errs, []intField{
		{"visitors", i.Visitors},
		{"page_views", i.PageViews},
		{"conversions", i.Conversions},
	})
	if i.BounceRate < 0 || i.BounceRate > 100 {
		errs = append(errs, domain.FieldError{Field: "bounce_rate", Message: "must be between 0 and 100"})
	}
	if i.AvgSessionDuration < 0 || i.AvgSessionDuration > maxDuration {
		errs = append(errs, domain.FieldError{Field: "avg_session_duration", Message: "out of range"})
	}
	errs = validateList(errs, "top_pages", i.TopPages)

	return result(errs)
}

// NewsInput holds a new press coverage record.
type NewsInput struct {
	PeriodInput
	Mentions   int64
	Sentiment  string
	Reach      int64
	TopSources []string
}

// Validate validates the news input.
func (i NewsInput) Validate() error {
	errs := i.PeriodInput.validate(nil)

	errs = nonNegative(errs, []intField{
		{"mentions", i.Mentions},
		{"reach", i.Reach},
	})
	if !domain.Sentiment(strings.ToLower(strings.TrimSpace(i.Sentiment))).IsValid() {
		errs = append(errs, domain.FieldError{Field: "sentiment", Message: "must be positive, neutral or negative"})
	}
	errs = validateList(errs, "top_sources", i.TopSources)

	return result(errs)
}

// RPAInput holds a new mail distribution record.
type RPAInput struct {
	PeriodInput
	TotalIncomingMails int64
	TotalDistributed   int64
	Unit1              string
	Unit2              string
	Unit3              string
}

// Validate validates the RPA input.
func (i RPAInput) Validate() error {
	errs := i.PeriodInput.validate(nil)

	errs = nonNegative(errs, []intField{
		{"total_incoming_mails", i.TotalIncomingMails},
		{"total_distributed", i.TotalDistributed},
	})
	for n, unit := range []string{i.Unit1, i.Unit2, i.Unit3} {
		if utf8.RuneCountInString(strings.TrimSpace(unit)) > maxNameLen {
			errs = append(errs, domain.FieldError{Field: "unit" + strconv.Itoa(n+1), Message: "too long"})
		}
	}

	return result(errs)
}

// intField pairs a wire field name with its value. Field errors are reported
// in declaration order.
type intField struct {
	name  string
	value int64
}

func nonNegative(errs []domain.FieldError, fields []intField) []domain.FieldError {
	for _, f := range fields {
		if f.value < 0 {
			errs = append(errs, domain.FieldError{Field: f.name, Message: "must not be negative"})
		}
	}
	return errs
}

func validateList(errs []domain.FieldError, field string, items []string) []domain.FieldError {
	if len(items) > maxListLen {
		return append(errs, domain.FieldError{Field: field, Message: "too many entries"})
	}
	for _, item := range items {
		if utf8.RuneCountInString(strings.TrimSpace(item)) > maxItemLen {
			return append(errs, domain.FieldError{Field: field, Message: "entry too long"})
		}
	}
	return errs
}

func result(errs []domain.FieldError) error {
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// compact trims list entries and drops empty ones.
func compact(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

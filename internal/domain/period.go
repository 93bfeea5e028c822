package domain

import (
	"strconv"
	"strings"
)

// Months holds the canonical English month names, January first.
var Months = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// Accepted range for the entry year.
const (
	MinYear = 2000
	MaxYear = 2100
)

// ParseMonth returns the canonical month name for s (case-insensitive).
func ParseMonth(s string) (string, bool) {
	s = strings.TrimSpace(s)
	for _, m := range Months {
		if strings.EqualFold(m, s) {
			return m, true
		}
	}
	return "", false
}

// MonthNumber returns 1..12 for a month name, or 0 when it is not recognised.
func MonthNumber(s string) int {
	s = strings.TrimSpace(s)
	for i, m := range Months {
		if strings.EqualFold(m, s) {
			return i + 1
		}
	}
	return 0
}

// Period is the reporting month a record was entered for.
type Period struct {
	Year  int
	Month int // 1..12, 0 when unknown
}

// PeriodOf builds a Period from a month name and year.
func PeriodOf(month string, year int) Period {
	return Period{Year: year, Month: MonthNumber(month)}
}

// Before reports whether p is strictly earlier than o.
func (p Period) Before(o Period) bool {
	if p.Year != o.Year {
		return p.Year < o.Year
	}
	return p.Month < o.Month
}

// IsZero reports whether the period is unset.
func (p Period) IsZero() bool { return p.Year == 0 && p.Month == 0 }

// String formats the period as "July 2024".
func (p Period) String() string {
	if p.Month < 1 || p.Month > 12 {
		return strconv.Itoa(p.Year)
	}
	return Months[p.Month-1] + " " + strconv.Itoa(p.Year)
}

package rest

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/heartmarshall/mediareport-backend/internal/domain"
	"github.com/heartmarshall/mediareport-backend/internal/service/report"
	"github.com/heartmarshall/mediareport-backend/pkg/ctxutil"
)

// parseFilter reads ?from=YYYY-MM&to=YYYY-MM&category=... from the query.
func parseFilter(r *http.Request) (report.Filter, error) {
	q := r.URL.Query()
	var (
		f    report.Filter
		errs []domain.FieldError
		ok   bool
	)
	if v := q.Get("from"); v != "" {
		if f.From, ok = parsePeriod(v); !ok {
			errs = append(errs, domain.FieldError{Field: "from", Message: "must be YYYY-MM"})
		}
	}
	if v := q.Get("to"); v != "" {
		if f.To, ok = parsePeriod(v); !ok {
			errs = append(errs, domain.FieldError{Field: "to", Message: "must be YYYY-MM"})
		}
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		errs = append(errs, domain.FieldError{Field: "to", Message: "must not be before from"})
	}
	f.Category = strings.TrimSpace(q.Get("category"))
	if len(errs) > 0 {
		return report.Filter{}, domain.NewValidationErrors(errs)
	}
	return f, nil
}

func parsePeriod(s string) (domain.Period, bool) {
	year, month, found := strings.Cut(strings.TrimSpace(s), "-")
	if !found {
		return domain.Period{}, false
	}
	y, err := strconv.Atoi(year)
	if err != nil || y < domain.MinYear || y > domain.MaxYear {
		return domain.Period{}, false
	}
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return domain.Period{}, false
	}
	return domain.Period{Year: y, Month: m}, true
}

func parseLimit(r *http.Request, def, max int) int {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || n <= 0 {
		return def
	}
	return min(n, max)
}

// viewer turns the request identity into the user whose scope applies.
func viewer(ident ctxutil.Identity) domain.User {
	return domain.User{
		ID:   ident.UserID,
		Name: ident.Name,
		Role: domain.ParseRole(ident.Role),
	}
}

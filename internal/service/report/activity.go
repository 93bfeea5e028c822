package report

import (
	"sort"
	"time"

	"github.com/heartmarshall/mediareport-backend/internal/domain"
)

// Activity is one entry in the recent activity feed.
type Activity struct {
	ID        string            `json:"id"`
	Kind      domain.RecordKind `json:"kind"`
	Label     string            `json:"label"`
	Period    string            `json:"period"`
	EnteredBy string            `json:"enteredBy"`
	EnteredAt time.Time         `json:"enteredAt"`
}

// Collections groups the four record kinds for cross-kind derivations.
type Collections struct {
	Platform []domain.PlatformData
	Website  []domain.WebsiteData
	News     []domain.NewsData
	RPA      []domain.RPAData
}

// ScopeAll applies Scope and Apply to every kind.
func ScopeAll(viewer domain.User, c Collections, f Filter) Collections {
	return Collections{
		Platform: View(viewer, c.Platform, f),
		Website:  View(viewer, c.Website, f),
		News:     View(viewer, c.News, f),
		RPA:      View(viewer, c.RPA, f),
	}
}

// RecentActivity merges all kinds, newest first, keeping at most limit
// entries (all when limit <= 0).
func RecentActivity(c Collections, limit int) []Activity {
	out := make([]Activity, 0, len(c.Platform)+len(c.Website)+len(c.News)+len(c.RPA))
	for _, r := range c.Platform {
		out = append(out, activity(r, r.ID.String(), r.Platform))
	}
	for _, r := range c.Website {
		out = append(out, activity(r, r.ID.String(), domain.KindWebsite.Label()))
	}
	for _, r := range c.News {
		out = append(out, activity(r, r.ID.String(), domain.KindNews.Label()))
	}
	for _, r := range c.RPA {
		out = append(out, activity(r, r.ID.String(), domain.KindRPA.Label()))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EnteredAt.After(out[j].EnteredAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func activity(r domain.Record, id, label string) Activity {
	return Activity{
		ID:        id,
		Kind:      r.RecordKind(),
		Label:     label,
		Period:    r.Period().String(),
		EnteredBy: r.Author(),
		EnteredAt: r.CreatedAt(),
	}
}

// StaffActivity is the submission count of one person.
type StaffActivity struct {
	Name       string                    `json:"name"`
	Department string                    `json:"department,omitempty"`
	Total      int                       `json:"total"`
	ByKind     map[domain.RecordKind]int `json:"byKind"`
	LastActive time.Time                 `json:"lastActive"`
}

// StaffBreakdown counts submissions per author across all kinds, most active
// first.
func StaffBreakdown(c Collections) []StaffActivity {
	byName := make(map[string]*StaffActivity)
	add := func(r domain.Record) {
		sa, ok := byName[r.Author()]
		if !ok {
			sa = &StaffActivity{Name: r.Author(), ByKind: make(map[domain.RecordKind]int)}
			byName[r.Author()] = sa
		}
		sa.Total++
		sa.ByKind[r.RecordKind()]++
		if r.CreatedAt().After(sa.LastActive) {
			sa.LastActive = r.CreatedAt()
		}
	}
	for _, r := range c.Platform {
		add(r)
	}
	for _, r := range c.Website {
		add(r)
	}
	for _, r := range c.News {
		add(r)
	}
	for _, r := range c.RPA {
		add(r)
	}

	out := make([]StaffActivity, 0, len(byName))
	for _, sa := range byName {
		out = append(out, *sa)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// WithRoster merges registered users into a breakdown. Staff without
// submissions are appended with zero counts; departments are filled in by
// name. Admin accounts only appear when they have submitted records.
func WithRoster(activity []StaffActivity, users []domain.User) []StaffActivity {
	out := make([]StaffActivity, len(activity), len(activity)+len(users))
	copy(out, activity)

	index := make(map[string]int, len(out))
	for i, sa := range out {
		index[sa.Name] = i
	}
	for _, u := range users {
		if i, ok := index[u.Name]; ok {
			out[i].Department = u.Department
			continue
		}
		if u.IsAdmin() {
			continue
		}
		index[u.Name] = len(out)
		out = append(out, StaffActivity{
			Name:       u.Name,
			Department: u.Department,
			ByKind:     make(map[domain.RecordKind]int),
		})
	}
	return out
}

// TrendPoint is the platform totals of one reporting month.
type TrendPoint struct {
	Period     string `json:"period"`
	Year       int    `json:"year"`
	Month      int    `json:"month"`
	Followers  int64  `json:"followers"`
	Engagement int64  `json:"engagement"`
	Reach      int64  `json:"reach"`
}

// MonthlyTrend totals platform metrics per entry period, oldest first.
// Records with an unrecognised month are skipped.
func MonthlyTrend(records []domain.PlatformData) []TrendPoint {
	byPeriod := make(map[domain.Period]*TrendPoint)
	for _, r := range records {
		p := r.Period()
		if p.Month == 0 {
			continue
		}
		tp, ok := byPeriod[p]
		if !ok {
			tp = &TrendPoint{Period: p.String(), Year: p.Year, Month: p.Month}
			byPeriod[p] = tp
		}
		tp.Followers += r.Metrics.Followers
		tp.Engagement += r.Metrics.Engagement
		tp.Reach += r.Metrics.Reach
	}

	out := make([]TrendPoint, 0, len(byPeriod))
	for _, tp := range byPeriod {
		out = append(out, *tp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out
}

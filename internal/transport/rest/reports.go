package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/mediareport-backend/internal/domain"
	"github.com/heartmarshall/mediareport-backend/internal/service/report"
	"github.com/heartmarshall/mediareport-backend/internal/service/store"
	"github.com/heartmarshall/mediareport-backend/internal/transport/middleware"
)

const (
	defaultRecent = 10
	maxRecent     = 100
)

type userLister interface {
	List(ctx context.Context) ([]domain.User, error)
}

// ReportHandler serves derived views over the store snapshot. Every view is
// scoped to the caller: staff see their own entries, admins see everything.
type ReportHandler struct {
	store  snapshotter
	roster userLister
	log    *slog.Logger
}

// NewReportHandler creates a ReportHandler. roster may be nil, in which case
// the staff view only lists people who have submitted records.
func NewReportHandler(s snapshotter, roster userLister, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{store: s, roster: roster, log: logger.With("handler", "reports")}
}

type stateResponse struct {
	User       *userResponse             `json:"user"`
	State      store.State               `json:"state"`
	Connected  bool                      `json:"connected"`
	LastUpdate *time.Time                `json:"lastUpdate"`
	Error      string                    `json:"error,omitempty"`
	Counts     map[domain.RecordKind]int `json:"counts"`
}

// State handles GET /api/state.
func (h *ReportHandler) State(w http.ResponseWriter, r *http.Request) {
	ident, err := middleware.RequireUser(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	snap := h.store.Snapshot()
	me := viewer(ident)
	scoped := report.ScopeAll(me, collectionsOf(snap), report.Filter{})

	resp := stateResponse{
		User:      toUser(&me),
		State:     snap.State,
		Connected: snap.Connected,
		Error:     snap.Error,
		Counts: map[domain.RecordKind]int{
			domain.KindPlatform: len(scoped.Platform),
			domain.KindWebsite:  len(scoped.Website),
			domain.KindNews:     len(scoped.News),
			domain.KindRPA:      len(scoped.RPA),
		},
	}
	if !snap.LastUpdate.IsZero() {
		last := snap.LastUpdate
		resp.LastUpdate = &last
	}
	writeJSON(w, http.StatusOK, resp)
}

type overviewResponse struct {
	Recent   []report.Activity      `json:"recent"`
	Platform report.PlatformSummary `json:"platform"`
	Website  report.WebsiteSummary  `json:"website"`
	News     report.NewsSummary     `json:"news"`
	RPA      report.RPASummary      `json:"rpa"`
	Staff    []report.StaffActivity `json:"staff,omitempty"`
}

// Report handles GET /api/reports/{name}.
func (h *ReportHandler) Report(w http.ResponseWriter, r *http.Request) {
	ident, err := middleware.RequireUser(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	f, err := parseFilter(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	u := viewer(ident)
	c := report.ScopeAll(u, collectionsOf(h.store.Snapshot()), f)

	switch r.PathValue("name") {
	case "platform":
		writeJSON(w, http.StatusOK, report.SummarizePlatforms(c.Platform))
	case "website":
		writeJSON(w, http.StatusOK, report.SummarizeWebsite(c.Website))
	case "news":
		writeJSON(w, http.StatusOK, report.SummarizeNews(c.News))
	case "rpa":
		writeJSON(w, http.StatusOK, report.SummarizeRPA(c.RPA))
	case "trend":
		writeJSON(w, http.StatusOK, report.MonthlyTrend(c.Platform))
	case "overview":
		resp := overviewResponse{
			Recent:   report.RecentActivity(c, parseLimit(r, defaultRecent, maxRecent)),
			Platform: report.SummarizePlatforms(c.Platform),
			Website:  report.SummarizeWebsite(c.Website),
			News:     report.SummarizeNews(c.News),
			RPA:      report.SummarizeRPA(c.RPA),
		}
		if u.IsAdmin() {
			resp.Staff = report.StaffBreakdown(c)
		}
		writeJSON(w, http.StatusOK, resp)
	default:
		writeError(w, http.StatusNotFound, "unknown report")
	}
}

// Staff handles GET /api/admin/staff.
func (h *ReportHandler) Staff(w http.ResponseWriter, r *http.Request) {
	if err := middleware.RequireAdmin(r.Context()); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	f, err := parseFilter(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	ident, _ := middleware.RequireUser(r.Context())
	c := report.ScopeAll(viewer(ident), collectionsOf(h.store.Snapshot()), f)
	breakdown := report.StaffBreakdown(c)

	if h.roster != nil {
		users, err := h.roster.List(r.Context())
		if err != nil {
			handleError(h.log, w, r, err)
			return
		}
		breakdown = report.WithRoster(breakdown, users)
	}
	writeJSON(w, http.StatusOK, breakdown)
}

func collectionsOf(s store.Snapshot) report.Collections {
	return report.Collections{
		Platform: s.Platform,
		Website:  s.Website,
		News:     s.News,
		RPA:      s.RPA,
	}
}

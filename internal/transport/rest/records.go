package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/mediareport-backend/internal/domain"
	"github.com/heartmarshall/mediareport-backend/internal/service/report"
	"github.com/heartmarshall/mediareport-backend/internal/service/store"
	"github.com/heartmarshall/mediareport-backend/internal/transport/middleware"
)

type snapshotter interface {
	Snapshot() store.Snapshot
}

type recordStore interface {
	snapshotter
	AddPlatform(ctx context.Context, in store.PlatformInput) error
	AddWebsite(ctx context.Context, in store.WebsiteInput) error
	AddNews(ctx context.Context, in store.NewsInput) error
	AddRPA(ctx context.Context, in store.RPAInput) error
}

// RecordHandler serves the record collections and record entry.
type RecordHandler struct {
	store recordStore
	log   *slog.Logger
}

// NewRecordHandler creates a RecordHandler.
func NewRecordHandler(s recordStore, logger *slog.Logger) *RecordHandler {
	return &RecordHandler{store: s, log: logger.With("handler", "records")}
}

// List handles GET /api/records/{kind}.
func (h *RecordHandler) List(w http.ResponseWriter, r *http.Request) {
	ident, err := middleware.RequireUser(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	kind, ok := domain.ParseRecordKind(r.PathValue("kind"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown record kind")
		return
	}
	f, err := parseFilter(r)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	snap := h.store.Snapshot()
	u := viewer(ident)

	var body any
	switch kind {
	case domain.KindPlatform:
		body = mapSlice(report.View(u, snap.Platform, f), toPlatform)
	case domain.KindWebsite:
		body = mapSlice(report.View(u, snap.Website, f), toWebsite)
	case domain.KindNews:
		body = mapSlice(report.View(u, snap.News, f), toNews)
	case domain.KindRPA:
		body = mapSlice(report.View(u, snap.RPA, f), toRPA)
	}
	writeJSON(w, http.StatusOK, body)
}

// Create handles POST /api/records/{kind}. The record is attributed to the
// caller; the collection updates once the change feed reports the insert.
func (h *RecordHandler) Create(w http.ResponseWriter, r *http.Request) {
	if _, err := middleware.RequireUser(r.Context()); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	kind, ok := domain.ParseRecordKind(r.PathValue("kind"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown record kind")
		return
	}

	var err error
	switch kind {
	case domain.KindPlatform:
		err = create(w, r, platformRequest.input, h.store.AddPlatform)
	case domain.KindWebsite:
		err = create(w, r, websiteRequest.input, h.store.AddWebsite)
	case domain.KindNews:
		err = create(w, r, newsRequest.input, h.store.AddNews)
	case domain.KindRPA:
		err = create(w, r, rpaRequest.input, h.store.AddRPA)
	}
	if errors.Is(err, errResponded) {
		return
	}
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"status": "created", "kind": kind.String()})
}

// errResponded signals that the response was already written.
var errResponded = errors.New("response written")

func create[Req, In any](
	w http.ResponseWriter,
	r *http.Request,
	convert func(Req) (In, error),
	add func(context.Context, In) error,
) error {
	var req Req
	if !decodeJSON(w, r, &req) {
		return errResponded
	}
	in, err := convert(req)
	if err != nil {
		return err
	}
	return add(r.Context(), in)
}

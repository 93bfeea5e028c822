package rest

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/heartmarshall/mediareport-backend/internal/domain"
	"github.com/heartmarshall/mediareport-backend/internal/transport/middleware"
)

type notificationSource interface {
	Active() []domain.Notification
	Dismiss(id uuid.UUID) bool
}

// NotificationHandler exposes the retained notifications.
type NotificationHandler struct {
	center notificationSource
	log    *slog.Logger
}

// NewNotificationHandler creates a NotificationHandler.
func NewNotificationHandler(center notificationSource, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{center: center, log: logger.With("handler", "notifications")}
}

// List handles GET /api/notifications.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, err := middleware.RequireUser(r.Context()); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(h.center.Active(), toNotification))
}

// Dismiss handles DELETE /api/notifications/{id}. Persistent notifications
// cannot be dismissed and report 404 like unknown ones.
func (h *NotificationHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	if _, err := middleware.RequireUser(r.Context()); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handleError(h.log, w, r, domain.NewValidationError("id", "must be a UUID"))
		return
	}
	if !h.center.Dismiss(id) {
		handleError(h.log, w, r, domain.ErrNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

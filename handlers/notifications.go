package handlers

import (
	"database/sql"
	"net/http"

	"github.com/bigheart-studio/studio-booking/model"
)

// ListNotifications lists the most recent notifications, newest first.
func (h *Handlers) ListNotifications(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "ListNotifications")
	defer span.End()

	notifications, err := h.db.ListNotifications(ctx, model.NotificationLimit)
	if err != nil {
		respondError(w, span, NewServerError("%s", err.Error()))
		return
	}
	writeJSON(w, http.StatusOK, notifications)
}

// MarkNotificationRead marks a single notification as read.
func (h *Handlers) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "MarkNotificationRead")
	defer span.End()

	id, err := parseID(r)
	if err != nil {
		respondError(w, span, err)
		return
	}

	err = h.inTransaction(ctx, func(tx *sql.Tx) error {
		return h.db.MarkNotificationRead(ctx, tx, id)
	})
	if err != nil {
		respondError(w, span, err)
		return
	}

	writeJSON(w, http.StatusOK, model.ReadResult{Success: true, ID: id})
}

// MarkAllNotificationsRead marks every notification as read.
func (h *Handlers) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "MarkAllNotificationsRead")
	defer span.End()

	err := h.inTransaction(ctx, func(tx *sql.Tx) error {
		return h.db.MarkAllNotificationsRead(ctx, tx)
	})
	if err != nil {
		respondError(w, span, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

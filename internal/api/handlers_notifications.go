// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/turnstile/internal/backend"
)

// Notifications returns notifications grouped by day with the unread count.
func (h *Handler) Notifications(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if h.store == nil {
		rw.ServiceUnavailable("Notifications are disabled")
		return
	}
	rw.Success(h.store.Grouped(h.now()))
}

// MarkNotificationRead marks one notification read.
func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if h.store == nil {
		rw.ServiceUnavailable("Notifications are disabled")
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.store.MarkOneAsRead(r.Context(), id); err != nil {
		h.notificationError(rw, err)
		return
	}
	rw.Success(map[string]interface{}{"id": id, "unread": h.store.Unread()})
}

// MarkAllNotificationsRead marks every notification read.
func (h *Handler) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if h.store == nil {
		rw.ServiceUnavailable("Notifications are disabled")
		return
	}

	if err := h.store.MarkAllAsRead(r.Context()); err != nil {
		h.notificationError(rw, err)
		return
	}
	rw.Success(map[string]interface{}{"unread": h.store.Unread()})
}

// DeleteNotification removes one notification.
func (h *Handler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if h.store == nil {
		rw.ServiceUnavailable("Notifications are disabled")
		return
	}

	if err := h.store.DeleteOne(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.notificationError(rw, err)
		return
	}
	rw.NoContent()
}

func (h *Handler) notificationError(rw *ResponseWriter, err error) {
	if errors.Is(err, backend.ErrNotFound) {
		rw.NotFound("Notification not found")
		return
	}
	rw.ExternalServiceError("portal", err)
}

// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package api

import (
	"net/http"

	"github.com/tomtom215/turnstile/internal/logging"
	ws "github.com/tomtom215/turnstile/internal/websocket"
)

// WebSocket upgrades a dashboard connection and attaches it to the hub.
// The dashboard first receives the session status and attendance counts.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		NewResponseWriter(w, r).ServiceUnavailable("Dashboard push is not available")
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		logging.Ctx(r.Context()).Debug().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	ws.NewClient(h.hub, conn, h.greeting()...).Start()
}

func (h *Handler) greeting() []ws.Message {
	msgs := []ws.Message{{Type: ws.MessageTypeSession, Data: h.scanner.Status()}}
	if h.roster != nil {
		msgs = append(msgs, ws.Message{Type: ws.MessageTypeAttendance, Data: h.roster.Stats()})
	}
	if h.store != nil {
		msgs = append(msgs, ws.Message{
			Type: ws.MessageTypeNotification,
			Data: ws.NotificationData{Unread: h.store.Unread()},
		})
	}
	return msgs
}

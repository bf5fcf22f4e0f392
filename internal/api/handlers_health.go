// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package api

import (
	"context"
	"net/http"
	"time"
)

// readyPingTimeout bounds the portal ping in readiness checks.
const readyPingTimeout = 3 * time.Second

// HealthLive returns 200 while the process is alive, regardless of the
// portal.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady returns 200 when the portal answers and the circuit breaker
// is not open, 503 otherwise.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	portalConnected := false
	breakerState := "unknown"
	if h.backend != nil {
		ctx, cancel := context.WithTimeout(r.Context(), readyPingTimeout)
		portalConnected = h.backend.Ping(ctx) == nil
		cancel()
		breakerState = h.backend.State()
	}

	data := map[string]interface{}{
		"portal_connected": portalConnected,
		"circuit_breaker":  breakerState,
		"session_open":     h.scanner != nil && h.scanner.Current() != nil,
		"uptime":           time.Since(h.startTime).Seconds(),
	}
	if h.roster != nil {
		loadedAt := h.roster.LoadedAt()
		data["roster_loaded"] = !loadedAt.IsZero()
		if !loadedAt.IsZero() {
			data["roster_loaded_at"] = loadedAt
		}
	}
	if h.socket != nil {
		data["notifications_connected"] = h.socket.Connected()
	}

	ready := portalConnected && breakerState != "open"
	data["ready_to_serve"] = ready

	if !ready {
		rw.ErrorWithDetails(http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Station is not ready", data)
		return
	}
	rw.Success(data)
}

// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/turnstile/internal/attendance"
	"github.com/tomtom215/turnstile/internal/authz"
	"github.com/tomtom215/turnstile/internal/config"
	"github.com/tomtom215/turnstile/internal/logging"
	"github.com/tomtom215/turnstile/internal/models"
	"github.com/tomtom215/turnstile/internal/notify"
	"github.com/tomtom215/turnstile/internal/scan"
	ws "github.com/tomtom215/turnstile/internal/websocket"
)

// maxJSONBody bounds request bodies decoded as JSON.
const maxJSONBody = 64 * 1024

// HealthChecker reports portal reachability; backend.BreakerClient
// satisfies it.
type HealthChecker interface {
	Ping(ctx context.Context) error
	State() string
}

// SocketStatus reports the notification socket's connection state.
type SocketStatus interface {
	Connected() bool
}

// SessionEvents receives session status changes; *eventbus.Bus and
// *websocket.Hub satisfy it.
type SessionEvents interface {
	PublishSession(status models.SessionStatus)
}

// Dependencies are the components the handlers serve. Only Config and
// Scanner are required.
type Dependencies struct {
	Config   *config.Config
	Scanner  *scan.Manager
	Roster   *attendance.Roster
	Store    *notify.Store
	Socket   SocketStatus
	Hub      *ws.Hub
	Events   SessionEvents
	Backend  HealthChecker
	Enforcer *authz.Enforcer
	Decoder  scan.Decoder

	// Role is the operator's role from the station token.
	Role string

	// Now overrides the clock used for notification grouping. Tests only.
	Now func() time.Time
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers_health.go: liveness and readiness
//   - handlers_session.go: scanning session and payload submission
//   - handlers_attendance.go: roster and manual check-in
//   - handlers_notifications.go: portal notifications
//   - handlers_websocket.go: dashboard websocket
type Handler struct {
	config   *config.Config
	scanner  *scan.Manager
	roster   *attendance.Roster
	store    *notify.Store
	socket   SocketStatus
	hub      *ws.Hub
	events   SessionEvents
	backend  HealthChecker
	enforcer *authz.Enforcer
	decoder  scan.Decoder
	role     string

	startTime time.Time
	now       func() time.Time
}

// NewHandler creates the API handler.
func NewHandler(deps Dependencies) *Handler {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	events := deps.Events
	if events == nil && deps.Hub != nil {
		events = deps.Hub
	}
	return &Handler{
		config:    deps.Config,
		scanner:   deps.Scanner,
		roster:    deps.Roster,
		store:     deps.Store,
		socket:    deps.Socket,
		hub:       deps.Hub,
		events:    events,
		backend:   deps.Backend,
		enforcer:  deps.Enforcer,
		decoder:   deps.Decoder,
		role:      deps.Role,
		startTime: time.Now(),
		now:       now,
	}
}

// authorize checks the operator role. Without an enforcer every request is
// allowed (tests and local development).
func (h *Handler) authorize(object, action string) error {
	if h.enforcer == nil {
		return nil
	}
	return h.enforcer.Authorize(h.role, object, action)
}

// decodeJSON reads a bounded JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err != nil {
		return fmt.Errorf("failed to read body: %w", err)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// getUpgrader creates a WebSocket upgrader with origin checking and a
// handshake timeout.
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin validates WebSocket connection origins
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")

	// Browsers always send Origin; a missing one would bypass CORS.
	if origin == "" {
		logging.Warn().Msg("WebSocket connection rejected: missing Origin header")
		return false
	}

	if h.config == nil {
		return true
	}

	for _, allowedOrigin := range h.config.Security.CORSOrigins {
		if allowedOrigin == "*" || allowedOrigin == origin {
			return true
		}
	}

	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket connection rejected from unauthorized origin")
	return false
}

// sanitizeLogValue escapes control characters to prevent log injection.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&result, "\\x%02x", r)
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

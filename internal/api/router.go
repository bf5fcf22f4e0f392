// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/turnstile/internal/authz"
	"github.com/tomtom215/turnstile/internal/config"
)

// NewRouter builds the station's HTTP routes.
func NewRouter(h *Handler, sec *config.SecurityConfig) http.Handler {
	mw := NewChiMiddleware(NewChiMiddlewareConfig(sec))
	r := chi.NewRouter()

	// Applied to all routes in order; CORS must be global for preflight.
	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(mw.CORS())

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Use(PrometheusMetrics)

		r.Route("/health", func(r chi.Router) {
			r.Use(mw.RateLimitCustom(RateLimitHealth))
			r.Get("/live", h.HealthLive)
			r.Get("/ready", h.HealthReady)
		})

		r.Group(func(r chi.Router) {
			r.Use(mw.RateLimit())

			r.Route("/session", func(r chi.Router) {
				r.With(h.RequirePermission(authz.ObjectSession, authz.ActionRead)).Get("/", h.SessionStatus)
				r.With(h.RequirePermission(authz.ObjectSession, authz.ActionWrite)).Post("/", h.OpenSession)
				r.With(h.RequirePermission(authz.ObjectSession, authz.ActionWrite)).Delete("/", h.CloseSession)
			})

			r.Route("/attendance", func(r chi.Router) {
				r.With(h.RequirePermission(authz.ObjectAttendance, authz.ActionRead)).Get("/", h.Attendance)
				r.With(h.RequirePermission(authz.ObjectAttendance, authz.ActionRead)).Get("/search", h.SearchAttendance)
				r.With(h.RequirePermission(authz.ObjectAttendance, authz.ActionWrite)).Post("/refresh", h.RefreshAttendance)
				r.With(h.RequirePermission(authz.ObjectCheckIn, authz.ActionWrite)).Post("/{regId}/checkin", h.ManualCheckIn)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.With(h.RequirePermission(authz.ObjectNotifications, authz.ActionRead)).Get("/", h.Notifications)
				r.With(h.RequirePermission(authz.ObjectNotifications, authz.ActionWrite)).Put("/read-all", h.MarkAllNotificationsRead)
				r.With(h.RequirePermission(authz.ObjectNotifications, authz.ActionWrite)).Put("/{id}/read", h.MarkNotificationRead)
				r.With(h.RequirePermission(authz.ObjectNotifications, authz.ActionWrite)).Delete("/{id}", h.DeleteNotification)
			})
		})

		r.With(mw.RateLimitCustom(RateLimitScans), h.RequirePermission(authz.ObjectCheckIn, authz.ActionWrite)).
			Post("/scans", h.SubmitScan)
		r.With(mw.RateLimitCustom(RateLimitScans), h.RequirePermission(authz.ObjectCheckIn, authz.ActionWrite)).
			Post("/scans/image", h.SubmitScanImage)

		r.With(mw.RateLimitCustom(RateLimitWebSocket), h.RequirePermission(authz.ObjectAttendance, authz.ActionRead)).
			Get("/ws", h.WebSocket)
	})

	return r
}

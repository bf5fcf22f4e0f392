// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Scanner Metrics
	FramesSampled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "turnstile_frames_sampled_total",
			Help: "Total number of camera frames handed to the decoder",
		},
	)

	FramesSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "turnstile_frames_skipped_total",
			Help: "Total number of frames skipped before decoding",
		},
		[]string{"reason"}, // "no_frame", "zero_size", "source_error"
	)

	FrameDecodeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "turnstile_frame_decode_duration_seconds",
			Help:    "Time spent decoding one frame",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		},
	)

	ScansDecoded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "turnstile_scans_decoded_total",
			Help: "Total number of payload strings received by the coordinator",
		},
		[]string{"source"}, // "camera", "api"
	)

	PayloadsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "turnstile_payloads_rejected_total",
			Help: "Total number of payloads rejected before the de-duplication gate",
		},
		[]string{"reason"}, // "invalid_payload", "missing_identifier"
	)

	GateDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "turnstile_gate_decisions_total",
			Help: "De-duplication gate decisions",
		},
		[]string{"decision"}, // "admitted", "duplicate"
	)

	GateEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "turnstile_gate_entries",
			Help: "Identifiers recorded by the current session's gate",
		},
	)

	SessionOpen = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "turnstile_session_open",
			Help: "1 while a scanning session is open",
		},
	)

	// Check-in Metrics
	CheckInRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "turnstile_checkin_requests_total",
			Help: "Check-in requests by path and result",
		},
		[]string{"path", "result"}, // path: "scan", "manual"; result: "success", "failure", "timeout", "discarded"
	)

	CheckInDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "turnstile_checkin_duration_seconds",
			Help:    "Duration of check-in requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path"},
	)

	CheckInsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "turnstile_checkins_in_flight",
			Help: "Check-in requests awaiting a backend answer",
		},
	)

	// Backend Metrics
	BackendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "turnstile_backend_requests_total",
			Help: "Requests made to the portal API",
		},
		[]string{"operation", "status"},
	)

	BackendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "turnstile_backend_request_duration_seconds",
			Help:    "Duration of portal API requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	RosterSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "turnstile_roster_registrations",
			Help: "Registrations in the cached roster",
		},
		[]string{"state"}, // "checked_in", "pending"
	)

	RosterRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "turnstile_roster_refreshes_total",
			Help: "Roster refresh attempts",
		},
		[]string{"result"},
	)

	// Notification Metrics
	NotificationSocketConnected = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "turnstile_notification_socket_connected",
			Help: "1 while the portal notification socket is connected",
		},
	)

	NotificationSocketReconnects = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "turnstile_notification_socket_reconnects_total",
			Help: "Reconnection attempts to the portal notification socket",
		},
	)

	NotificationsReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "turnstile_notifications_received_total",
			Help: "Notification socket frames by event",
		},
		[]string{"event"},
	)

	NotificationsUnread = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "turnstile_notifications_unread",
			Help: "Unread notifications for the operator",
		},
	)

	ToastsEmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "turnstile_toasts_total",
			Help: "Operator-facing notifications emitted",
		},
		[]string{"level"},
	)

	// Dashboard WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "turnstile_dashboard_connections",
			Help: "Current number of dashboard WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "turnstile_dashboard_messages_sent_total",
			Help: "Messages broadcast to dashboards",
		},
	)

	WSMessagesDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "turnstile_dashboard_messages_dropped_total",
			Help: "Broadcasts dropped because the hub buffer was full",
		},
	)

	EventBusMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "turnstile_event_bus_messages_total",
			Help: "Dashboard events passed through the in-process bus",
		},
		[]string{"kind", "result"}, // result: "published", "forwarded", "failed"
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// HTTP API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "turnstile_api_requests_total",
			Help: "Local API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "turnstile_api_request_duration_seconds",
			Help:    "Local API request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// RecordPayloadRejected counts a payload dropped before the gate.
func RecordPayloadRejected(reason string) {
	PayloadsRejected.WithLabelValues(reason).Inc()
}

// RecordGateDecision counts a gate outcome.
func RecordGateDecision(admitted bool) {
	if admitted {
		GateDecisions.WithLabelValues("admitted").Inc()
		return
	}
	GateDecisions.WithLabelValues("duplicate").Inc()
}

// RecordCheckIn records a finished check-in request.
func RecordCheckIn(path, result string, duration time.Duration) {
	CheckInRequests.WithLabelValues(path, result).Inc()
	CheckInDuration.WithLabelValues(path).Observe(duration.Seconds())
}

// RecordBackendRequest records one portal API call.
func RecordBackendRequest(operation, status string, duration time.Duration) {
	BackendRequests.WithLabelValues(operation, status).Inc()
	BackendRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordAPIRequest records a local API request.
func RecordAPIRequest(method, route, status string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, status).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// SetRoster updates roster gauges.
func SetRoster(checkedIn, pending int) {
	RosterSize.WithLabelValues("checked_in").Set(float64(checkedIn))
	RosterSize.WithLabelValues("pending").Set(float64(pending))
}

// SetSessionOpen flips the open-session gauge.
func SetSessionOpen(open bool) {
	if open {
		SessionOpen.Set(1)
		return
	}
	SessionOpen.Set(0)
}

// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

// Package metrics provides Prometheus instrumentation for the check-in station.
//
// All collectors are registered with the default registry via promauto and
// served by the API router at /metrics.
//
// # Metric Families
//
//   - turnstile_frames_*, turnstile_scans_decoded_total: sampling loop throughput
//   - turnstile_payloads_rejected_total: invalid or identifier-less payloads
//   - turnstile_gate_decisions_total: admitted vs. duplicate detections
//   - turnstile_checkin_*: check-in requests, latency and in-flight count
//   - turnstile_backend_*: portal API calls
//   - turnstile_notification_*: notification socket state
//   - circuit_breaker_*: portal circuit breaker state and transitions
//   - turnstile_api_*: local HTTP API
//
// Example queries:
//
//	# Duplicate ratio over 5 minutes
//	rate(turnstile_gate_decisions_total{decision="duplicate"}[5m])
//	  / ignoring(decision) sum(rate(turnstile_gate_decisions_total[5m]))
//
//	# p95 check-in latency
//	histogram_quantile(0.95, rate(turnstile_checkin_duration_seconds_bucket[5m]))
package metrics

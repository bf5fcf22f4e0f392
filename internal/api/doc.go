// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

// Package api is the station's local HTTP surface.
//
// Routes live under /api/v1 and answer with the APIResponse envelope:
//
//	GET    /health/live              process liveness
//	GET    /health/ready             portal reachable and breaker closed
//	GET    /session                  scanning session status
//	POST   /session                  open a scanning session
//	DELETE /session                  close it
//	POST   /scans                    submit a decoded payload {"payload": "..."}
//	POST   /scans/image              decode an uploaded image and submit it
//	GET    /attendance               roster and counts
//	GET    /attendance/search?q=     name/email search
//	POST   /attendance/{regId}/checkin  manual check-in
//	GET    /notifications            grouped notifications and unread count
//	PUT    /notifications/read-all
//	PUT    /notifications/{id}/read
//	DELETE /notifications/{id}
//	GET    /ws                       dashboard websocket
//
// /metrics serves Prometheus metrics outside the versioned tree.
//
// Writes are authorized against the operator's role through internal/authz.
package api

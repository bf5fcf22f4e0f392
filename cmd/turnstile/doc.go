// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

/*
Command turnstile runs an event check-in station.

The station reads participant QR badges from a camera source, drops repeated
detections of the same badge inside a short cooldown, and checks each new
participant in against the Event Management Portal. A local dashboard API
(REST plus WebSocket) exposes the scanner session, the event's attendance
view and the organizer's real-time notifications.

Configuration is read from defaults, an optional .env file, an optional
config.yaml (or CONFIG_PATH) and environment variables. The minimum is:

	PORTAL_API_URL=https://portal.example.com/api
	PORTAL_TOKEN=<organizer bearer token>
	EVENT_ID=<event id>

All long-running components run under a suture supervisor tree:

	turnstile
	├── scanning-layer   scanner (auto_start only)
	├── messaging-layer  websocket hub, notification socket
	└── api-layer        HTTP server

SIGINT or SIGTERM closes the scanning session and stops the tree.
*/
package main

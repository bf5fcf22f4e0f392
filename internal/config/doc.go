// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

// Package config loads and validates station configuration using Koanf v2.
//
// Sources are layered: struct defaults, a .env file (godotenv), an optional
// YAML file, then mapped environment variables.
//
// # Required Settings
//
//	PORTAL_API_URL           - Portal REST base, e.g. https://portal.example.com/api
//	PORTAL_TOKEN             - Organizer bearer token
//	EVENT_ID                 - Event whose attendance is managed
//
// # Scanner
//
//	SCANNER_MODE             - continuous (default) or single
//	SCAN_COOLDOWN            - per-identifier de-duplication window (default: 1500ms)
//	SCAN_FRAME_INTERVAL      - sampling tick (default: 33ms)
//	CHECKIN_TIMEOUT          - check-in request timeout (default: 10s)
//
// # Camera
//
//	CAMERA_SOURCE            - none, directory or snapshot
//	CAMERA_PATH / CAMERA_URL - frame directory or snapshot endpoint
//
// # Notifications
//
//	NOTIFICATION_SOCKET_URL  - ws(s) endpoint for real-time notifications
//	SOCKET_RECONNECT_DELAY   - first reconnect delay (default: 800ms)
//	SOCKET_RECONNECT_MAX     - reconnect delay cap (default: 4s)
//
// Example config.yaml:
//
//	backend:
//	  url: https://portal.example.com/api
//	event:
//	  id: 665f1c2ab1e4
//	scanner:
//	  mode: continuous
//	  cooldown: 1500ms
//	camera:
//	  source: snapshot
//	  url: http://127.0.0.1:8080/shot.jpg
package config

// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

// Package attendance keeps the event roster and the manual check-in path.
//
// The roster is refreshed after every successful check-in, scanned or
// manual, and pushes the new counts to dashboards.
package attendance

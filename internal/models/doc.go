// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

// Package models defines the data structures shared by the station's packages.
//
// Portal documents (Registration, Event, Notification) keep the portal's JSON
// field names (_id, checkIn, createdAt) so they decode straight from backend
// responses. Station-side types (ScanEvent, ScanResult, SessionStatus, Toast)
// use snake_case like the rest of the local API.
package models

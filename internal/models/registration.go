// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package models

import (
	"strings"
	"time"
)

// User is the participant embedded in a registration by the portal.
type User struct {
	ID    string `json:"_id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// Registration is one participant's registration for an event.
type Registration struct {
	ID          string     `json:"_id"`
	User        User       `json:"user"`
	EventID     string     `json:"event,omitempty"`
	QRCode      string     `json:"qrCode,omitempty"` // data: URL of the badge image
	CheckIn     bool       `json:"checkIn"`
	CheckInTime *time.Time `json:"checkInTime,omitempty"`
	CreatedAt   time.Time  `json:"createdAt,omitempty"`
}

// Matches reports whether the registration matches an already trimmed and
// lowercased search query by participant name or email substring.
func (r *Registration) Matches(query string) bool {
	return strings.Contains(strings.ToLower(r.User.Name), query) ||
		strings.Contains(strings.ToLower(r.User.Email), query)
}

// Event is the subset of the portal event document the station displays.
type Event struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Date        time.Time `json:"date,omitempty"`
	Location    string    `json:"location,omitempty"`
	Capacity    int       `json:"capacity,omitempty"`
}

// AttendanceStats summarizes an event roster.
type AttendanceStats struct {
	Total     int `json:"total"`
	CheckedIn int `json:"checked_in"`
	Pending   int `json:"pending"`
}

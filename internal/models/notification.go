// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package models

import "time"

// Notification is an in-app notification owned by the operator's portal account.
type Notification struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title,omitempty"`
	Message   string    `json:"message"`
	Type      string    `json:"type,omitempty"`
	Link      string    `json:"link,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// UnreadCount is the portal's unread-count response body.
type UnreadCount struct {
	Count int `json:"count"`
}

// NotificationGroups buckets notifications by the calendar day they were created.
type NotificationGroups struct {
	Today     []Notification `json:"today"`
	Yesterday []Notification `json:"yesterday"`
	Earlier   []Notification `json:"earlier"`
	Unread    int            `json:"unread"`
}

// SocketEnvelope is a frame received on the portal notification socket.
type SocketEnvelope struct {
	Event string       `json:"event"`
	Data  Notification `json:"data"`
}

// NotificationEventNew is the socket event carrying a freshly created notification.
const NotificationEventNew = "notification:new"

// Toast levels used by the notification surface.
const (
	LevelSuccess = "success"
	LevelError   = "error"
	LevelInfo    = "info"
	LevelWarning = "warning"
)

// Toast is a transient operator-facing message.
type Toast struct {
	Level     string    `json:"level"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

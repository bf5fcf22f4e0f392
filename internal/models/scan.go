// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package models

import "time"

// ScanPayload is the JSON document encoded in a participant's QR badge.
// RegID is the only field the station requires.
type ScanPayload struct {
	RegID string `json:"regId"`
	Name  string `json:"name,omitempty"`
}

// ScanEvent is a successfully interpreted scan.
type ScanEvent struct {
	RegistrationID string    `json:"registration_id"`
	DisplayName    string    `json:"display_name,omitempty"`
	Source         string    `json:"source"`
	ScannedAt      time.Time `json:"scanned_at"`
}

// Scan sources.
const (
	ScanSourceCamera = "camera"
	ScanSourceAPI    = "api"
	ScanSourceManual = "manual"
)

// ScanOutcome is the terminal state of one decoded payload.
type ScanOutcome string

const (
	OutcomeCheckedIn      ScanOutcome = "checked_in"
	OutcomeFailed         ScanOutcome = "failed"
	OutcomeDuplicate      ScanOutcome = "duplicate"
	OutcomeInvalidPayload ScanOutcome = "invalid_payload"
	OutcomeMissingID      ScanOutcome = "missing_identifier"
	OutcomePending        ScanOutcome = "pending"
)

// ScanResult is reported to dashboards and API callers for each payload.
type ScanResult struct {
	RegistrationID string      `json:"registration_id,omitempty"`
	DisplayName    string      `json:"display_name,omitempty"`
	Outcome        ScanOutcome `json:"outcome"`
	Message        string      `json:"message,omitempty"`
	Source         string      `json:"source,omitempty"`
	Timestamp      time.Time   `json:"timestamp"`
}

// SessionStatus describes the scanning session for the dashboard.
type SessionStatus struct {
	Open       bool      `json:"open"`
	ID         string    `json:"id,omitempty"`
	Mode       string    `json:"mode,omitempty"`
	EventID    string    `json:"event_id,omitempty"`
	OpenedAt   time.Time `json:"opened_at,omitempty"`
	Admitted   int64     `json:"admitted"`
	Duplicates int64     `json:"duplicates"`
	CheckedIn  int64     `json:"checked_in"`
	Failed     int64     `json:"failed"`
}

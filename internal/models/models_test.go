// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package models

import (
	"testing"

	"github.com/goccy/go-json"
)

func TestRegistration_DecodesPortalDocument(t *testing.T) {
	t.Parallel()

	body := `{"_id":"r1","user":{"name":"Ada Lovelace","email":"ada@example.com"},"qrCode":"data:image/png;base64,AAA","checkIn":true}`

	var reg Registration
	if err := json.Unmarshal([]byte(body), &reg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if reg.ID != "r1" || reg.User.Name != "Ada Lovelace" || !reg.CheckIn {
		t.Errorf("unexpected registration: %+v", reg)
	}
}

func TestRegistration_Matches(t *testing.T) {
	t.Parallel()

	reg := Registration{User: User{Name: "Ada Lovelace", Email: "ada@Example.com"}}

	tests := []struct {
		query string
		want  bool
	}{
		{"ada", true},
		{"lovelace", true},
		{"example.com", true},
		{"grace", false},
	}
	for _, tt := range tests {
		if got := reg.Matches(tt.query); got != tt.want {
			t.Errorf("Matches(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
}

func TestSocketEnvelope_Decode(t *testing.T) {
	t.Parallel()

	body := `{"event":"notification:new","data":{"_id":"n1","message":"New registration","read":false,"createdAt":"2026-03-01T10:00:00Z"}}`

	var env SocketEnvelope
	if err := json.Unmarshal([]byte(body), &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if env.Event != NotificationEventNew {
		t.Errorf("Event = %q", env.Event)
	}
	if env.Data.ID != "n1" || env.Data.CreatedAt.IsZero() {
		t.Errorf("unexpected notification: %+v", env.Data)
	}
}

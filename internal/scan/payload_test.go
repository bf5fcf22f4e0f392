// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package scan

import (
	"errors"
	"testing"
)

func TestParsePayload(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		raw      string
		wantID   string
		wantName string
		wantErr  error
	}{
		{"id and name", `{"regId":"REG1","name":"Ada"}`, "REG1", "Ada", nil},
		{"id only", `{"regId":"REG2"}`, "REG2", "", nil},
		{"surrounding whitespace", "  {\"regId\":\" REG3 \"}\n", "REG3", "", nil},
		{"extra fields ignored", `{"regId":"REG4","event":"E1","v":2}`, "REG4", "", nil},
		{"plain text", "https://example.com/ticket/1", "", "", ErrInvalidPayload},
		{"truncated json", `{"regId":"REG1"`, "", "", ErrInvalidPayload},
		{"json array", `["REG1"]`, "", "", ErrInvalidPayload},
		{"json string", `"REG1"`, "", "", ErrInvalidPayload},
		{"json null", `null`, "", "", ErrInvalidPayload},
		{"empty", "", "", "", ErrInvalidPayload},
		{"missing regId", `{"name":"Ada"}`, "", "", ErrMissingIdentifier},
		{"empty regId", `{"regId":""}`, "", "", ErrMissingIdentifier},
		{"blank regId", `{"regId":"   "}`, "", "", ErrMissingIdentifier},
		{"numeric regId", `{"regId":12345}`, "12345", "", nil},
		{"long numeric regId", `{"regId":90071992547409931}`, "90071992547409931", "", nil},
		{"boolean regId", `{"regId":true}`, "", "", ErrMissingIdentifier},
		{"object regId", `{"regId":{"id":"REG1"}}`, "", "", ErrMissingIdentifier},
		{"null regId", `{"regId":null}`, "", "", ErrMissingIdentifier},
		{"non-string name ignored", `{"regId":"REG5","name":7}`, "REG5", "", nil},
		{"other key spelling", `{"registrationId":"REG1"}`, "", "", ErrMissingIdentifier},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ev, err := ParsePayload(tt.raw)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ev.RegistrationID != tt.wantID {
				t.Errorf("RegistrationID = %q, want %q", ev.RegistrationID, tt.wantID)
			}
			if ev.DisplayName != tt.wantName {
				t.Errorf("DisplayName = %q, want %q", ev.DisplayName, tt.wantName)
			}
		})
	}
}

func TestEncodePayload_RoundTrip(t *testing.T) {
	t.Parallel()

	raw, err := EncodePayload("REG9", "Grace Hopper")
	if err != nil {
		t.Fatalf("EncodePayload: %v", err)
	}
	ev, err := ParsePayload(raw)
	if err != nil {
		t.Fatalf("ParsePayload(%q): %v", raw, err)
	}
	if ev.RegistrationID != "REG9" || ev.DisplayName != "Grace Hopper" {
		t.Errorf("round trip = %+v", ev)
	}

	if _, err := EncodePayload(" ", "x"); !errors.Is(err, ErrMissingIdentifier) {
		t.Errorf("blank id error = %v", err)
	}
}

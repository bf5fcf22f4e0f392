// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package validation

import (
	"strings"
	"testing"
)

type scanRequest struct {
	Payload string `json:"payload" validate:"required,max=32"`
}

type checkInRequest struct {
	RegID string `json:"reg_id" validate:"required,regid"`
	Mode  string `json:"mode" validate:"omitempty,scanmode"`
	Limit int    `json:"limit" validate:"min=0,max=500"`
}

func TestGetValidator_Singleton(t *testing.T) {
	if GetValidator() != GetValidator() {
		t.Error("GetValidator() should return the same instance")
	}
}

func TestValidateStruct_Valid(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
	}{
		{"scan", &scanRequest{Payload: `{"regId":"a1"}`}},
		{"checkin", &checkInRequest{RegID: "665f1c2ab1e4", Mode: "single", Limit: 10}},
		{"checkin no mode", &checkInRequest{RegID: "reg_1-a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateStruct(tt.input); err != nil {
				t.Errorf("ValidateStruct() = %v", err)
			}
		})
	}
}

func TestValidateStruct_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		input     interface{}
		wantField string
		wantTag   string
		wantMsg   string
	}{
		{"missing payload", &scanRequest{}, "payload", "required", "payload is required"},
		{"long payload", &scanRequest{Payload: strings.Repeat("x", 33)}, "payload", "max", "payload must be at most 32 characters"},
		{"bad regid", &checkInRequest{RegID: "../etc"}, "reg_id", "regid", "reg_id must be a registration ID"},
		{"bad mode", &checkInRequest{RegID: "a", Mode: "burst"}, "mode", "scanmode", "mode must be continuous or single"},
		{"limit", &checkInRequest{RegID: "a", Limit: 501}, "limit", "max", "limit must be at most 500"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.input)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if len(err.Errors()) != 1 {
				t.Fatalf("errors = %d, want 1", len(err.Errors()))
			}
			fe := err.Errors()[0]
			if fe.Field() != tt.wantField || fe.Tag() != tt.wantTag {
				t.Errorf("field/tag = %s/%s, want %s/%s", fe.Field(), fe.Tag(), tt.wantField, tt.wantTag)
			}
			if fe.Error() != tt.wantMsg {
				t.Errorf("message = %q, want %q", fe.Error(), tt.wantMsg)
			}
		})
	}
}

func TestToAPIError(t *testing.T) {
	single := ValidateStruct(&scanRequest{}).ToAPIError()
	if single.Code != "VALIDATION_FAILED" || single.Details["field"] != "payload" {
		t.Errorf("single = %+v", single)
	}

	multi := ValidateStruct(&checkInRequest{Mode: "x", Limit: -1}).ToAPIError()
	fields, ok := multi.Details["fields"].([]map[string]interface{})
	if !ok || len(fields) != 3 {
		t.Fatalf("fields = %#v", multi.Details["fields"])
	}
	if !strings.Contains(multi.Message, "; ") {
		t.Errorf("message = %q", multi.Message)
	}

	empty := (&RequestValidationError{}).ToAPIError()
	if empty.Message != "Validation failed" {
		t.Errorf("empty = %+v", empty)
	}
}

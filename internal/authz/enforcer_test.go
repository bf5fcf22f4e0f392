// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package authz

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// setupEnforcer creates an enforcer with the built-in policy.
func setupEnforcer(t *testing.T) *Enforcer {
	t.Helper()
	enforcer, err := NewEnforcer()
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}
	return enforcer
}

func TestEnforcer_Roles(t *testing.T) {
	t.Parallel()

	e := setupEnforcer(t)

	tests := []struct {
		role   string
		object string
		action string
		want   bool
	}{
		{RoleOrganizer, ObjectSession, ActionWrite, true},
		{RoleOrganizer, ObjectCheckIn, ActionWrite, true},
		{RoleOrganizer, ObjectAttendance, ActionRead, true},
		{RoleAdmin, ObjectCheckIn, ActionWrite, true},
		{"Organizer", ObjectSession, ActionWrite, true},
		{RoleParticipant, ObjectSession, ActionWrite, false},
		{RoleParticipant, ObjectCheckIn, ActionWrite, false},
		{RoleParticipant, ObjectNotifications, ActionRead, true},
		{RoleParticipant, ObjectNotifications, ActionWrite, false},
		{"", ObjectAttendance, ActionRead, false},
		{"guest", ObjectAttendance, ActionRead, false},
	}
	for _, tt := range tests {
		got, err := e.Enforce(tt.role, tt.object, tt.action)
		if err != nil {
			t.Fatalf("Enforce(%q, %q, %q) error = %v", tt.role, tt.object, tt.action, err)
		}
		if got != tt.want {
			t.Errorf("Enforce(%q, %q, %q) = %v, want %v", tt.role, tt.object, tt.action, got, tt.want)
		}
	}
}

func TestEnforcer_Authorize(t *testing.T) {
	t.Parallel()

	e := setupEnforcer(t)

	if err := e.Authorize(RoleOrganizer, ObjectSession, ActionWrite); err != nil {
		t.Errorf("organizer: %v", err)
	}
	if err := e.Authorize(RoleParticipant, ObjectSession, ActionWrite); !errors.Is(err, ErrForbidden) {
		t.Errorf("participant: err = %v, want ErrForbidden", err)
	}
}

func TestEnforcer_RecordsDecisions(t *testing.T) {
	t.Parallel()

	e := setupEnforcer(t)

	allowed := AuthzDecisionsTotal.WithLabelValues(RoleAdmin, ObjectAttendance, ActionRead, "allowed")
	denied := AuthzDecisionsTotal.WithLabelValues(RoleParticipant, ObjectAttendance, ActionWrite, "denied")
	beforeAllowed := testutil.ToFloat64(allowed)
	beforeDenied := testutil.ToFloat64(denied)

	if err := e.Authorize(RoleAdmin, ObjectAttendance, ActionRead); err != nil {
		t.Fatalf("admin read: %v", err)
	}
	if err := e.Authorize(RoleParticipant, ObjectAttendance, ActionWrite); err == nil {
		t.Fatal("participant write: expected denial")
	}

	if got := testutil.ToFloat64(allowed) - beforeAllowed; got != 1 {
		t.Errorf("allowed decisions = %v, want 1", got)
	}
	if got := testutil.ToFloat64(denied) - beforeDenied; got != 1 {
		t.Errorf("denied decisions = %v, want 1", got)
	}
}

func TestEnforcer_PolicyStats(t *testing.T) {
	t.Parallel()

	setupEnforcer(t)

	if got := testutil.ToFloat64(AuthzPolicyRules.WithLabelValues("policy")); got != 2 {
		t.Errorf("policy rules = %v, want 2", got)
	}
	if got := testutil.ToFloat64(AuthzPolicyRules.WithLabelValues("grouping")); got != 1 {
		t.Errorf("grouping rules = %v, want 1", got)
	}
}

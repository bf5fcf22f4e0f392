// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordGateDecision(t *testing.T) {
	admitted := testutil.ToFloat64(GateDecisions.WithLabelValues("admitted"))
	duplicate := testutil.ToFloat64(GateDecisions.WithLabelValues("duplicate"))

	RecordGateDecision(true)
	RecordGateDecision(false)
	RecordGateDecision(false)

	if got := testutil.ToFloat64(GateDecisions.WithLabelValues("admitted")) - admitted; got != 1 {
		t.Errorf("admitted delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(GateDecisions.WithLabelValues("duplicate")) - duplicate; got != 2 {
		t.Errorf("duplicate delta = %v, want 2", got)
	}
}

func TestRecordCheckIn(t *testing.T) {
	before := testutil.ToFloat64(CheckInRequests.WithLabelValues("scan", "success"))

	RecordCheckIn("scan", "success", 120*time.Millisecond)

	if got := testutil.ToFloat64(CheckInRequests.WithLabelValues("scan", "success")) - before; got != 1 {
		t.Errorf("success delta = %v, want 1", got)
	}
	if n := testutil.CollectAndCount(CheckInDuration); n == 0 {
		t.Error("expected check-in duration series")
	}
}

func TestRecordPayloadRejected(t *testing.T) {
	before := testutil.ToFloat64(PayloadsRejected.WithLabelValues("missing_identifier"))
	RecordPayloadRejected("missing_identifier")
	if got := testutil.ToFloat64(PayloadsRejected.WithLabelValues("missing_identifier")) - before; got != 1 {
		t.Errorf("delta = %v, want 1", got)
	}
}

func TestGauges(t *testing.T) {
	SetRoster(3, 7)
	if got := testutil.ToFloat64(RosterSize.WithLabelValues("checked_in")); got != 3 {
		t.Errorf("checked_in = %v, want 3", got)
	}
	if got := testutil.ToFloat64(RosterSize.WithLabelValues("pending")); got != 7 {
		t.Errorf("pending = %v, want 7", got)
	}

	SetSessionOpen(true)
	if got := testutil.ToFloat64(SessionOpen); got != 1 {
		t.Errorf("SessionOpen = %v, want 1", got)
	}
	SetSessionOpen(false)
	if got := testutil.ToFloat64(SessionOpen); got != 0 {
		t.Errorf("SessionOpen = %v, want 0", got)
	}
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("POST", "/api/v1/scans", "202"))
	RecordAPIRequest("POST", "/api/v1/scans", "202", 5*time.Millisecond)
	if got := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("POST", "/api/v1/scans", "202")) - before; got != 1 {
		t.Errorf("delta = %v, want 1", got)
	}
}

// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package scan

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestGate_BurstAdmitsOnce(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	gate := NewGate(1500*time.Millisecond, clock.Now)

	admitted := 0
	for i := 0; i < 30; i++ {
		if gate.Admit("REG1") {
			admitted++
		}
		clock.Advance(33 * time.Millisecond)
	}

	// 30 frames at 33ms span 990ms, all inside the window.
	if admitted != 1 {
		t.Errorf("admitted %d times, want 1", admitted)
	}
	a, d := gate.Stats()
	if a != 1 || d != 29 {
		t.Errorf("Stats() = (%d, %d), want (1, 29)", a, d)
	}
}

func TestGate_ReadmitsAfterCooldown(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	gate := NewGate(time.Second, clock.Now)

	if !gate.Admit("REG1") {
		t.Fatal("first detection must be admitted")
	}
	clock.Advance(999 * time.Millisecond)
	if gate.Admit("REG1") {
		t.Fatal("detection inside the window must be dropped")
	}
	clock.Advance(time.Millisecond)
	if !gate.Admit("REG1") {
		t.Fatal("detection exactly at the window edge must be admitted")
	}
}

func TestGate_DropDoesNotExtendWindow(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	gate := NewGate(time.Second, clock.Now)
	start := clock.Now()

	gate.Admit("REG1")
	clock.Advance(500 * time.Millisecond)
	gate.Admit("REG1") // dropped

	last, ok := gate.LastSeen("REG1")
	if !ok || !last.Equal(start) {
		t.Errorf("LastSeen = %v, want %v", last, start)
	}

	clock.Advance(500 * time.Millisecond)
	if !gate.Admit("REG1") {
		t.Error("window is measured from the last admission, not the last detection")
	}
}

func TestGate_IndependentIdentifiers(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	gate := NewGate(1500*time.Millisecond, clock.Now)

	if !gate.Admit("A") || !gate.Admit("B") {
		t.Fatal("distinct identifiers must both be admitted")
	}
	if gate.Len() != 2 {
		t.Errorf("Len() = %d, want 2", gate.Len())
	}
}

func TestGate_ConcurrentSameInstant(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	gate := NewGate(1500*time.Millisecond, clock.Now)

	var admitted atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if gate.Admit("REG1") {
				admitted.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	if got := admitted.Load(); got != 1 {
		t.Errorf("admitted %d times, want exactly 1", got)
	}
}

func TestGate_ZeroCooldownAdmitsEverything(t *testing.T) {
	t.Parallel()

	gate := NewGate(0, newFakeClock().Now)
	for i := 0; i < 3; i++ {
		if !gate.Admit("REG1") {
			t.Fatalf("detection %d dropped with zero cooldown", i)
		}
	}
}

// Scenario from the station's acceptance notes, cooldown 1000ms:
// t=0 REG1 -> request; t=300 REG1 -> drop; t=600 REG2 -> request;
// t=900 REG1 -> drop; t=1000 REG1 -> request; t=1400 REG2 -> drop.
func TestGate_Timeline(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	gate := NewGate(time.Second, clock.Now)
	base := clock.Now()

	steps := []struct {
		at    time.Duration
		id    string
		admit bool
	}{
		{0, "REG1", true},
		{300 * time.Millisecond, "REG1", false},
		{600 * time.Millisecond, "REG2", true},
		{900 * time.Millisecond, "REG1", false},
		{1000 * time.Millisecond, "REG1", true},
		{1400 * time.Millisecond, "REG2", false},
		{1600 * time.Millisecond, "REG2", true},
	}

	for _, s := range steps {
		clock.Advance(base.Add(s.at).Sub(clock.Now()))
		if got := gate.Admit(s.id); got != s.admit {
			t.Errorf("t=%v %s: Admit() = %v, want %v", s.at, s.id, got, s.admit)
		}
	}
}

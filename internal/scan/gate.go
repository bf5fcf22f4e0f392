// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package scan

import (
	"sync"
	"time"

	"github.com/tomtom215/turnstile/internal/metrics"
)

// Gate drops repeated detections of the same registration within a cooldown
// window. It belongs to exactly one scanning session.
//
// Entries are never removed; an identifier becomes admissible again once the
// cooldown has elapsed since its last admission. The map is bounded by the
// number of distinct participants scanned in one session.
type Gate struct {
	mu       sync.Mutex
	cooldown time.Duration
	now      func() time.Time
	lastSeen map[string]time.Time

	admitted   int64
	duplicates int64
}

// NewGate creates a gate. A nil clock defaults to time.Now, whose readings
// carry the monotonic clock so wall-clock jumps do not reopen the window.
func NewGate(cooldown time.Duration, now func() time.Time) *Gate {
	if now == nil {
		now = time.Now
	}
	return &Gate{
		cooldown: cooldown,
		now:      now,
		lastSeen: make(map[string]time.Time),
	}
}

// Admit reports whether a check-in may be dispatched for id. The lookup and
// the timestamp write happen in one critical section, so two detections of
// the same identifier in the same instant admit exactly once. An admitted
// identifier is recorded before Admit returns, ahead of any request.
func (g *Gate) Admit(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if last, ok := g.lastSeen[id]; ok && now.Sub(last) < g.cooldown {
		g.duplicates++
		metrics.RecordGateDecision(false)
		return false
	}

	g.lastSeen[id] = now
	g.admitted++
	metrics.RecordGateDecision(true)
	metrics.GateEntries.Set(float64(len(g.lastSeen)))
	return true
}

// LastSeen returns the last admission time for id.
func (g *Gate) LastSeen(id string) (time.Time, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	t, ok := g.lastSeen[id]
	return t, ok
}

// Len returns the number of identifiers recorded.
func (g *Gate) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.lastSeen)
}

// Stats returns the admitted and duplicate counts.
func (g *Gate) Stats() (admitted, duplicates int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.admitted, g.duplicates
}

// Cooldown returns the configured window.
func (g *Gate) Cooldown() time.Duration {
	return g.cooldown
}

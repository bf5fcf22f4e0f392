// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package scan

import (
	"context"
	"sync"

	"github.com/tomtom215/turnstile/internal/models"
)

// Manager holds the station's current scanning session. At most one session
// is open at a time; each gets a fresh gate.
type Manager struct {
	opts Options
	deps Deps

	// authorize is consulted before every Open.
	authorize func() error

	mu      sync.Mutex
	current *Session
}

// NewManager creates a manager. authorize may be nil.
func NewManager(opts Options, deps Deps, authorize func() error) *Manager {
	return &Manager{opts: opts, deps: deps, authorize: authorize}
}

// Open starts a new session, or returns ErrSessionOpen if one is running.
func (m *Manager) Open(ctx context.Context) (*Session, error) {
	if m.authorize != nil {
		if err := m.authorize(); err != nil {
			return nil, err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil {
		select {
		case <-m.current.Done():
		default:
			return m.current, ErrSessionOpen
		}
	}

	s, err := Open(ctx, m.opts, m.deps)
	if err != nil {
		return nil, err
	}
	m.current = s
	return s, nil
}

// Close ends the current session, if any.
func (m *Manager) Close() {
	m.mu.Lock()
	s := m.current
	m.current = nil
	m.mu.Unlock()

	if s != nil {
		s.Close()
	}
}

// Current returns the open session, or nil.
func (m *Manager) Current() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil
	}
	select {
	case <-m.current.Done():
		return nil
	default:
		return m.current
	}
}

// Submit routes a payload to the open session.
func (m *Manager) Submit(ctx context.Context, raw, source string) (models.ScanResult, error) {
	s := m.Current()
	if s == nil {
		return models.ScanResult{Source: source}, ErrSessionClosed
	}
	return s.Submit(ctx, raw, source)
}

// Status reports the current session, or a closed status.
func (m *Manager) Status() models.SessionStatus {
	if s := m.Current(); s != nil {
		return s.Status()
	}
	return models.SessionStatus{Open: false, EventID: m.opts.EventID}
}

// HasCamera reports whether sessions will sample frames.
func (m *Manager) HasCamera() bool {
	return m.deps.Source != nil && m.deps.Decoder != nil
}

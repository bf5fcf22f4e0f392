// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package services

import (
	"context"
	"errors"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/turnstile/internal/logging"
	"github.com/tomtom215/turnstile/internal/models"
	"github.com/tomtom215/turnstile/internal/scan"
)

// SessionManager matches *scan.Manager.
type SessionManager interface {
	Open(ctx context.Context) (*scan.Session, error)
	Close()
	Status() models.SessionStatus
}

// SessionPublisher receives session status changes; *eventbus.Bus
// satisfies it.
type SessionPublisher interface {
	PublishSession(status models.SessionStatus)
}

// ScannerService opens a scanning session when the station starts and holds
// it until shutdown. A session that ends on its own (single-shot mode, or
// closed through the API) is not reopened, and neither is one that could
// not be opened: the operator reopens from the dashboard.
type ScannerService struct {
	manager   SessionManager
	publisher SessionPublisher
	name      string
}

// NewScannerService creates the wrapper. publisher may be nil.
func NewScannerService(manager SessionManager, publisher SessionPublisher) *ScannerService {
	return &ScannerService{
		manager:   manager,
		publisher: publisher,
		name:      "scanner",
	}
}

// Serve implements suture.Service.
func (s *ScannerService) Serve(ctx context.Context) error {
	sess, err := s.manager.Open(ctx)
	switch {
	case errors.Is(err, scan.ErrSessionOpen):
		logging.Info().Str("session_id", sess.ID()).Msg("Scanning session already open")
	case err != nil:
		logging.Error().Err(err).Msg("Failed to start scanning session")
		return suture.ErrDoNotRestart
	}

	s.publish()

	select {
	case <-ctx.Done():
		s.manager.Close()
		s.publish()
		return ctx.Err()
	case <-sess.Done():
		s.publish()
		return suture.ErrDoNotRestart
	}
}

func (s *ScannerService) publish() {
	if s.publisher != nil {
		s.publisher.PublishSession(s.manager.Status())
	}
}

// String implements fmt.Stringer for supervisor logging.
func (s *ScannerService) String() string {
	return s.name
}

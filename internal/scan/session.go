// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package scan

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/turnstile/internal/logging"
	"github.com/tomtom215/turnstile/internal/metrics"
	"github.com/tomtom215/turnstile/internal/models"
)

// Options configures one scanning session.
type Options struct {
	EventID        string
	Cooldown       time.Duration
	FrameInterval  time.Duration
	AckDuration    time.Duration
	CheckInTimeout time.Duration

	// SingleShot closes the session after the first successful check-in.
	SingleShot bool

	// Now overrides the gate clock. Tests only.
	Now func() time.Time
}

// Deps are the collaborators a session is wired to.
type Deps struct {
	// Source and Decoder are optional; without them the session accepts
	// payloads only through Submit.
	Source  FrameSource
	Decoder Decoder

	Client    CheckInClient
	Notifier  Notifier
	Refresher Refresher
	Publisher Publisher
}

// Session owns the camera, the sampling loop and the de-duplication gate
// for the time the scanner is open.
type Session struct {
	id       string
	opts     Options
	openedAt time.Time

	source  FrameSource
	gate    *Gate
	coord   *Coordinator
	sampler *Sampler

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	samplerDone chan struct{}
	closeOnce   sync.Once
}

// Open acquires the camera (when one is configured) and starts sampling.
// If the camera cannot be acquired the session is not started and the error
// wraps ErrCameraUnavailable. The session outlives ctx's cancellation but
// keeps its values; call Close to end it.
func Open(ctx context.Context, opts Options, deps Deps) (*Session, error) {
	if deps.Client == nil {
		return nil, fmt.Errorf("scan: check-in client is required")
	}

	id := uuid.New().String()
	sctx, cancel := context.WithCancel(logging.ContextWithSessionID(context.WithoutCancel(ctx), id))

	if deps.Source != nil {
		if err := deps.Source.Open(sctx); err != nil {
			cancel()
			return nil, fmt.Errorf("%w: %w", ErrCameraUnavailable, err)
		}
	}

	gate := NewGate(opts.Cooldown, opts.Now)
	requester := NewRequester(deps.Client, opts.CheckInTimeout, deps.Notifier, deps.Refresher)

	s := &Session{
		id:       id,
		opts:     opts,
		openedAt: time.Now(),
		source:   deps.Source,
		gate:     gate,
		coord:    NewCoordinator(sctx, gate, requester, deps.Notifier, deps.Publisher),
		ctx:      sctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}

	if opts.SingleShot {
		s.coord.OnCheckedIn(func(models.ScanResult) {
			// Delivery holds the coordinator's read lock; Close needs the
			// write lock, so it cannot run on this goroutine.
			go s.Close()
		})
	}

	if deps.Source != nil && deps.Decoder != nil {
		var ack func(bool)
		if deps.Publisher != nil {
			ack = deps.Publisher.PublishScanAck
		}
		s.sampler = NewSampler(deps.Source, deps.Decoder, s.handleFrame, opts.FrameInterval, opts.AckDuration, ack)
		s.samplerDone = make(chan struct{})
		go func() {
			defer close(s.samplerDone)
			s.sampler.Run(sctx)
		}()
	}

	metrics.SetSessionOpen(true)
	logging.Ctx(sctx).Info().
		Str("event_id", opts.EventID).
		Bool("single_shot", opts.SingleShot).
		Dur("cooldown", opts.Cooldown).
		Bool("camera", deps.Source != nil).
		Msg("Scanning session opened")

	return s, nil
}

func (s *Session) handleFrame(ctx context.Context, raw string) {
	ctx = logging.ContextWithNewCorrelationID(ctx)
	if _, err := s.coord.HandlePayload(ctx, raw, models.ScanSourceCamera); err != nil {
		logging.Ctx(ctx).Debug().Err(err).Msg("Scan not dispatched")
	}
}

// Submit feeds a payload decoded elsewhere (browser scanner, keyboard wedge)
// through the same interpreter, gate and requester.
func (s *Session) Submit(ctx context.Context, raw, source string) (models.ScanResult, error) {
	return s.coord.HandlePayload(logging.ContextWithSessionID(ctx, s.id), raw, source)
}

// Close stops sampling, releases the camera and discards results of requests
// still in flight without cancelling them. It is safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		if s.samplerDone != nil {
			<-s.samplerDone
		}
		if s.source != nil {
			if err := s.source.Close(); err != nil {
				logging.Ctx(s.ctx).Warn().Err(err).Msg("Failed to release camera")
			}
		}
		s.coord.Close()

		metrics.SetSessionOpen(false)
		admitted, duplicates := s.gate.Stats()
		logging.Ctx(s.ctx).Info().
			Int64("admitted", admitted).
			Int64("duplicates", duplicates).
			Msg("Scanning session closed")
		close(s.done)
	})
}

// Done is closed once the session has fully shut down.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Gate exposes the session's de-duplication gate.
func (s *Session) Gate() *Gate { return s.gate }

// Status reports the session state for the dashboard.
func (s *Session) Status() models.SessionStatus {
	admitted, duplicates := s.gate.Stats()
	checkedIn, failed := s.coord.Counts()
	mode := "continuous"
	if s.opts.SingleShot {
		mode = "single"
	}
	return models.SessionStatus{
		Open:       !s.coord.Closed(),
		ID:         s.id,
		Mode:       mode,
		EventID:    s.opts.EventID,
		OpenedAt:   s.openedAt,
		Admitted:   admitted,
		Duplicates: duplicates,
		CheckedIn:  checkedIn,
		Failed:     failed,
	}
}

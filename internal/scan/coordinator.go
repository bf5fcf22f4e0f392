// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package scan

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tomtom215/turnstile/internal/logging"
	"github.com/tomtom215/turnstile/internal/metrics"
	"github.com/tomtom215/turnstile/internal/models"
)

// Publisher receives scan outcomes for live dashboards.
type Publisher interface {
	PublishScanResult(result models.ScanResult)
	PublishScanAck(raised bool)
}

// Coordinator runs every decoded payload through the interpreter, the gate
// and the requester. Results that resolve after Close are discarded.
type Coordinator struct {
	gate      *Gate
	requester *Requester
	notifier  Notifier
	publisher Publisher
	now       func() time.Time

	// onCheckedIn runs after a delivered successful check-in.
	onCheckedIn func(models.ScanResult)

	// ctx carries the session's values but not its cancellation: a request
	// already sent runs to completion (or its own timeout) after Close.
	ctx context.Context

	// Payload handling and result delivery hold the read lock; Close takes
	// the write lock once as a barrier after setting closed.
	mu     sync.RWMutex
	closed atomic.Bool

	checkedIn atomic.Int64
	failed    atomic.Int64
}

// NewCoordinator creates a coordinator. Dispatched requests keep ctx's values
// but are bounded only by the requester timeout.
func NewCoordinator(ctx context.Context, gate *Gate, requester *Requester, notifier Notifier, publisher Publisher) *Coordinator {
	return &Coordinator{
		gate:      gate,
		requester: requester,
		notifier:  notifier,
		publisher: publisher,
		now:       time.Now,
		ctx:       context.WithoutCancel(ctx),
	}
}

// OnCheckedIn registers a hook run after each delivered successful check-in.
// It must be set before the first payload is handled.
func (c *Coordinator) OnCheckedIn(fn func(models.ScanResult)) {
	c.onCheckedIn = fn
}

// HandlePayload processes one decoded string. It returns immediately: an
// admitted payload yields OutcomePending while the check-in runs in the
// background. Invalid payloads raise an operator notification; duplicates
// are dropped silently.
func (c *Coordinator) HandlePayload(ctx context.Context, raw, source string) (models.ScanResult, error) {
	metrics.ScansDecoded.WithLabelValues(source).Inc()

	result := models.ScanResult{Source: source, Timestamp: c.now()}

	// Held through dispatch, so Close cannot slip in between the gate write
	// and the request start.
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed.Load() {
		return result, ErrSessionClosed
	}

	ev, err := ParsePayload(raw)
	switch {
	case errors.Is(err, ErrMissingIdentifier):
		metrics.RecordPayloadRejected("missing_identifier")
		result.Outcome = models.OutcomeMissingID
		result.Message = "Invalid QR"
		c.notify(models.LevelError, "Invalid QR", "The QR code does not contain a registration.")
		return result, err
	case err != nil:
		metrics.RecordPayloadRejected("invalid_payload")
		result.Outcome = models.OutcomeInvalidPayload
		result.Message = "Invalid QR Code"
		c.notify(models.LevelError, "Invalid QR Code", "The scanned code is not a participant badge.")
		return result, err
	}

	ev.Source = source
	ev.ScannedAt = result.Timestamp
	result.RegistrationID = ev.RegistrationID
	result.DisplayName = ev.DisplayName

	if !c.gate.Admit(ev.RegistrationID) {
		result.Outcome = models.OutcomeDuplicate
		logging.Ctx(ctx).Debug().Str("reg_id", ev.RegistrationID).Msg("Duplicate detection dropped")
		return result, ErrDuplicateWithinCooldown
	}

	result.Outcome = models.OutcomePending
	c.dispatch(ctx, ev)
	return result, nil
}

func (c *Coordinator) dispatch(ctx context.Context, ev models.ScanEvent) {
	corrID := logging.CorrelationIDFromContext(ctx)
	if corrID == "" {
		corrID = logging.GenerateCorrelationID()
	}
	reqCtx := logging.ContextWithCorrelationID(c.ctx, corrID)

	logging.Ctx(reqCtx).Debug().Str("reg_id", ev.RegistrationID).Str("source", ev.Source).Msg("Check-in dispatched")

	future := c.requester.CheckIn(reqCtx, ev, PathScan)

	go func() {
		res := <-future
		if !c.deliver(reqCtx, res) {
			metrics.CheckInRequests.WithLabelValues(PathScan, "discarded").Inc()
			logging.Ctx(reqCtx).Debug().Str("reg_id", ev.RegistrationID).Msg("Check-in result discarded after session close")
		}
	}()
}

// deliver applies a result unless the coordinator has been closed.
func (c *Coordinator) deliver(ctx context.Context, res Result) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed.Load() {
		return false
	}

	c.requester.Settle(ctx, res)

	sr := res.ScanResult()
	if res.OK() {
		c.checkedIn.Add(1)
	} else {
		c.failed.Add(1)
	}
	if c.publisher != nil {
		c.publisher.PublishScanResult(sr)
	}
	if res.OK() && c.onCheckedIn != nil {
		c.onCheckedIn(sr)
	}
	return true
}

func (c *Coordinator) notify(level, title, message string) {
	if c.notifier != nil {
		c.notifier.Notify(level, title, message)
	}
}

// Close stops result delivery. Requests already in flight are not
// cancelled; their results are discarded when they arrive. It is idempotent.
func (c *Coordinator) Close() {
	c.closed.Store(true)

	c.mu.Lock()
	//nolint:staticcheck // empty critical section waits out in-progress handlers
	c.mu.Unlock()
}

// Closed reports whether Close has been called.
func (c *Coordinator) Closed() bool {
	return c.closed.Load()
}

// Counts returns delivered check-in successes and failures.
func (c *Coordinator) Counts() (checkedIn, failed int64) {
	return c.checkedIn.Load(), c.failed.Load()
}

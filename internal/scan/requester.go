// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package scan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/turnstile/internal/logging"
	"github.com/tomtom215/turnstile/internal/metrics"
	"github.com/tomtom215/turnstile/internal/models"
)

// CheckInClient performs the backend check-in call.
type CheckInClient interface {
	CheckIn(ctx context.Context, regID string) (*models.Registration, error)
}

// Notifier is the operator-facing notification surface. Calls are
// fire-and-forget.
type Notifier interface {
	Notify(level, title, message string)
}

// Refresher reloads the attendance view after a successful check-in.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Check-in paths, used as a metrics label.
const (
	PathScan   = "scan"
	PathManual = "manual"
)

const (
	successTitle   = "Check-in Successful"
	successMessage = "Participant has been checked in."
	failureTitle   = "Check-in Failed"
	failureMessage = "Could not check in participant."
)

// Result is the resolved value of a check-in future.
type Result struct {
	Event        models.ScanEvent
	Registration *models.Registration
	Err          error
	Duration     time.Duration
	Path         string
}

// OK reports whether the check-in succeeded.
func (r Result) OK() bool { return r.Err == nil }

// ScanResult converts the result for dashboards and API callers.
func (r Result) ScanResult() models.ScanResult {
	out := models.ScanResult{
		RegistrationID: r.Event.RegistrationID,
		DisplayName:    r.Event.DisplayName,
		Source:         r.Event.Source,
		Outcome:        models.OutcomeCheckedIn,
		Timestamp:      time.Now(),
	}
	if r.Registration != nil && out.DisplayName == "" {
		out.DisplayName = r.Registration.User.Name
	}
	if r.Err != nil {
		out.Outcome = models.OutcomeFailed
		out.Message = failureText(r.Err)
	}
	return out
}

// Requester issues check-in calls and turns their results into operator
// notifications and attendance refreshes. It never retries.
type Requester struct {
	client    CheckInClient
	timeout   time.Duration
	notifier  Notifier
	refresher Refresher
}

// NewRequester creates a requester. notifier and refresher may be nil.
func NewRequester(client CheckInClient, timeout time.Duration, notifier Notifier, refresher Refresher) *Requester {
	return &Requester{
		client:    client,
		timeout:   timeout,
		notifier:  notifier,
		refresher: refresher,
	}
}

// CheckIn starts the backend call in its own goroutine and returns a future
// that yields exactly one Result. The call is bounded by the requester's
// timeout; expiry resolves with ErrCheckInTimeout.
func (r *Requester) CheckIn(ctx context.Context, ev models.ScanEvent, path string) <-chan Result {
	out := make(chan Result, 1)
	metrics.CheckInsInFlight.Inc()

	go func() {
		defer metrics.CheckInsInFlight.Dec()

		callCtx := ctx
		var cancel context.CancelFunc
		if r.timeout > 0 {
			callCtx, cancel = context.WithTimeout(ctx, r.timeout)
			defer cancel()
		}

		start := time.Now()
		reg, err := r.client.CheckIn(callCtx, ev.RegistrationID)
		res := Result{Event: ev, Registration: reg, Duration: time.Since(start), Path: path}

		switch {
		case err == nil:
			metrics.RecordCheckIn(path, "success", res.Duration)
		case errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded):
			res.Err = fmt.Errorf("%w: %w", ErrCheckInTimeout, err)
			metrics.RecordCheckIn(path, "timeout", res.Duration)
		default:
			res.Err = fmt.Errorf("%w: %w", ErrCheckInRequestFailed, err)
			metrics.RecordCheckIn(path, "failure", res.Duration)
		}

		out <- res
	}()

	return out
}

// Settle applies the side effects of a resolved check-in: a success or
// failure notification and, after success, an attendance refresh. Refresh
// errors are logged and otherwise ignored.
func (r *Requester) Settle(ctx context.Context, res Result) {
	log := logging.Ctx(ctx).With().
		Str("reg_id", res.Event.RegistrationID).
		Str("path", res.Path).
		Dur("duration", res.Duration).
		Logger()

	if res.Err != nil {
		log.Warn().Err(res.Err).Msg("Check-in failed")
		r.notify(models.LevelError, failureTitle, failureText(res.Err))
		return
	}

	log.Info().Msg("Check-in accepted")
	r.notify(models.LevelSuccess, successTitle, successText(res))

	if r.refresher == nil {
		return
	}
	if err := r.refresher.Refresh(ctx); err != nil {
		log.Warn().Err(err).Msg("Attendance refresh after check-in failed")
	}
}

func (r *Requester) notify(level, title, message string) {
	if r.notifier != nil {
		r.notifier.Notify(level, title, message)
	}
}

func successText(res Result) string {
	name := res.Event.DisplayName
	if name == "" && res.Registration != nil {
		name = res.Registration.User.Name
	}
	if name == "" {
		return successMessage
	}
	return "Scanned: " + name
}

// failureText prefers the message the backend sent with its error response.
func failureText(err error) string {
	if errors.Is(err, ErrCheckInTimeout) {
		return "Check-in timed out. Please try again."
	}
	var um interface{ UserMessage() string }
	if errors.As(err, &um) {
		if msg := um.UserMessage(); msg != "" {
			return msg
		}
	}
	return failureMessage
}

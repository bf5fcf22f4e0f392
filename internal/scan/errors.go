// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package scan

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPayload is returned when a decoded string is not a JSON object.
	ErrInvalidPayload = errors.New("invalid QR payload")

	// ErrMissingIdentifier is returned when the payload has no regId.
	ErrMissingIdentifier = errors.New("QR payload has no registration identifier")

	// ErrDuplicateWithinCooldown is returned when the gate drops a repeat detection.
	ErrDuplicateWithinCooldown = errors.New("duplicate detection within cooldown")

	// ErrCheckInRequestFailed wraps every backend failure of a check-in call.
	ErrCheckInRequestFailed = errors.New("check-in request failed")

	// ErrCheckInTimeout is a check-in failure caused by the client-side timeout.
	ErrCheckInTimeout = fmt.Errorf("%w: timed out", ErrCheckInRequestFailed)

	// ErrCameraUnavailable is returned when the frame source cannot be acquired.
	ErrCameraUnavailable = errors.New("camera unavailable")

	// ErrSessionClosed is returned for work submitted to a closed or absent session.
	ErrSessionClosed = errors.New("scanning session closed")

	// ErrSessionOpen is returned when opening a session while one is running.
	ErrSessionOpen = errors.New("scanning session already open")
)

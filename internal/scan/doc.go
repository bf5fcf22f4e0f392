// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

// Package scan turns QR detections into at most one check-in request per
// participant per cooldown window.
//
// A camera yields the same badge on many consecutive frames. The pipeline is:
//
//	Sampler (fixed-rate frame pull + decode)
//	    -> ParsePayload (JSON object with regId)
//	    -> Gate (per-identifier cooldown, check-and-record under one lock)
//	    -> Requester (async check-in with timeout, notification, refresh)
//
// Payloads decoded elsewhere (a browser scanner or a keyboard-wedge reader
// posting to the local API) enter the same pipeline through Session.Submit.
//
// # Sessions
//
// A Session owns the camera, the sampling goroutine and a fresh Gate. Close
// stops sampling and releases the camera. Check-ins already sent are not
// cancelled; one that resolves afterwards is discarded without notification,
// refresh or publish. In single-shot mode the session closes itself after the first
// successful check-in.
//
// # Errors
//
// Per-scan failures (ErrInvalidPayload, ErrMissingIdentifier,
// ErrDuplicateWithinCooldown, ErrCheckInRequestFailed) never end a session.
// ErrCameraUnavailable prevents a session from starting.
package scan

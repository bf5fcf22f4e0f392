// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

/*
Package backend is the client for the Event Management Portal API.

Client issues the REST calls (registration check-in, event roster,
notifications) with the organizer's bearer token, throttled by a token
bucket. BreakerClient adds a circuit breaker in front of every call; the
station always talks to the portal through it.

Errors from non-2xx answers are *APIError values. They unwrap to
ErrUnauthorized, ErrNotFound, ErrConflict and friends, and expose the
portal's own message through UserMessage so the operator sees "Already
checked in" rather than a status code.

ParseToken reads the organizer's identity and role from the token without
verifying it.
*/
package backend

// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

// Package logging provides centralized zerolog-based structured logging for Turnstile.
//
// JSON output is the default; console output is meant for a station operator
// watching a terminal during an event.
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Str("reg_id", id).Msg("Check-in accepted")
//	logging.Ctx(ctx).Warn().Err(err).Msg("Check-in failed")
//
// # Configuration
//
// Environment Variables:
//
//	LOG_LEVEL   - trace, debug, info, warn, error (default: info)
//	LOG_FORMAT  - json, console (default: json)
//	LOG_CALLER  - include caller file:line (default: false)
//
// # Context
//
// Scans carry a correlation ID, HTTP requests a request ID and everything
// produced by a scanning session its session ID. Ctx(ctx) attaches whichever
// are present.
//
// # slog Adapter
//
// NewSlogLogger returns an slog.Logger writing through zerolog, used for the
// suture supervisor event hook.
//
// Always terminate log chains with .Msg() or .Send(); an unterminated event
// is never written.
package logging

// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

// Package authz decides what the station's operator may do, based on the
// portal role carried in their token, using Casbin RBAC.
//
// The model and policy are built in:
//
//	p, organizer, station/*, *
//	p, participant, station/notifications, read
//	g, admin, organizer
//
// A station refuses to open a scanning session for a token whose role is
// not allowed to write station/session.
package authz

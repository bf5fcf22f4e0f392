// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

// Package notify handles both directions of operator notification.
//
// Inbound, Store mirrors the organizer's portal inbox and Socket keeps it
// current from the portal's push socket. Outbound, the Notifier types
// surface check-in outcomes to the operator: LogNotifier for headless
// stations, HubNotifier for dashboards, MultiNotifier to combine them.
package notify

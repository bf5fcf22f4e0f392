// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

// Package services adapts the station's components to suture.Service.
//
// Each wrapper depends on a small interface rather than the concrete type,
// so tests can drive it with fakes:
//
//   - HTTPServerService: ListenAndServe/Shutdown (*http.Server)
//   - WebSocketHubService: RunWithContext (*websocket.Hub)
//   - NotificationSocketService: Run/String (*notify.Socket)
//   - ScannerService: Open/Close/Status (*scan.Manager)
//
// A wrapper that should not be restarted after a normal end returns
// suture.ErrDoNotRestart.
package services

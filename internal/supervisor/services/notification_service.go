// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package services

import (
	"context"

	"github.com/thejerf/suture/v4"
)

// SocketRunner matches *notify.Socket.
type SocketRunner interface {
	Run(ctx context.Context) error
}

// NotificationSocketService runs the portal notification socket. The socket
// reconnects on its own, so Serve only returns on cancellation or Close.
type NotificationSocketService struct {
	socket SocketRunner
	name   string
}

// NewNotificationSocketService creates the wrapper.
func NewNotificationSocketService(socket SocketRunner) *NotificationSocketService {
	return &NotificationSocketService{
		socket: socket,
		name:   "notification-socket",
	}
}

// Serve implements suture.Service. A socket stopped by Close is not
// restarted.
func (n *NotificationSocketService) Serve(ctx context.Context) error {
	if err := n.socket.Run(ctx); err != nil {
		return err
	}
	return suture.ErrDoNotRestart
}

// String implements fmt.Stringer for supervisor logging.
func (n *NotificationSocketService) String() string {
	return n.name
}

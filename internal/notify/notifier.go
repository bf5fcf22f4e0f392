// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package notify

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/turnstile/internal/logging"
	"github.com/tomtom215/turnstile/internal/metrics"
	"github.com/tomtom215/turnstile/internal/models"
	"github.com/tomtom215/turnstile/internal/scan"
)

var (
	_ scan.Notifier = LogNotifier{}
	_ scan.Notifier = (*HubNotifier)(nil)
	_ scan.Notifier = MultiNotifier(nil)
)

// LogNotifier writes operator notifications to the log, for headless
// stations.
type LogNotifier struct{}

// Notify logs the notification at a level matching its severity.
func (LogNotifier) Notify(level, title, message string) {
	var ev *zerolog.Event
	switch level {
	case models.LevelError:
		ev = logging.Error()
	case models.LevelWarning:
		ev = logging.Warn()
	default:
		ev = logging.Info()
	}
	ev.Str("component", "toast").Str("level", level).Str("title", title).Msg(message)
}

// ToastBroadcaster delivers toasts to connected dashboards.
type ToastBroadcaster interface {
	BroadcastToast(t models.Toast)
}

// HubNotifier pushes notifications to dashboards as toasts.
type HubNotifier struct {
	hub ToastBroadcaster
	now func() time.Time
}

// NewHubNotifier creates a notifier over hub.
func NewHubNotifier(hub ToastBroadcaster) *HubNotifier {
	return &HubNotifier{hub: hub, now: time.Now}
}

// Notify broadcasts a toast. It never blocks on slow dashboards.
func (h *HubNotifier) Notify(level, title, message string) {
	metrics.ToastsEmitted.WithLabelValues(level).Inc()
	h.hub.BroadcastToast(models.Toast{
		Level:     level,
		Title:     title,
		Message:   message,
		Timestamp: h.now(),
	})
}

// MultiNotifier fans a notification out to several notifiers in order.
type MultiNotifier []scan.Notifier

// Notify calls every notifier.
func (m MultiNotifier) Notify(level, title, message string) {
	for _, n := range m {
		if n != nil {
			n.Notify(level, title, message)
		}
	}
}

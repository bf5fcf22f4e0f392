// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package backend

import (
	"context"
	"errors"
	"fmt"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/turnstile/internal/config"
	"github.com/tomtom215/turnstile/internal/logging"
	"github.com/tomtom215/turnstile/internal/metrics"
	"github.com/tomtom215/turnstile/internal/models"
)

// Ensure BreakerClient implements PortalAPI
var _ PortalAPI = (*BreakerClient)(nil)

// BreakerClient wraps Client with the circuit breaker pattern so a portal
// outage fails check-ins fast instead of tying up requests until timeout.
//
// 4xx answers are counted as successes: "already checked in" or "not found"
// mean the portal is healthy.
type BreakerClient struct {
	client *Client
	cb     *gobreaker.CircuitBreaker[interface{}]
	name   string
}

// NewBreakerClient creates a portal client with circuit breaker protection.
func NewBreakerClient(cfg *config.BackendConfig) *BreakerClient {
	return newBreakerClient(NewClient(cfg), cfg, "portal-api")
}

func newBreakerClient(client *Client, cfg *config.BackendConfig, cbName string) *BreakerClient {
	// Initialize circuit breaker state metrics
	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(cbName).Set(0)

	minRequests := cfg.BreakerMinRequests
	ratio := cfg.BreakerFailureRatio

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: cfg.BreakerMaxRequests,
		Interval:    cfg.BreakerInterval,
		Timeout:     cfg.BreakerTimeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests {
				return false
			}

			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= ratio

			if shouldTrip {
				logging.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", failureRatio*100).Msg("[CIRCUIT BREAKER] Opening portal circuit")
			}

			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] Portal state transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()

			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},

		IsSuccessful: func(err error) bool {
			return err == nil || IsClientError(err) || errors.Is(err, context.Canceled)
		},
	})

	return &BreakerClient{client: client, cb: cb, name: cbName}
}

// Client returns the wrapped client.
func (b *BreakerClient) Client() *Client { return b.client }

// State returns the breaker state as a string (closed, half-open, open).
func (b *BreakerClient) State() string {
	return stateToString(b.cb.State())
}

// execute wraps a portal call with circuit breaker protection
func (b *BreakerClient) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := b.cb.Execute(fn)

	if err != nil {
		switch {
		case errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests):
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
			logging.Warn().Err(err).Msg("[CIRCUIT BREAKER] Portal request rejected")
			return nil, fmt.Errorf("portal unavailable: %w", err)
		case IsClientError(err):
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
		default:
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
			counts := b.cb.Counts()
			metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(float64(counts.ConsecutiveFailures))
		}
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(0)

	return result, nil
}

// castResult asserts the type of a breaker result.
func castResult[T any](result interface{}, op string) (T, error) {
	v, ok := result.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("circuit breaker: unexpected result type for %s", op)
	}
	return v, nil
}

// Ping tests connectivity with circuit breaker protection
func (b *BreakerClient) Ping(ctx context.Context) error {
	_, err := b.execute(func() (interface{}, error) {
		return nil, b.client.Ping(ctx)
	})
	return err
}

// CheckIn checks a registration in with circuit breaker protection
func (b *BreakerClient) CheckIn(ctx context.Context, regID string) (*models.Registration, error) {
	result, err := b.execute(func() (interface{}, error) {
		return b.client.CheckIn(ctx, regID)
	})
	if err != nil {
		return nil, err
	}
	return castResult[*models.Registration](result, "CheckIn")
}

// ListRegistrations lists an event's registrations with circuit breaker protection
func (b *BreakerClient) ListRegistrations(ctx context.Context, eventID string) ([]models.Registration, error) {
	result, err := b.execute(func() (interface{}, error) {
		return b.client.ListRegistrations(ctx, eventID)
	})
	if err != nil {
		return nil, err
	}
	return castResult[[]models.Registration](result, "ListRegistrations")
}

// GetEvent fetches an event with circuit breaker protection
func (b *BreakerClient) GetEvent(ctx context.Context, eventID string) (*models.Event, error) {
	result, err := b.execute(func() (interface{}, error) {
		return b.client.GetEvent(ctx, eventID)
	})
	if err != nil {
		return nil, err
	}
	return castResult[*models.Event](result, "GetEvent")
}

// ListNotifications lists notifications with circuit breaker protection
func (b *BreakerClient) ListNotifications(ctx context.Context) ([]models.Notification, error) {
	result, err := b.execute(func() (interface{}, error) {
		return b.client.ListNotifications(ctx)
	})
	if err != nil {
		return nil, err
	}
	return castResult[[]models.Notification](result, "ListNotifications")
}

// UnreadCount fetches the unread count with circuit breaker protection
func (b *BreakerClient) UnreadCount(ctx context.Context) (int, error) {
	result, err := b.execute(func() (interface{}, error) {
		return b.client.UnreadCount(ctx)
	})
	if err != nil {
		return 0, err
	}
	return castResult[int](result, "UnreadCount")
}

// MarkNotificationRead marks a notification read with circuit breaker protection
func (b *BreakerClient) MarkNotificationRead(ctx context.Context, id string) error {
	_, err := b.execute(func() (interface{}, error) {
		return nil, b.client.MarkNotificationRead(ctx, id)
	})
	return err
}

// MarkAllNotificationsRead marks all notifications read with circuit breaker protection
func (b *BreakerClient) MarkAllNotificationsRead(ctx context.Context) error {
	_, err := b.execute(func() (interface{}, error) {
		return nil, b.client.MarkAllNotificationsRead(ctx)
	})
	return err
}

// DeleteNotification deletes a notification with circuit breaker protection
func (b *BreakerClient) DeleteNotification(ctx context.Context, id string) error {
	_, err := b.execute(func() (interface{}, error) {
		return nil, b.client.DeleteNotification(ctx, id)
	})
	return err
}

// stateToString converts circuit breaker state to string
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// stateToFloat converts circuit breaker state to float for Prometheus
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

/*
client.go - Event Portal REST API Client

Implements the calls a check-in station makes against the portal API:
registration check-in, the event roster, and the organizer's notifications.
Every request carries the organizer's bearer token.
*/

package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/turnstile/internal/config"
	"github.com/tomtom215/turnstile/internal/logging"
	"github.com/tomtom215/turnstile/internal/metrics"
	"github.com/tomtom215/turnstile/internal/models"
)

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 4096

// PortalAPI defines the portal operations the station uses.
// Both Client and BreakerClient implement this interface.
type PortalAPI interface {
	Ping(ctx context.Context) error
	CheckIn(ctx context.Context, regID string) (*models.Registration, error)
	ListRegistrations(ctx context.Context, eventID string) ([]models.Registration, error)
	GetEvent(ctx context.Context, eventID string) (*models.Event, error)
	ListNotifications(ctx context.Context) ([]models.Notification, error)
	UnreadCount(ctx context.Context) (int, error)
	MarkNotificationRead(ctx context.Context, id string) error
	MarkAllNotificationsRead(ctx context.Context) error
	DeleteNotification(ctx context.Context, id string) error
}

// Ensure Client implements PortalAPI
var _ PortalAPI = (*Client)(nil)

// Client provides access to the portal REST API
type Client struct {
	baseURL    string
	token      string
	timeout    time.Duration
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a portal API client.
//
// Requests other than CheckIn are bounded by cfg.RequestTimeout; check-in
// calls carry their own deadline from the caller. A zero cfg.RateLimit
// disables client-side throttling.
func NewClient(cfg *config.BackendConfig) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(cfg.URL, "/"),
		token:      cfg.Token,
		timeout:    cfg.RequestTimeout,
		httpClient: &http.Client{},
	}
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return c
}

// SetToken replaces the bearer token used on subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Ping tests connectivity to the portal
func (c *Client) Ping(ctx context.Context) error {
	return c.doRequest(ctx, "ping", http.MethodGet, "/health", nil, nil, true)
}

// CheckIn marks a registration as checked in.
//
// The portal answers with the updated registration on success; 4xx answers
// carry a message such as "Already checked in" that is surfaced unchanged.
func (c *Client) CheckIn(ctx context.Context, regID string) (*models.Registration, error) {
	endpoint := "/registrations/checkin/" + url.PathEscape(regID)

	var raw json.RawMessage
	if err := c.doRequest(ctx, "checkin", http.MethodPut, endpoint, nil, &raw, false); err != nil {
		return nil, err
	}

	// The check-in already happened; an unexpected body shape must not turn
	// it into a failure.
	var reg models.Registration
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &reg); err != nil {
			logging.Ctx(ctx).Debug().Err(err).Msg("Unrecognized check-in response body")
			reg = models.Registration{}
		}
	}
	if reg.ID == "" {
		reg.ID = regID
		reg.CheckIn = true
	}
	return &reg, nil
}

// ListRegistrations returns every registration for an event.
func (c *Client) ListRegistrations(ctx context.Context, eventID string) ([]models.Registration, error) {
	endpoint := "/registrations/event/" + url.PathEscape(eventID)

	var regs []models.Registration
	if err := c.doRequest(ctx, "list_registrations", http.MethodGet, endpoint, nil, &regs, true); err != nil {
		return nil, err
	}
	return regs, nil
}

// GetEvent returns an event.
func (c *Client) GetEvent(ctx context.Context, eventID string) (*models.Event, error) {
	var event models.Event
	if err := c.doRequest(ctx, "get_event", http.MethodGet, "/events/"+url.PathEscape(eventID), nil, &event, true); err != nil {
		return nil, err
	}
	return &event, nil
}

// ListNotifications returns the organizer's notifications, newest first.
func (c *Client) ListNotifications(ctx context.Context) ([]models.Notification, error) {
	var list []models.Notification
	if err := c.doRequest(ctx, "list_notifications", http.MethodGet, "/notifications/my", nil, &list, true); err != nil {
		return nil, err
	}
	return list, nil
}

// UnreadCount returns the number of unread notifications.
func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var out models.UnreadCount
	if err := c.doRequest(ctx, "unread_count", http.MethodGet, "/notifications/unread-count", nil, &out, true); err != nil {
		return 0, err
	}
	return out.Count, nil
}

// MarkNotificationRead marks one notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	endpoint := "/notifications/" + url.PathEscape(id) + "/read"
	return c.doRequest(ctx, "mark_read", http.MethodPut, endpoint, nil, nil, true)
}

// MarkAllNotificationsRead marks every notification as read.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	return c.doRequest(ctx, "mark_all_read", http.MethodPut, "/notifications/read-all", nil, nil, true)
}

// DeleteNotification removes a notification.
func (c *Client) DeleteNotification(ctx context.Context, id string) error {
	return c.doRequest(ctx, "delete_notification", http.MethodDelete, "/notifications/"+url.PathEscape(id), nil, nil, true)
}

// doRequest performs one portal call. body, when non-nil, is sent as JSON;
// out, when non-nil, receives the decoded 2xx response. bounded applies the
// client's request timeout.
func (c *Client) doRequest(ctx context.Context, operation, method, endpoint string, body, out interface{}, bounded bool) error {
	start := time.Now()
	status := "error"
	defer func() {
		metrics.RecordBackendRequest(operation, status, time.Since(start))
	}()

	if bounded && c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			status = "throttled"
			return fmt.Errorf("%s: rate limiter: %w", operation, err)
		}
	}

	var reader io.Reader = http.NoBody
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: failed to encode body: %w", operation, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "turnstile")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", operation, err)
	}
	defer func() { _ = resp.Body.Close() }()
	status = strconv.Itoa(resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if resp.StatusCode == http.StatusUnauthorized {
			logging.Ctx(ctx).Warn().Str("operation", operation).Msg("Unauthorized, token may be invalid")
		}
		return newAPIError(operation, resp.StatusCode, data)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: failed to read response: %w", operation, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", operation, err)
	}
	return nil
}

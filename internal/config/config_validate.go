// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateBackend(); err != nil {
		return err
	}
	if err := c.validateEvent(); err != nil {
		return err
	}
	if err := c.validateScanner(); err != nil {
		return err
	}
	if err := c.validateCamera(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateBackend() error {
	if c.Backend.URL == "" {
		return fmt.Errorf("PORTAL_API_URL is required")
	}
	if err := validateURL(c.Backend.URL, "PORTAL_API_URL", "http", "https"); err != nil {
		return err
	}
	if c.Backend.CheckInTimeout <= 0 {
		return fmt.Errorf("CHECKIN_TIMEOUT must be positive, got %v", c.Backend.CheckInTimeout)
	}
	if c.Backend.RequestTimeout <= 0 {
		return fmt.Errorf("PORTAL_REQUEST_TIMEOUT must be positive, got %v", c.Backend.RequestTimeout)
	}
	if c.Backend.RateLimit < 0 {
		return fmt.Errorf("PORTAL_RATE_LIMIT must not be negative")
	}
	if c.Backend.BreakerFailureRatio <= 0 || c.Backend.BreakerFailureRatio > 1 {
		return fmt.Errorf("BREAKER_FAILURE_RATIO must be in (0, 1], got %v", c.Backend.BreakerFailureRatio)
	}
	return nil
}

func (c *Config) validateEvent() error {
	if strings.TrimSpace(c.Event.ID) == "" {
		return fmt.Errorf("EVENT_ID is required")
	}
	return nil
}

func (c *Config) validateScanner() error {
	switch c.Scanner.Mode {
	case ScannerModeContinuous, ScannerModeSingle:
	default:
		return fmt.Errorf("SCANNER_MODE must be %q or %q, got %q", ScannerModeContinuous, ScannerModeSingle, c.Scanner.Mode)
	}
	if c.Scanner.Cooldown < 0 {
		return fmt.Errorf("SCAN_COOLDOWN must not be negative, got %v", c.Scanner.Cooldown)
	}
	if c.Scanner.FrameInterval < time.Millisecond {
		return fmt.Errorf("SCAN_FRAME_INTERVAL must be at least 1ms, got %v", c.Scanner.FrameInterval)
	}
	return nil
}

func (c *Config) validateCamera() error {
	switch c.Camera.Source {
	case CameraSourceNone, "":
		return nil
	case CameraSourceDirectory:
		if c.Camera.Path == "" {
			return fmt.Errorf("CAMERA_PATH is required when CAMERA_SOURCE=directory")
		}
	case CameraSourceSnapshot:
		if c.Camera.URL == "" {
			return fmt.Errorf("CAMERA_URL is required when CAMERA_SOURCE=snapshot")
		}
		if err := validateURL(c.Camera.URL, "CAMERA_URL", "http", "https"); err != nil {
			return err
		}
	default:
		return fmt.Errorf("CAMERA_SOURCE must be none, directory or snapshot, got %q", c.Camera.Source)
	}
	if c.Camera.MaxWidth < 0 {
		return fmt.Errorf("CAMERA_MAX_WIDTH must not be negative")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	n := c.Notifications
	if !n.Enabled {
		return nil
	}
	if n.SocketURL == "" {
		return fmt.Errorf("NOTIFICATION_SOCKET_URL is required when NOTIFICATIONS_ENABLED=true")
	}
	if err := validateURL(n.SocketURL, "NOTIFICATION_SOCKET_URL", "ws", "wss"); err != nil {
		return err
	}
	if n.ReconnectDelay <= 0 || n.ReconnectDelayMax < n.ReconnectDelay {
		return fmt.Errorf("socket reconnect delays must satisfy 0 < delay <= max, got %v/%v", n.ReconnectDelay, n.ReconnectDelayMax)
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if !c.Security.RateLimitDisabled && c.Security.RateLimitReqs <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive unless DISABLE_RATE_LIMIT=true")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be trace, debug, info, warn or error, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

// validateURL checks scheme and host. Paths are allowed since the portal API
// is usually mounted under /api.
func validateURL(rawURL, fieldName string, schemes ...string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}

	ok := false
	for _, s := range schemes {
		if parsed.Scheme == s {
			ok = true
			break
		}
	}
	if !ok {
		return fmt.Errorf("%s scheme must be one of %s, got: %q", fieldName, strings.Join(schemes, ", "), parsed.Scheme)
	}

	if parsed.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}

	if parsed.RawQuery != "" {
		return fmt.Errorf("%s should not contain query parameters, remove: ?%s", fieldName, parsed.RawQuery)
	}

	return nil
}

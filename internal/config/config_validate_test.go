// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Event.ID = "evt-1"
	return cfg
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults with event", func(*Config) {}, ""},
		{"missing backend url", func(c *Config) { c.Backend.URL = "" }, "PORTAL_API_URL"},
		{"ftp backend url", func(c *Config) { c.Backend.URL = "ftp://portal/api" }, "scheme"},
		{"backend url with query", func(c *Config) { c.Backend.URL = "https://portal/api?x=1" }, "query"},
		{"zero checkin timeout", func(c *Config) { c.Backend.CheckInTimeout = 0 }, "CHECKIN_TIMEOUT"},
		{"bad breaker ratio", func(c *Config) { c.Backend.BreakerFailureRatio = 1.5 }, "BREAKER_FAILURE_RATIO"},
		{"blank event", func(c *Config) { c.Event.ID = "  " }, "EVENT_ID"},
		{"bad mode", func(c *Config) { c.Scanner.Mode = "burst" }, "SCANNER_MODE"},
		{"negative cooldown", func(c *Config) { c.Scanner.Cooldown = -time.Second }, "SCAN_COOLDOWN"},
		{"zero cooldown allowed", func(c *Config) { c.Scanner.Cooldown = 0 }, ""},
		{"tiny frame interval", func(c *Config) { c.Scanner.FrameInterval = 0 }, "SCAN_FRAME_INTERVAL"},
		{"directory without path", func(c *Config) { c.Camera.Source = CameraSourceDirectory }, "CAMERA_PATH"},
		{"snapshot without url", func(c *Config) { c.Camera.Source = CameraSourceSnapshot }, "CAMERA_URL"},
		{"unknown camera", func(c *Config) { c.Camera.Source = "usb" }, "CAMERA_SOURCE"},
		{"socket without url", func(c *Config) { c.Notifications.Enabled = true }, "NOTIFICATION_SOCKET_URL"},
		{"socket http scheme", func(c *Config) {
			c.Notifications.Enabled = true
			c.Notifications.SocketURL = "http://portal/ws"
		}, "scheme"},
		{"socket delays inverted", func(c *Config) {
			c.Notifications.Enabled = true
			c.Notifications.SocketURL = "wss://portal/ws"
			c.Notifications.ReconnectDelayMax = 100 * time.Millisecond
		}, "reconnect"},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "HTTP_PORT"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "LOG_LEVEL"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package config

import (
	"time"
)

// Config holds all station configuration loaded from defaults, an optional
// YAML file and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: built-in values for all optional settings
//  2. .env: variables from a .env file in the working directory, if present
//  3. Config File: optional YAML file (config.yaml or CONFIG_PATH)
//  4. Environment Variables: override any mapped setting
type Config struct {
	Backend       BackendConfig       `koanf:"backend"`
	Event         EventConfig         `koanf:"event"`
	Scanner       ScannerConfig       `koanf:"scanner"`
	Camera        CameraConfig        `koanf:"camera"`
	Notifications NotificationsConfig `koanf:"notifications"`
	Server        ServerConfig        `koanf:"server"`
	Security      SecurityConfig      `koanf:"security"`
	Logging       LoggingConfig       `koanf:"logging"`
	Supervisor    SupervisorConfig    `koanf:"supervisor"`
}

// BackendConfig points the station at the portal REST API.
type BackendConfig struct {
	// URL is the API base, including the /api prefix (e.g. https://portal.example.com/api).
	URL string `koanf:"url"`

	// Token is the organizer's bearer token, sent on every request.
	Token string `koanf:"token"`

	// RequestTimeout bounds every non check-in request.
	RequestTimeout time.Duration `koanf:"request_timeout"`

	// CheckInTimeout bounds a single check-in call. Expiry is reported as a
	// failed check-in; the cooldown entry for the identifier is kept.
	CheckInTimeout time.Duration `koanf:"checkin_timeout"`

	// RateLimit caps outgoing requests per second (0 disables the limiter).
	RateLimit float64 `koanf:"rate_limit"`
	RateBurst int     `koanf:"rate_burst"`

	// Circuit breaker tuning.
	BreakerMaxRequests  uint32        `koanf:"breaker_max_requests"`
	BreakerInterval     time.Duration `koanf:"breaker_interval"`
	BreakerTimeout      time.Duration `koanf:"breaker_timeout"`
	BreakerMinRequests  uint32        `koanf:"breaker_min_requests"`
	BreakerFailureRatio float64       `koanf:"breaker_failure_ratio"`
}

// EventConfig selects the event whose attendance this station manages.
type EventConfig struct {
	ID string `koanf:"id"`
}

// Scanner modes.
const (
	ScannerModeContinuous = "continuous"
	ScannerModeSingle     = "single"
)

// ScannerConfig controls the de-duplication gate and the sampling loop.
type ScannerConfig struct {
	// Mode is "continuous" (keep scanning after a check-in) or "single"
	// (close the session after the first successful check-in).
	Mode string `koanf:"mode"`

	// Cooldown is the per-identifier window during which repeated detections
	// are dropped. Default: 1500ms
	Cooldown time.Duration `koanf:"cooldown"`

	// FrameInterval is the sampling tick. Default: 33ms
	FrameInterval time.Duration `koanf:"frame_interval"`

	// AckDuration is how long the visual acknowledgment stays raised.
	AckDuration time.Duration `koanf:"ack_duration"`

	// TryHarder enables the slower, more thorough decoder pass.
	TryHarder bool `koanf:"try_harder"`

	// AutoStart opens a scanning session at startup when a camera is configured.
	AutoStart bool `koanf:"auto_start"`
}

// Camera source kinds.
const (
	CameraSourceNone      = "none"
	CameraSourceDirectory = "directory"
	CameraSourceSnapshot  = "snapshot"
)

// CameraConfig describes where frames come from.
type CameraConfig struct {
	// Source is "none", "directory" (a folder frames are dropped into) or
	// "snapshot" (an HTTP endpoint returning the current JPEG/PNG frame).
	Source string `koanf:"source"`

	// Path is the frame directory for the directory source.
	Path string `koanf:"path"`

	// URL is the snapshot endpoint for the snapshot source.
	URL string `koanf:"url"`

	// MaxWidth downsizes frames wider than this before decoding (0 keeps size).
	MaxWidth int `koanf:"max_width"`

	// Grayscale converts frames before decoding.
	Grayscale bool `koanf:"grayscale"`
}

// NotificationsConfig controls the real-time notification socket.
type NotificationsConfig struct {
	Enabled bool `koanf:"enabled"`

	// SocketURL is the ws(s):// endpoint of the portal's notification socket.
	SocketURL string `koanf:"socket_url"`

	// ReconnectDelay is the first reconnection delay, doubled up to ReconnectDelayMax.
	ReconnectDelay    time.Duration `koanf:"reconnect_delay"`
	ReconnectDelayMax time.Duration `koanf:"reconnect_delay_max"`
}

// ServerConfig holds local dashboard HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// SecurityConfig holds local API protections and operator authorization.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`

	// OperatorRole is used when the token carries no role claim.
	OperatorRole string `koanf:"operator_role"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// SupervisorConfig tunes the suture supervisor tree.
type SupervisorConfig struct {
	FailureThreshold float64       `koanf:"failure_threshold"`
	FailureDecay     float64       `koanf:"failure_decay"`
	FailureBackoff   time.Duration `koanf:"failure_backoff"`
	ShutdownTimeout  time.Duration `koanf:"shutdown_timeout"`
}

// SingleShot reports whether the scanner closes after the first successful check-in.
func (c *ScannerConfig) SingleShot() bool {
	return c.Mode == ScannerModeSingle
}

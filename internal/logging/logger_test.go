// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestInit_ZeroConfig(t *testing.T) {
	var buf bytes.Buffer

	Init(Config{Output: &buf})
	defer Init(Config{Level: "info", Output: &bytes.Buffer{}})

	Debug().Msg("hidden")
	Info().Msg("shown")

	output := buf.String()
	if strings.Contains(output, "hidden") {
		t.Errorf("zero config must log at info: %s", output)
	}
	if !strings.Contains(output, `"message":"shown"`) {
		t.Errorf("expected JSON message field, got: %s", output)
	}
	if strings.Contains(output, `"time"`) {
		t.Errorf("timestamp must be opt-in, got: %s", output)
	}
}

func TestInit_JSON(t *testing.T) {
	var buf bytes.Buffer

	Init(Config{Level: "debug", Format: "json", Timestamp: true, Output: &buf})
	defer Init(Config{Level: "info", Output: &bytes.Buffer{}})

	Info().Str("reg_id", "REG1").Msg("check-in accepted")

	output := buf.String()
	if !strings.Contains(output, "check-in accepted") {
		t.Errorf("expected message in output, got: %s", output)
	}
	if !strings.Contains(output, `"level":"info"`) {
		t.Errorf("expected level in output, got: %s", output)
	}
	if !strings.Contains(output, `"reg_id":"REG1"`) {
		t.Errorf("expected reg_id field in output, got: %s", output)
	}
}

func TestInit_LevelFilters(t *testing.T) {
	var buf bytes.Buffer

	Init(Config{Level: "warn", Output: &buf})
	defer Init(Config{Level: "info", Output: &bytes.Buffer{}})

	Info().Msg("hidden")
	Warn().Msg("shown")

	output := buf.String()
	if strings.Contains(output, "hidden") {
		t.Errorf("info message should be filtered at warn level: %s", output)
	}
	if !strings.Contains(output, "shown") {
		t.Errorf("warn message missing: %s", output)
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"panic", zerolog.PanicLevel},
		{"disabled", zerolog.Disabled},
		{"DEBUG", zerolog.DebugLevel},
		{" Warning ", zerolog.WarnLevel},
		{"invalid", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := parseLevel(tt.input); got != tt.expected {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(NewTestLogger(&buf))
	defer SetLogger(NewTestLogger(&bytes.Buffer{}))

	l := WithComponent("sampler")
	l.Info().Msg("tick")

	if !strings.Contains(buf.String(), `"component":"sampler"`) {
		t.Errorf("expected component field, got: %s", buf.String())
	}
}

func TestInit_StationFields(t *testing.T) {
	var buf bytes.Buffer

	Init(Config{
		Level:   "info",
		Output:  &buf,
		Station: "door-a",
		Fields:  map[string]string{"event_id": "EVT1", "empty": ""},
	})
	defer Init(Config{Level: "info", Output: &bytes.Buffer{}})

	Info().Msg("scanner ready")

	output := buf.String()
	if !strings.Contains(output, `"station":"door-a"`) {
		t.Errorf("expected station field, got: %s", output)
	}
	if !strings.Contains(output, `"event_id":"EVT1"`) {
		t.Errorf("expected event_id field, got: %s", output)
	}
	if strings.Contains(output, `"empty"`) {
		t.Errorf("empty fields must be omitted, got: %s", output)
	}
}

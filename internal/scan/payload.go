// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package scan

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/turnstile/internal/models"
)

// IdentifierField is the canonical payload key carrying the registration ID.
const IdentifierField = "regId"

// ParsePayload interprets a decoded QR string. The result carries only the
// registration identifier and optional display name; Source and ScannedAt are
// left for the caller.
//
// A non-JSON string, or JSON that is not an object, yields ErrInvalidPayload.
// An object without a non-empty regId yields ErrMissingIdentifier. A numeric
// regId is taken verbatim as its decimal text.
func ParsePayload(raw string) (models.ScanEvent, error) {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "{") {
		return models.ScanEvent{}, ErrInvalidPayload
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &doc); err != nil {
		return models.ScanEvent{}, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}

	id := strings.TrimSpace(identifierText(doc[IdentifierField]))
	if id == "" {
		return models.ScanEvent{}, ErrMissingIdentifier
	}

	var name string
	_ = json.Unmarshal(doc["name"], &name)

	return models.ScanEvent{
		RegistrationID: id,
		DisplayName:    strings.TrimSpace(name),
	}, nil
}

// identifierText accepts a JSON string or number. Numbers keep their literal
// form so long ticket numbers are not rounded through float64.
func identifierText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// EncodePayload renders the badge payload for a registration. It is the
// inverse of ParsePayload and is used when printing badges.
func EncodePayload(regID, name string) (string, error) {
	if strings.TrimSpace(regID) == "" {
		return "", ErrMissingIdentifier
	}
	b, err := json.Marshal(models.ScanPayload{RegID: regID, Name: name})
	if err != nil {
		return "", fmt.Errorf("failed to encode payload: %w", err)
	}
	return string(b), nil
}

// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package backend

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
)

// Sentinel errors matched by APIError.Unwrap.
var (
	ErrUnauthorized = errors.New("portal rejected the token")
	ErrForbidden    = errors.New("portal denied access")
	ErrNotFound     = errors.New("portal resource not found")
	ErrConflict     = errors.New("portal reported a conflict")
	ErrServer       = errors.New("portal server error")

	// ErrTokenExpired is returned by ParseToken for a token past its exp claim.
	ErrTokenExpired = errors.New("token has expired")
)

// APIError is a non-2xx answer from the portal.
type APIError struct {
	Operation  string
	StatusCode int

	// Message is the "message" field of the error body, if any.
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s returned status %d: %s", e.Operation, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s returned status %d", e.Operation, e.StatusCode)
}

// UserMessage is the text an operator should see for this failure.
func (e *APIError) UserMessage() string {
	return e.Message
}

// Unwrap maps the status code onto a sentinel error.
func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case e.StatusCode == http.StatusForbidden:
		return ErrForbidden
	case e.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case e.StatusCode == http.StatusConflict:
		return ErrConflict
	case e.StatusCode >= 500:
		return ErrServer
	default:
		return nil
	}
}

// IsClientError reports whether err is a 4xx portal answer. Those are
// business outcomes (already checked in, unknown registration) rather than
// outages.
func IsClientError(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 400 && apiErr.StatusCode < 500
	}
	return false
}

// newAPIError builds an APIError from a response body.
func newAPIError(operation string, status int, body []byte) *APIError {
	apiErr := &APIError{Operation: operation, StatusCode: status}

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		apiErr.Message = payload.Message
		if apiErr.Message == "" {
			apiErr.Message = payload.Error
		}
	} else if text := strings.TrimSpace(string(body)); text != "" && len(text) <= 200 && !strings.HasPrefix(text, "<") {
		apiErr.Message = text
	}
	return apiErr
}

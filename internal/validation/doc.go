// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

// Package validation validates API request structs with go-playground/validator.
//
// A single validator instance is shared; it caches struct metadata and is
// safe for concurrent use. Failures come back as *RequestValidationError,
// which converts to the API's VALIDATION_FAILED error body:
//
//	type ScanRequest struct {
//	    Payload string `json:"payload" validate:"required,max=2048"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    rw.ValidationError(apiErr.Message, apiErr.Details)
//	    return
//	}
//
// Custom tags:
//   - regid: a portal registration identifier (letters, digits, '-' and '_')
//   - scanmode: "continuous" or "single"
package validation

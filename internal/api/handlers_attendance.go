// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/turnstile/internal/attendance"
	"github.com/tomtom215/turnstile/internal/logging"
	"github.com/tomtom215/turnstile/internal/models"
	"github.com/tomtom215/turnstile/internal/scan"
	"github.com/tomtom215/turnstile/internal/validation"
)

// maxSearchQuery bounds the attendance search string.
const maxSearchQuery = 128

// AttendanceView is the body of GET /attendance.
type AttendanceView struct {
	Event         *models.Event          `json:"event,omitempty"`
	Stats         models.AttendanceStats `json:"stats"`
	Registrations []models.Registration  `json:"registrations"`
	LoadedAt      time.Time              `json:"loaded_at"`
}

// AttendanceSearchResult is the body of GET /attendance/search.
type AttendanceSearchResult struct {
	Query   string                `json:"query"`
	Results []models.Registration `json:"results"`
}

type checkInParams struct {
	RegID string `json:"reg_id" validate:"required,regid"`
}

// Attendance returns the roster with counts.
func (h *Handler) Attendance(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if h.roster == nil {
		rw.ServiceUnavailable("Roster is not loaded")
		return
	}
	rw.Success(AttendanceView{
		Event:         h.roster.Event(),
		Stats:         h.roster.Stats(),
		Registrations: h.roster.All(),
		LoadedAt:      h.roster.LoadedAt(),
	})
}

// SearchAttendance filters the roster by name or email.
func (h *Handler) SearchAttendance(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if h.roster == nil {
		rw.ServiceUnavailable("Roster is not loaded")
		return
	}

	q := r.URL.Query().Get("q")
	if len(q) > maxSearchQuery {
		rw.BadRequest("q must be at most 128 characters")
		return
	}
	rw.Success(AttendanceSearchResult{Query: strings.TrimSpace(q), Results: h.roster.Search(q)})
}

// RefreshAttendance reloads registrations from the portal.
func (h *Handler) RefreshAttendance(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if h.roster == nil {
		rw.ServiceUnavailable("Roster is not loaded")
		return
	}
	if err := h.roster.Refresh(r.Context()); err != nil {
		rw.ExternalServiceError("portal", err)
		return
	}
	rw.Success(h.roster.Stats())
}

// ManualCheckIn checks a participant in from the roster, bypassing the
// scanner. It waits for the portal's answer.
func (h *Handler) ManualCheckIn(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	if h.roster == nil {
		rw.ServiceUnavailable("Roster is not loaded")
		return
	}

	params := checkInParams{RegID: chi.URLParam(r, "regId")}
	if verr := validation.ValidateStruct(&params); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	res, err := h.roster.ManualCheckIn(r.Context(), params.RegID)
	switch {
	case err == nil:
		rw.Success(res)
	case errors.Is(err, attendance.ErrUnknownRegistration):
		rw.NotFound("Registration not found for this event")
	case errors.Is(err, scan.ErrCheckInRequestFailed):
		logging.Ctx(r.Context()).Warn().Err(err).Str("reg_id", params.RegID).Msg("Manual check-in failed")
		rw.ErrorWithDetails(http.StatusBadGateway, ErrCodeExternalServiceFail, res.Message, res)
	default:
		logging.Ctx(r.Context()).Error().Err(err).Str("reg_id", params.RegID).Msg("Manual check-in failed")
		rw.InternalError("Manual check-in failed")
	}
}

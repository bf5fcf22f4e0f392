// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package api

import (
	"context"
	"errors"
	"image"
	"io"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/tomtom215/turnstile/internal/authz"
	"github.com/tomtom215/turnstile/internal/logging"
	"github.com/tomtom215/turnstile/internal/models"
	"github.com/tomtom215/turnstile/internal/scan"
	"github.com/tomtom215/turnstile/internal/validation"
)

// maxImageBody bounds uploaded badge images.
const maxImageBody = 16 << 20

// ScanRequest is the body of POST /scans.
type ScanRequest struct {
	Payload string `json:"payload" validate:"required,max=4096"`
}

// SessionStatus returns the current scanning session.
func (h *Handler) SessionStatus(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(h.scanner.Status())
}

// OpenSession opens a scanning session. The session outlives the request.
func (h *Handler) OpenSession(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	s, err := h.scanner.Open(context.WithoutCancel(r.Context()))
	switch {
	case errors.Is(err, scan.ErrSessionOpen):
		rw.Conflict("Scanning session already open", h.scanner.Status())
		return
	case errors.Is(err, authz.ErrForbidden):
		rw.Forbidden("Operator role may not open a scanning session")
		return
	case errors.Is(err, scan.ErrCameraUnavailable):
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Camera unavailable")
		rw.ServiceUnavailable("Camera unavailable")
		return
	case err != nil:
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to open scanning session")
		rw.InternalError("Failed to open scanning session")
		return
	}

	status := s.Status()
	h.publishSession(status)
	go h.watchSession(s)
	rw.Created(status)
}

// CloseSession closes the scanning session. Closing when none is open
// succeeds.
func (h *Handler) CloseSession(w http.ResponseWriter, r *http.Request) {
	h.scanner.Close()
	NewResponseWriter(w, r).Success(h.scanner.Status())
}

// watchSession publishes the closed status once s ends, whichever way it
// ends.
func (h *Handler) watchSession(s *scan.Session) {
	<-s.Done()
	h.publishSession(h.scanner.Status())
}

func (h *Handler) publishSession(status models.SessionStatus) {
	if h.events != nil {
		h.events.PublishSession(status)
	}
}

// SubmitScan feeds a payload decoded elsewhere through the session's
// interpreter, gate and requester. An admitted payload answers 202 with a
// pending result; the outcome follows on the websocket.
func (h *Handler) SubmitScan(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req ScanRequest
	if err := decodeJSON(w, r, &req); err != nil {
		rw.BadRequest("Request body must be JSON: {\"payload\": \"...\"}")
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		apiErr := verr.ToAPIError()
		rw.ValidationError(apiErr.Message, apiErr.Details)
		return
	}

	h.submit(rw, r, req.Payload)
}

// SubmitScanImage decodes the QR code in an uploaded image and submits it.
// The image is the raw body or the "image" field of a multipart form.
func (h *Handler) SubmitScanImage(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if h.decoder == nil {
		rw.ServiceUnavailable("Image decoding is not configured")
		return
	}

	img, err := readImage(w, r)
	if err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Rejected scan image")
		rw.BadRequest("Body is not a supported image")
		return
	}

	text, ok, err := h.decoder.Decode(img)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("QR decode failed")
		rw.InternalError("Failed to decode image")
		return
	}
	if !ok {
		rw.Error(http.StatusUnprocessableEntity, ErrCodeBadRequest, "No QR code found in image")
		return
	}

	h.submit(rw, r, text)
}

func readImage(w http.ResponseWriter, r *http.Request) (image.Image, error) {
	body := http.MaxBytesReader(w, r.Body, maxImageBody)

	var src io.Reader = body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		r.Body = body
		file, _, err := r.FormFile("image")
		if err != nil {
			return nil, err
		}
		defer file.Close()
		src = file
	}
	return imaging.Decode(src, imaging.AutoOrientation(true))
}

func (h *Handler) submit(rw *ResponseWriter, r *http.Request, payload string) {
	res, err := h.scanner.Submit(r.Context(), payload, models.ScanSourceAPI)
	switch {
	case err == nil:
		rw.Accepted(res)
	case errors.Is(err, scan.ErrDuplicateWithinCooldown):
		rw.Success(res)
	case errors.Is(err, scan.ErrSessionClosed):
		rw.Conflict("No scanning session is open", res)
	case errors.Is(err, scan.ErrMissingIdentifier), errors.Is(err, scan.ErrInvalidPayload):
		rw.BadRequestWithDetails(res.Message, res)
	default:
		logging.Ctx(r.Context()).Error().Err(err).Msg("Scan submission failed")
		rw.InternalError("Scan submission failed")
	}
}

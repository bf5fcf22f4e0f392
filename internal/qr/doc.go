// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

// Package qr wraps QR decoding (gozxing) and badge encoding (go-qrcode).
//
// Decoder satisfies scan.Decoder. Badge, BadgeImage and BadgeDataURL render
// participant badges for printing and for exercising a station without a
// live camera.
package qr

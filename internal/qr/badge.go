// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package qr

import (
	"encoding/base64"
	"fmt"
	"image"

	goqr "github.com/skip2/go-qrcode"
)

// DefaultBadgeSize is the badge edge length in pixels.
const DefaultBadgeSize = 256

// Badge renders payload as a QR code PNG of size x size pixels with medium
// error correction, the level the portal prints on tickets.
func Badge(payload string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultBadgeSize
	}
	png, err := goqr.Encode(payload, goqr.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode badge: %w", err)
	}
	return png, nil
}

// BadgeImage renders payload as an in-memory image.
func BadgeImage(payload string, size int) (image.Image, error) {
	if size <= 0 {
		size = DefaultBadgeSize
	}
	code, err := goqr.New(payload, goqr.Medium)
	if err != nil {
		return nil, fmt.Errorf("failed to encode badge: %w", err)
	}
	return code.Image(size), nil
}

// BadgeDataURL renders payload as a data: URL, the form the portal stores in
// a registration's qrCode field.
func BadgeDataURL(payload string, size int) (string, error) {
	png, err := Badge(payload, size)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package camera

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/tomtom215/turnstile/internal/config"
	"github.com/tomtom215/turnstile/internal/scan"
)

// Preprocess prepares a frame for decoding: frames wider than maxWidth are
// downsized preserving aspect ratio, and gray converts to luminance.
func Preprocess(img image.Image, maxWidth int, gray bool) image.Image {
	if img == nil {
		return nil
	}
	if maxWidth > 0 && img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}
	if gray {
		img = imaging.Grayscale(img)
	}
	return img
}

// New builds the frame source named by cfg.Source. It returns nil, nil for
// the "none" source: the station then accepts payloads only through the API.
func New(cfg *config.CameraConfig) (scan.FrameSource, error) {
	switch cfg.Source {
	case "", config.CameraSourceNone:
		return nil, nil
	case config.CameraSourceDirectory:
		return NewDirectorySource(cfg.Path, cfg.MaxWidth, cfg.Grayscale), nil
	case config.CameraSourceSnapshot:
		return NewSnapshotSource(cfg.URL, cfg.MaxWidth, cfg.Grayscale, nil), nil
	default:
		return nil, fmt.Errorf("unknown camera source %q", cfg.Source)
	}
}

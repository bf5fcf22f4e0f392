// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package qr

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/makiuchi-d/gozxing"
	zxqr "github.com/makiuchi-d/gozxing/qrcode"
)

// Decoder finds and decodes one QR code per frame. It tries the frame as
// given and, failing that, with inverted luminance so light-on-dark badges
// read too.
type Decoder struct {
	mu     sync.Mutex
	reader gozxing.Reader
	hints  map[gozxing.DecodeHintType]interface{}
	invert bool
}

// DecoderOption configures a Decoder.
type DecoderOption func(*Decoder)

// WithTryHarder enables the slower exhaustive search.
func WithTryHarder() DecoderOption {
	return func(d *Decoder) {
		d.hints[gozxing.DecodeHintType_TRY_HARDER] = true
	}
}

// WithoutInversion disables the inverted second pass.
func WithoutInversion() DecoderOption {
	return func(d *Decoder) {
		d.invert = false
	}
}

// NewDecoder creates a QR decoder.
func NewDecoder(opts ...DecoderOption) *Decoder {
	d := &Decoder{
		reader: zxqr.NewQRCodeReader(),
		hints:  make(map[gozxing.DecodeHintType]interface{}),
		invert: true,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode returns the text of the QR code in img. ok is false when no code
// could be located or read; that is the normal outcome for most frames.
func (d *Decoder) Decode(img image.Image) (string, bool, error) {
	if img == nil {
		return "", false, nil
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return "", false, nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	text, ok, err := d.decode(img)
	if ok || err != nil || !d.invert {
		return text, ok, err
	}
	return d.decode(imaging.Invert(img))
}

func (d *Decoder) decode(img image.Image) (string, bool, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", false, fmt.Errorf("failed to binarize frame: %w", err)
	}

	result, err := d.reader.Decode(bmp, d.hints)
	d.reader.Reset()
	if err != nil {
		var re gozxing.ReaderException
		if errors.As(err, &re) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to decode frame: %w", err)
	}
	return result.GetText(), true, nil
}

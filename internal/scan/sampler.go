// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package scan

import (
	"context"
	"image"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/turnstile/internal/logging"
	"github.com/tomtom215/turnstile/internal/metrics"
)

// FrameSource is an exclusively owned camera stream.
type FrameSource interface {
	// Open acquires the device. Failure means the camera is unavailable.
	Open(ctx context.Context) error

	// Frame returns the current frame. A nil image with a nil error means
	// no frame is ready yet.
	Frame(ctx context.Context) (image.Image, error)

	// Close releases the device.
	Close() error
}

// Decoder is the QR decode primitive. ok is false when the frame holds no
// readable code, which is not an error.
type Decoder interface {
	Decode(img image.Image) (text string, ok bool, err error)
}

// PayloadHandler receives every decoded string.
type PayloadHandler func(ctx context.Context, raw string)

// Sampler pulls frames at a fixed rate and forwards decoded strings. It never
// waits on check-in requests.
type Sampler struct {
	source   FrameSource
	decoder  Decoder
	handle   PayloadHandler
	interval time.Duration

	ack         func(raised bool)
	ackDuration time.Duration
	ackUntil    time.Time
	ackRaised   bool

	now    func() time.Time
	logger zerolog.Logger
}

// NewSampler creates a sampler. ack may be nil.
func NewSampler(source FrameSource, decoder Decoder, handle PayloadHandler, interval, ackDuration time.Duration, ack func(bool)) *Sampler {
	return &Sampler{
		source:      source,
		decoder:     decoder,
		handle:      handle,
		interval:    interval,
		ack:         ack,
		ackDuration: ackDuration,
		now:         time.Now,
		logger:      logging.WithComponent("sampler"),
	}
}

// Run ticks until ctx is cancelled. The source must already be open.
func (s *Sampler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info().Dur("interval", s.interval).Msg("Frame sampling started")
	defer s.logger.Info().Msg("Frame sampling stopped")

	for {
		select {
		case <-ctx.Done():
			s.lowerAck()
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick runs one sampling step and reports whether a payload was forwarded.
func (s *Sampler) Tick(ctx context.Context) bool {
	s.expireAck()

	frame, err := s.source.Frame(ctx)
	if err != nil {
		metrics.FramesSkipped.WithLabelValues("source_error").Inc()
		s.logger.Debug().Err(err).Msg("Frame unavailable")
		return false
	}
	if frame == nil {
		metrics.FramesSkipped.WithLabelValues("no_frame").Inc()
		return false
	}
	if b := frame.Bounds(); b.Dx() <= 0 || b.Dy() <= 0 {
		metrics.FramesSkipped.WithLabelValues("zero_size").Inc()
		return false
	}

	metrics.FramesSampled.Inc()
	start := time.Now()
	text, ok, err := s.decoder.Decode(frame)
	metrics.FrameDecodeDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		s.logger.Debug().Err(err).Msg("Frame decode failed")
		return false
	}
	if !ok || text == "" {
		return false
	}

	s.raiseAck()
	s.handle(ctx, text)
	return true
}

func (s *Sampler) raiseAck() {
	s.ackUntil = s.now().Add(s.ackDuration)
	if !s.ackRaised && s.ack != nil {
		s.ack(true)
	}
	s.ackRaised = true
}

func (s *Sampler) expireAck() {
	if s.ackRaised && !s.now().Before(s.ackUntil) {
		s.lowerAck()
	}
}

func (s *Sampler) lowerAck() {
	if !s.ackRaised {
		return
	}
	s.ackRaised = false
	if s.ack != nil {
		s.ack(false)
	}
}

// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package camera

import (
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/disintegration/imaging"

	"github.com/tomtom215/turnstile/internal/logging"
)

// maxSnapshotBytes caps a single frame download.
const maxSnapshotBytes = 16 << 20

// SnapshotSource polls an HTTP endpoint that returns the current camera
// frame as JPEG or PNG, as IP cameras and phone webcam apps expose.
type SnapshotSource struct {
	url      string
	maxWidth int
	gray     bool
	client   *http.Client
	open     atomic.Bool
}

// NewSnapshotSource creates a snapshot frame source. client may be nil.
func NewSnapshotSource(url string, maxWidth int, gray bool, client *http.Client) *SnapshotSource {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &SnapshotSource{url: url, maxWidth: maxWidth, gray: gray, client: client}
}

// Open fetches one frame to prove the camera is reachable.
func (s *SnapshotSource) Open(ctx context.Context) error {
	if _, err := s.fetch(ctx); err != nil {
		return err
	}
	s.open.Store(true)
	logging.Ctx(ctx).Info().Str("url", s.url).Msg("Snapshot camera opened")
	return nil
}

// Frame fetches the current frame.
func (s *SnapshotSource) Frame(ctx context.Context) (image.Image, error) {
	if !s.open.Load() {
		return nil, fmt.Errorf("snapshot camera is closed")
	}
	img, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	return Preprocess(img, s.maxWidth, s.gray), nil
}

// Close stops serving frames and drops idle connections.
func (s *SnapshotSource) Close() error {
	s.open.Store(false)
	s.client.CloseIdleConnections()
	return nil
}

func (s *SnapshotSource) fetch(ctx context.Context) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("snapshot request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("snapshot returned status %d", resp.StatusCode)
	}

	img, err := imaging.Decode(io.LimitReader(resp.Body, maxSnapshotBytes))
	if err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return img, nil
}

// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package camera

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/disintegration/imaging"

	"github.com/tomtom215/turnstile/internal/logging"
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
}

// DirectorySource serves the newest image in a directory as the current
// frame. Capture tools (a webcam grabber, a phone sync folder) write frames
// there; the latest one wins.
type DirectorySource struct {
	dir      string
	maxWidth int
	gray     bool

	mu      sync.Mutex
	open    bool
	name    string
	modTime time.Time
	frame   image.Image
}

// NewDirectorySource creates a directory frame source.
func NewDirectorySource(dir string, maxWidth int, gray bool) *DirectorySource {
	return &DirectorySource{dir: dir, maxWidth: maxWidth, gray: gray}
}

// Open verifies the directory is readable.
func (d *DirectorySource) Open(ctx context.Context) error {
	info, err := os.Stat(d.dir)
	if err != nil {
		return fmt.Errorf("frame directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("frame directory %s is not a directory", d.dir)
	}

	d.mu.Lock()
	d.open = true
	d.name, d.modTime, d.frame = "", time.Time{}, nil
	d.mu.Unlock()

	logging.Ctx(ctx).Info().Str("dir", d.dir).Msg("Directory camera opened")
	return nil
}

// Frame returns the newest frame. An unchanged file is served from memory.
func (d *DirectorySource) Frame(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.open {
		return nil, errors.New("directory camera is closed")
	}

	name, modTime, err := newestImage(d.dir)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, nil
	}
	if name == d.name && modTime.Equal(d.modTime) {
		return d.frame, nil
	}

	img, err := imaging.Open(filepath.Join(d.dir, name), imaging.AutoOrientation(true))
	if err != nil {
		// Usually a frame that is still being written.
		return nil, fmt.Errorf("read frame %s: %w", name, err)
	}

	d.name, d.modTime = name, modTime
	d.frame = Preprocess(img, d.maxWidth, d.gray)
	return d.frame, nil
}

// Close releases the cached frame.
func (d *DirectorySource) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open = false
	d.frame = nil
	return nil
}

func newestImage(dir string) (string, time.Time, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("list frames: %w", err)
	}

	var (
		newest  string
		newestT time.Time
	)
	for _, e := range entries {
		if e.IsDir() || !imageExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if newest == "" || info.ModTime().After(newestT) {
			newest, newestT = e.Name(), info.ModTime()
		}
	}
	return newest, newestT, nil
}

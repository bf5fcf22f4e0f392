// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

// Package camera provides scan.FrameSource implementations.
//
// A station has no direct device access; frames come either from a
// directory a capture tool writes into (DirectorySource) or from an HTTP
// snapshot endpoint (SnapshotSource). Both downsize and grayscale frames
// with imaging before they reach the decoder.
package camera

// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

// Command badge renders a participant's check-in QR badge.
//
//	badge -reg 665f1c2ab1e4 -name "Ada Lovelace" -out ada.png
//	badge -reg 665f1c2ab1e4 -data-url
//
// The badge carries the same JSON payload the portal prints on tickets, so
// it can be dropped into a directory camera source to exercise a station.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tomtom215/turnstile/internal/logging"
	"github.com/tomtom215/turnstile/internal/qr"
	"github.com/tomtom215/turnstile/internal/scan"
)

func main() {
	regID := flag.String("reg", "", "Registration ID encoded in the badge (required)")
	name := flag.String("name", "", "Participant name")
	size := flag.Int("size", qr.DefaultBadgeSize, "Badge edge length in pixels")
	out := flag.String("out", "badge.png", "Output PNG path (- for stdout)")
	dataURL := flag.Bool("data-url", false, "Print a data: URL instead of writing a PNG")
	flag.Parse()

	logging.Init(logging.Config{Level: "info", Format: "console", Timestamp: true})

	payload, err := scan.EncodePayload(*regID, *name)
	if err != nil {
		flag.Usage()
		logging.Fatal().Err(err).Msg("Invalid badge")
	}

	if *dataURL {
		url, err := qr.BadgeDataURL(payload, *size)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to render badge")
		}
		fmt.Println(url)
		return
	}

	png, err := qr.Badge(payload, *size)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to render badge")
	}

	if *out == "-" {
		if _, err := os.Stdout.Write(png); err != nil {
			logging.Fatal().Err(err).Msg("Failed to write badge")
		}
		return
	}
	if err := os.WriteFile(*out, png, 0o600); err != nil {
		logging.Fatal().Err(err).Str("path", *out).Msg("Failed to write badge")
	}
	logging.Info().Str("path", *out).Str("reg_id", *regID).Msg("Badge written")
}

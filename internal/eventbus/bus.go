// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

// Package eventbus carries dashboard events from the scanning pipeline to
// the websocket hub over an in-process watermill GoChannel.
//
// Producers (the check-in coordinator, the roster and the scanner service)
// publish without knowing who listens. A Forwarder running under the
// supervisor relays each event to the hub. Every event goes through one
// topic so dashboards see them in publish order; the event kind travels in
// message metadata.
package eventbus

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"

	"github.com/tomtom215/turnstile/internal/metrics"
	"github.com/tomtom215/turnstile/internal/models"
)

// Topic is the single topic dashboard events are published on.
const Topic = "turnstile.dashboard"

// MetadataKind names the metadata key holding the event kind.
const MetadataKind = "kind"

// Event kinds.
const (
	KindScanResult = "scan_result"
	KindScanAck    = "scan_ack"
	KindAttendance = "attendance"
	KindSession    = "session"
)

// DefaultBuffer is the per-subscriber channel size.
const DefaultBuffer = 256

// ackEvent is the body of a KindScanAck message.
type ackEvent struct {
	Raised bool `json:"raised"`
}

// Bus publishes dashboard events. It satisfies scan.Publisher,
// attendance.Publisher and services.SessionPublisher.
type Bus struct {
	pubsub *gochannel.GoChannel
	logger watermill.LoggerAdapter
}

// New creates a bus. A nil logger discards watermill's own logs.
func New(buffer int64, logger watermill.LoggerAdapter) *Bus {
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: buffer,
			// Keeps per-producer order; the forwarder acks after a
			// non-blocking hub broadcast.
			BlockPublishUntilSubscriberAck: true,
		}, logger),
		logger: logger,
	}
}

// Subscriber exposes the subscribing side for a Forwarder.
func (b *Bus) Subscriber() message.Subscriber {
	return b.pubsub
}

func (b *Bus) PublishScanResult(res models.ScanResult) {
	b.publish(KindScanResult, res)
}

func (b *Bus) PublishScanAck(raised bool) {
	b.publish(KindScanAck, ackEvent{Raised: raised})
}

func (b *Bus) PublishAttendance(stats models.AttendanceStats) {
	b.publish(KindAttendance, stats)
}

func (b *Bus) PublishSession(status models.SessionStatus) {
	b.publish(KindSession, status)
}

// Close stops every subscription. Publishing afterwards is logged and
// dropped.
func (b *Bus) Close() error {
	return b.pubsub.Close()
}

// publish returns once the forwarder has acked. With no subscriber the
// message is dropped.
func (b *Bus) publish(kind string, body interface{}) {
	payload, err := json.Marshal(body)
	if err != nil {
		b.fail(kind, fmt.Errorf("encode %s event: %w", kind, err))
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(MetadataKind, kind)

	if err := b.pubsub.Publish(Topic, msg); err != nil {
		b.fail(kind, err)
		return
	}
	metrics.EventBusMessages.WithLabelValues(kind, "published").Inc()
}

func (b *Bus) fail(kind string, err error) {
	metrics.EventBusMessages.WithLabelValues(kind, "failed").Inc()
	b.logger.Error("Dashboard event not published", err, watermill.LogFields{"kind": kind})
}

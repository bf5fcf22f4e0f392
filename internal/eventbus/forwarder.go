// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package eventbus

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"

	"github.com/tomtom215/turnstile/internal/logging"
	"github.com/tomtom215/turnstile/internal/metrics"
	"github.com/tomtom215/turnstile/internal/models"
)

// Sink receives events taken off the bus; *websocket.Hub satisfies it.
// Its methods must not block.
type Sink interface {
	PublishScanResult(res models.ScanResult)
	PublishScanAck(raised bool)
	PublishAttendance(stats models.AttendanceStats)
	PublishSession(status models.SessionStatus)
}

// Forwarder relays bus events to a Sink. It is a suture.Service: Serve
// subscribes and runs until ctx ends or the bus closes.
type Forwarder struct {
	subscriber message.Subscriber
	sink       Sink
	name       string
}

func NewForwarder(bus *Bus, sink Sink) *Forwarder {
	return &Forwarder{
		subscriber: bus.Subscriber(),
		sink:       sink,
		name:       "event-forwarder",
	}
}

// Serve returns ctx.Err() on cancellation. A closed bus ends the service
// with an error so the supervisor reports it.
func (f *Forwarder) Serve(ctx context.Context) error {
	messages, err := f.subscriber.Subscribe(ctx, Topic)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", Topic, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return fmt.Errorf("event bus closed")
			}
			f.forward(msg)
		}
	}
}

// forward always acks: an event that cannot be decoded is logged and
// dropped rather than redelivered.
func (f *Forwarder) forward(msg *message.Message) {
	defer msg.Ack()

	kind := msg.Metadata.Get(MetadataKind)
	if err := f.dispatch(kind, msg.Payload); err != nil {
		metrics.EventBusMessages.WithLabelValues(kind, "failed").Inc()
		logging.Warn().Err(err).Str("kind", kind).Str("message_id", msg.UUID).Msg("Dropping dashboard event")
		return
	}
	metrics.EventBusMessages.WithLabelValues(kind, "forwarded").Inc()
}

func (f *Forwarder) dispatch(kind string, payload []byte) error {
	switch kind {
	case KindScanResult:
		var res models.ScanResult
		if err := json.Unmarshal(payload, &res); err != nil {
			return err
		}
		f.sink.PublishScanResult(res)
	case KindScanAck:
		var ack ackEvent
		if err := json.Unmarshal(payload, &ack); err != nil {
			return err
		}
		f.sink.PublishScanAck(ack.Raised)
	case KindAttendance:
		var stats models.AttendanceStats
		if err := json.Unmarshal(payload, &stats); err != nil {
			return err
		}
		f.sink.PublishAttendance(stats)
	case KindSession:
		var status models.SessionStatus
		if err := json.Unmarshal(payload, &status); err != nil {
			return err
		}
		f.sink.PublishSession(status)
	default:
		return fmt.Errorf("unknown event kind %q", kind)
	}
	return nil
}

// String implements fmt.Stringer for supervisor logging.
func (f *Forwarder) String() string {
	return f.name
}

// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package websocket

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/turnstile/internal/logging"
	"github.com/tomtom215/turnstile/internal/models"
)

//nolint:gochecknoinits // init ensures consistent logging for tests
func init() {
	logging.Init(logging.Config{
		Level:  "info",
		Format: "console",
		Output: io.Discard,
	})
}

// setupHub creates and starts a hub stopped at test cleanup.
func setupHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = hub.RunWithContext(ctx) }()
	t.Cleanup(cancel)
	return hub, cancel
}

// createTestClient creates a client without a connection.
func createTestClient(hub *Hub, buffer int) *Client {
	return &Client{id: clientIDCounter.Add(1), hub: hub, send: make(chan Message, buffer)}
}

func receive(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case msg, ok := <-c.send:
		if !ok {
			t.Fatal("client channel closed")
		}
		return msg
	case <-time.After(time.Second):
		t.Fatal("no message received")
	}
	return Message{}
}

func waitForCount(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if hub.GetClientCount() == want {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("client count = %d, want %d", hub.GetClientCount(), want)
}

func TestHub_BroadcastTypes(t *testing.T) {
	hub, _ := setupHub(t)
	c := createTestClient(hub, 16)
	if !hub.Register(c) {
		t.Fatal("register failed")
	}
	waitForCount(t, hub, 1)

	hub.PublishScanAck(true)
	hub.PublishScanResult(models.ScanResult{RegistrationID: "REG1", Outcome: models.OutcomeCheckedIn})
	hub.PublishAttendance(models.AttendanceStats{Total: 3, CheckedIn: 1, Pending: 2})
	hub.BroadcastToast(models.Toast{Level: models.LevelSuccess, Title: "Check-in Successful"})
	hub.BroadcastNotification(models.Notification{ID: "n1"}, 4)
	hub.PublishSession(models.SessionStatus{Open: true})

	wantTypes := []string{
		MessageTypeScanAck,
		MessageTypeScanResult,
		MessageTypeAttendance,
		MessageTypeToast,
		MessageTypeNotification,
		MessageTypeSession,
	}
	for _, want := range wantTypes {
		msg := receive(t, c)
		if msg.Type != want {
			t.Fatalf("type = %q, want %q", msg.Type, want)
		}
		switch want {
		case MessageTypeScanAck:
			if d, ok := msg.Data.(ScanAckData); !ok || !d.Raised {
				t.Errorf("scan_ack data = %#v", msg.Data)
			}
		case MessageTypeToast:
			if d, ok := msg.Data.(models.Toast); !ok || d.Timestamp.IsZero() {
				t.Errorf("toast data = %#v", msg.Data)
			}
		case MessageTypeNotification:
			if d, ok := msg.Data.(NotificationData); !ok || d.Unread != 4 {
				t.Errorf("notification data = %#v", msg.Data)
			}
		}
	}
}

func TestHub_DropsSlowClient(t *testing.T) {
	hub, _ := setupHub(t)
	slow := createTestClient(hub, 1)
	fast := createTestClient(hub, 16)
	hub.Register(slow)
	hub.Register(fast)
	waitForCount(t, hub, 2)

	hub.PublishScanAck(true)
	hub.PublishScanAck(false)

	receive(t, fast)
	receive(t, fast)
	waitForCount(t, hub, 1)

	// The slow client got one message, then its channel was closed.
	<-slow.send
	if _, ok := <-slow.send; ok {
		t.Error("slow client channel should be closed")
	}
}

func TestHub_Unregister(t *testing.T) {
	hub, _ := setupHub(t)
	c := createTestClient(hub, 4)
	hub.Register(c)
	waitForCount(t, hub, 1)

	hub.Unregister(c)
	waitForCount(t, hub, 0)
	if _, ok := <-c.send; ok {
		t.Error("send channel should be closed on unregister")
	}
}

func TestHub_ShutdownClosesClients(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- hub.RunWithContext(ctx) }()

	c := createTestClient(hub, 4)
	hub.Register(c)
	waitForCount(t, hub, 1)

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}

	if _, ok := <-c.send; ok {
		t.Error("client should be closed at shutdown")
	}
	if hub.Register(createTestClient(hub, 1)) {
		t.Error("register after shutdown must fail")
	}
	hub.Unregister(c) // must not block
}

func TestHub_BroadcastQueueFull(t *testing.T) {
	hub := NewHub() // not running
	for i := 0; i < cap(hub.broadcast)+10; i++ {
		hub.PublishScanAck(true)
	}
	if len(hub.broadcast) != cap(hub.broadcast) {
		t.Errorf("queue = %d", len(hub.broadcast))
	}
}

func TestMarshalMessage(t *testing.T) {
	data, err := MarshalMessage(Message{Type: MessageTypeScanAck, Data: ScanAckData{Raised: true}})
	if err != nil {
		t.Fatal(err)
	}
	var back struct {
		Type string `json:"type"`
		Data struct {
			Raised bool `json:"raised"`
		} `json:"data"`
	}
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back.Type != MessageTypeScanAck || !back.Data.Raised {
		t.Errorf("decoded = %+v", back)
	}
}

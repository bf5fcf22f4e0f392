// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/turnstile/internal/models"
)

// setupHubServer serves the hub over a real websocket endpoint.
func setupHubServer(t *testing.T, hub *Hub, greeting ...Message) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upgrader := websocket.Upgrader{}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		NewClient(hub, conn, greeting...).Start()
	}))
	t.Cleanup(srv.Close)
	return srv
}

// dialWebSocket establishes a WebSocket connection to the test server
func dialWebSocket(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		t.Fatalf("Failed to dial websocket: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

type wireMessage struct {
	Type string                 `json:"type"`
	Data map[string]interface{} `json:"data"`
}

func readWire(t *testing.T, conn *websocket.Conn) wireMessage {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg wireMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

func TestClient_GreetingThenBroadcasts(t *testing.T) {
	hub, _ := setupHub(t)
	srv := setupHubServer(t, hub, Message{Type: MessageTypeSession, Data: models.SessionStatus{Open: true, ID: "s1"}})
	conn := dialWebSocket(t, srv)

	greet := readWire(t, conn)
	if greet.Type != MessageTypeSession || greet.Data["id"] != "s1" {
		t.Errorf("greeting = %+v", greet)
	}

	waitForCount(t, hub, 1)
	hub.PublishScanResult(models.ScanResult{RegistrationID: "REG1", Outcome: models.OutcomeCheckedIn})

	msg := readWire(t, conn)
	if msg.Type != MessageTypeScanResult || msg.Data["registration_id"] != "REG1" || msg.Data["outcome"] != "checked_in" {
		t.Errorf("message = %+v", msg)
	}
}

func TestClient_PingPong(t *testing.T) {
	hub, _ := setupHub(t)
	conn := dialWebSocket(t, setupHubServer(t, hub))

	if err := conn.WriteJSON(Message{Type: MessageTypePing}); err != nil {
		t.Fatal(err)
	}
	if msg := readWire(t, conn); msg.Type != MessageTypePong {
		t.Errorf("type = %q, want pong", msg.Type)
	}
}

func TestClient_DisconnectUnregisters(t *testing.T) {
	hub, _ := setupHub(t)
	conn := dialWebSocket(t, setupHubServer(t, hub))
	waitForCount(t, hub, 1)

	_ = conn.Close()
	waitForCount(t, hub, 0)
}

func TestClient_HubStoppedClosesConnection(t *testing.T) {
	hub, cancel := setupHub(t)
	cancel()
	time.Sleep(20 * time.Millisecond)

	conn := dialWebSocket(t, setupHubServer(t, hub))
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("connection should be closed when the hub is stopped")
	}
}

// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

/*
socket.go - Portal Notification WebSocket Client

Receives pushed notifications from the portal. Frames are JSON envelopes:

	{"event": "notification:new", "data": {...notification...}}

The client reconnects forever, starting at the configured delay and
doubling up to the cap, and resets the delay after every successful
connection.
*/

package notify

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/turnstile/internal/config"
	"github.com/tomtom215/turnstile/internal/logging"
	"github.com/tomtom215/turnstile/internal/metrics"
	"github.com/tomtom215/turnstile/internal/models"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	writeWait  = 5 * time.Second
)

// Socket is the portal notification socket client.
type Socket struct {
	url      string
	token    string
	delay    time.Duration
	maxDelay time.Duration
	store    *Store

	dialer websocket.Dialer

	connMu sync.Mutex
	conn   *websocket.Conn

	connected atomic.Bool
	attempts  atomic.Int64

	stopOnce sync.Once
	stopChan chan struct{}
}

// NewSocket creates a socket client feeding store.
func NewSocket(cfg *config.NotificationsConfig, token string, store *Store) *Socket {
	delay, maxDelay := cfg.ReconnectDelay, cfg.ReconnectDelayMax
	if delay <= 0 {
		delay = 800 * time.Millisecond
	}
	if maxDelay < delay {
		maxDelay = delay
	}
	return &Socket{
		url:      cfg.SocketURL,
		token:    token,
		delay:    delay,
		maxDelay: maxDelay,
		store:    store,
		dialer: websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		},
		stopChan: make(chan struct{}),
	}
}

// Run connects and reads until ctx is cancelled or Close is called.
// Without a token the socket never connects and the store is cleared.
func (s *Socket) Run(ctx context.Context) error {
	if s.token == "" {
		s.store.Clear()
		logging.Ctx(ctx).Warn().Msg("No token configured, notification socket disabled")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stopChan:
			return nil
		}
	}

	delay := s.delay
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stopChan:
			return nil
		default:
		}

		s.attempts.Add(1)
		conn, err := s.connect(ctx)
		if err != nil {
			logging.Ctx(ctx).Debug().Err(err).Dur("delay", delay).Msg("Notification socket connect failed")
		} else {
			delay = s.delay
			s.serve(ctx, conn)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stopChan:
			return nil
		case <-time.After(delay):
		}
		metrics.NotificationSocketReconnects.Inc()

		delay *= 2
		if delay > s.maxDelay {
			delay = s.maxDelay
		}
	}
}

func (s *Socket) connect(ctx context.Context) (*websocket.Conn, error) {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+s.token)

	conn, resp, err := s.dialer.DialContext(ctx, s.url, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("websocket dial failed (status %d): %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("websocket dial failed: %w", err)
	}
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	s.connMu.Lock()
	s.conn = conn
	s.connMu.Unlock()
	s.connected.Store(true)
	metrics.NotificationSocketConnected.Set(1)

	logging.Ctx(ctx).Info().Str("url", s.url).Msg("Notification socket connected")

	// Pick up anything pushed while disconnected.
	if err := s.store.Refresh(ctx); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Notification refresh after connect failed")
	}
	return conn, nil
}

// serve reads until the connection fails.
func (s *Socket) serve(ctx context.Context, conn *websocket.Conn) {
	done := make(chan struct{})
	defer func() {
		close(done)
		s.closeConnection()
	}()

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Unblock ReadMessage on shutdown.
	go func() {
		select {
		case <-ctx.Done():
		case <-s.stopChan:
		case <-done:
			return
		}
		s.closeConnection()
	}()

	go s.pingLoop(conn, done)

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logging.Ctx(ctx).Warn().Err(err).Msg("Notification socket read error")
			}
			return
		}
		s.handleMessage(ctx, message)
	}
}

func (s *Socket) handleMessage(ctx context.Context, data []byte) {
	var env models.SocketEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		logging.Ctx(ctx).Debug().Err(err).Msg("Failed to parse socket message")
		return
	}

	metrics.NotificationsReceived.WithLabelValues(env.Event).Inc()

	switch env.Event {
	case models.NotificationEventNew:
		if env.Data.CreatedAt.IsZero() {
			env.Data.CreatedAt = time.Now()
		}
		s.store.Add(env.Data)
	default:
		logging.Ctx(ctx).Debug().Str("event", env.Event).Msg("Unknown socket event")
	}
}

// pingLoop keeps the connection alive until done is closed.
func (s *Socket) pingLoop(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			s.connMu.Lock()
			err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			s.connMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}

// closeConnection safely closes the WebSocket connection
func (s *Socket) closeConnection() {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	if s.conn == nil {
		return
	}
	_ = s.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	_ = s.conn.Close()
	s.conn = nil
	s.connected.Store(false)
	metrics.NotificationSocketConnected.Set(0)
}

// Close stops the client. Run returns shortly after.
func (s *Socket) Close() error {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.closeConnection()
	return nil
}

// Connected reports whether the socket is currently connected.
func (s *Socket) Connected() bool {
	return s.connected.Load()
}

// Attempts returns the number of connection attempts made.
func (s *Socket) Attempts() int64 {
	return s.attempts.Load()
}

// String implements fmt.Stringer for supervisor logging.
func (s *Socket) String() string {
	return "notification-socket"
}

// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package scan

import (
	"context"
	"errors"
	"image"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/turnstile/internal/logging"
	"github.com/tomtom215/turnstile/internal/models"
)

func init() {
	logging.SetLogger(logging.NewTestLogger(io.Discard))
}

// fakeClock is a manually advanced clock for the gate.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// fakeClient records check-in calls.
type fakeClient struct {
	mu    sync.Mutex
	calls []string

	// err is returned by every call when set.
	err error

	// block makes calls wait for ctx cancellation.
	block bool

	// delay makes calls take this long unless ctx ends first.
	delay time.Duration

	// completed lists calls that finished without ctx ending.
	completed []string
}

func (c *fakeClient) CheckIn(ctx context.Context, regID string) (*models.Registration, error) {
	c.mu.Lock()
	c.calls = append(c.calls, regID)
	block, delay, err := c.block, c.delay, c.err
	c.mu.Unlock()

	if block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	c.mu.Lock()
	c.completed = append(c.completed, regID)
	c.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return &models.Registration{ID: regID, User: models.User{Name: "Participant " + regID}, CheckIn: true}, nil
}

func (c *fakeClient) Completed() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.completed...)
}

// waitCompleted waits until n calls have completed.
func (c *fakeClient) waitCompleted(t *testing.T, n int) []string {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for {
		done := c.Completed()
		if len(done) >= n {
			return done
		}
		if time.Now().After(deadline) {
			t.Fatalf("completed check-ins = %v, want %d", done, n)
		}
		time.Sleep(time.Millisecond)
	}
}

func (c *fakeClient) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

type toast struct {
	level, title, message string
}

// fakeNotifier records notifications.
type fakeNotifier struct {
	mu     sync.Mutex
	toasts []toast
}

func (n *fakeNotifier) Notify(level, title, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.toasts = append(n.toasts, toast{level, title, message})
}

func (n *fakeNotifier) Toasts() []toast {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]toast(nil), n.toasts...)
}

// fakeRefresher counts refreshes.
type fakeRefresher struct {
	mu    sync.Mutex
	count int
}

func (r *fakeRefresher) Refresh(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.count++
	return nil
}

func (r *fakeRefresher) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// fakePublisher forwards results to a channel.
type fakePublisher struct {
	results chan models.ScanResult

	mu   sync.Mutex
	acks []bool
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{results: make(chan models.ScanResult, 64)}
}

func (p *fakePublisher) PublishScanResult(r models.ScanResult) { p.results <- r }

func (p *fakePublisher) PublishScanAck(raised bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.acks = append(p.acks, raised)
}

func (p *fakePublisher) Acks() []bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]bool(nil), p.acks...)
}

func (p *fakePublisher) next(t *testing.T) models.ScanResult {
	t.Helper()
	select {
	case r := <-p.results:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for scan result")
		return models.ScanResult{}
	}
}

// userError mimics a backend error carrying a server message.
type userError struct{ msg string }

func (e *userError) Error() string       { return "backend: " + e.msg }
func (e *userError) UserMessage() string { return e.msg }

var errBackendDown = errors.New("connection refused")

// fakeSource serves a fixed sequence of frames, then repeats the last one.
type fakeSource struct {
	mu      sync.Mutex
	frames  []image.Image
	idx     int
	openErr error
	opened  bool
	closed  bool
}

func (s *fakeSource) Open(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.openErr != nil {
		return s.openErr
	}
	s.opened = true
	return nil
}

func (s *fakeSource) Frame(context.Context) (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.frames) == 0 {
		return nil, nil
	}
	f := s.frames[s.idx]
	if s.idx < len(s.frames)-1 {
		s.idx++
	}
	return f, nil
}

func (s *fakeSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *fakeSource) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// fakeDecoder returns text for any frame at least 8 pixels wide.
type fakeDecoder struct {
	text string
}

func (d *fakeDecoder) Decode(img image.Image) (string, bool, error) {
	if img.Bounds().Dx() < 8 {
		return "", false, nil
	}
	return d.text, true, nil
}

func newCoordinator(t *testing.T, clock *fakeClock, cooldown time.Duration, client CheckInClient) (*Coordinator, *fakeNotifier, *fakeRefresher, *fakePublisher) {
	t.Helper()
	n := &fakeNotifier{}
	r := &fakeRefresher{}
	p := newFakePublisher()
	gate := NewGate(cooldown, clock.Now)
	req := NewRequester(client, time.Second, n, r)
	c := NewCoordinator(context.Background(), gate, req, n, p)
	c.now = clock.Now
	t.Cleanup(c.Close)
	return c, n, r, p
}

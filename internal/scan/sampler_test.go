// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package scan

import (
	"context"
	"errors"
	"image"
	"sync"
	"testing"
	"time"
)

type errSource struct{ fakeSource }

func (s *errSource) Frame(context.Context) (image.Image, error) {
	return nil, errors.New("device busy")
}

func TestSampler_Tick(t *testing.T) {
	t.Parallel()

	var got []string
	handle := func(_ context.Context, raw string) { got = append(got, raw) }

	src := &fakeSource{frames: []image.Image{
		nil,
		image.NewGray(image.Rect(0, 0, 0, 0)),
		image.NewGray(image.Rect(0, 0, 4, 4)), // decoder finds nothing
		image.NewGray(image.Rect(0, 0, 64, 64)),
	}}
	s := NewSampler(src, &fakeDecoder{text: `{"regId":"REG1"}`}, handle, time.Millisecond, 0, nil)

	want := []bool{false, false, false, true, true}
	for i, w := range want {
		if forwarded := s.Tick(context.Background()); forwarded != w {
			t.Errorf("tick %d forwarded = %v, want %v", i, forwarded, w)
		}
	}
	if len(got) != 2 {
		t.Errorf("handler calls = %d, want 2", len(got))
	}
}

func TestSampler_SourceErrorIsSkipped(t *testing.T) {
	t.Parallel()

	called := false
	s := NewSampler(&errSource{}, &fakeDecoder{text: "x"}, func(context.Context, string) { called = true }, time.Millisecond, 0, nil)

	if s.Tick(context.Background()) {
		t.Error("tick with a failing source must not forward")
	}
	if called {
		t.Error("handler must not run")
	}
}

func TestSampler_AckRaisedAndLowered(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	var mu sync.Mutex
	var acks []bool
	ack := func(raised bool) {
		mu.Lock()
		defer mu.Unlock()
		acks = append(acks, raised)
	}

	frame := image.NewGray(image.Rect(0, 0, 64, 64))
	src := &fakeSource{frames: []image.Image{frame, frame, nil}}
	s := NewSampler(src, &fakeDecoder{text: "x"}, func(context.Context, string) {}, time.Millisecond, 450*time.Millisecond, ack)
	s.now = clock.Now

	s.Tick(context.Background()) // decode: raise
	clock.Advance(100 * time.Millisecond)
	s.Tick(context.Background()) // decode again: stays raised, window extended
	clock.Advance(449 * time.Millisecond)
	s.Tick(context.Background()) // still within window of the second decode
	clock.Advance(time.Millisecond)
	s.Tick(context.Background()) // window elapsed: lower

	mu.Lock()
	defer mu.Unlock()
	if len(acks) != 2 || !acks[0] || acks[1] {
		t.Errorf("acks = %v, want [true false]", acks)
	}
}

func TestSampler_RunStopsOnCancel(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	count := 0
	handle := func(context.Context, string) {
		mu.Lock()
		count++
		mu.Unlock()
	}

	frame := image.NewGray(image.Rect(0, 0, 64, 64))
	s := NewSampler(&fakeSource{frames: []image.Image{frame}}, &fakeDecoder{text: "x"}, handle, time.Millisecond, 0, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}

	mu.Lock()
	defer mu.Unlock()
	if count == 0 {
		t.Error("expected at least one forwarded payload")
	}
}

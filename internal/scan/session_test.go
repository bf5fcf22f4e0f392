// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package scan

import (
	"context"
	"errors"
	"image"
	"testing"
	"time"

	"github.com/tomtom215/turnstile/internal/models"
)

func testOptions() Options {
	return Options{
		EventID:        "evt-1",
		Cooldown:       1500 * time.Millisecond,
		FrameInterval:  time.Millisecond,
		AckDuration:    10 * time.Millisecond,
		CheckInTimeout: time.Second,
	}
}

func TestOpen_CameraUnavailable(t *testing.T) {
	t.Parallel()

	client := &fakeClient{}
	src := &fakeSource{openErr: errors.New("permission denied")}

	s, err := Open(context.Background(), testOptions(), Deps{Source: src, Decoder: &fakeDecoder{}, Client: client})
	if !errors.Is(err, ErrCameraUnavailable) {
		t.Fatalf("err = %v, want ErrCameraUnavailable", err)
	}
	if s != nil {
		t.Error("no session may be returned when the camera is unavailable")
	}
	if len(client.Calls()) != 0 {
		t.Error("no request may be issued")
	}
}

func TestSession_CameraPipeline(t *testing.T) {
	t.Parallel()

	client := &fakeClient{}
	pub := newFakePublisher()
	frame := image.NewGray(image.Rect(0, 0, 64, 64))
	src := &fakeSource{frames: []image.Image{frame}}

	s, err := Open(context.Background(), testOptions(), Deps{
		Source:    src,
		Decoder:   &fakeDecoder{text: `{"regId":"REG1","name":"Ada"}`},
		Client:    client,
		Publisher: pub,
	})
	if err != nil {
		t.Fatal(err)
	}

	res := pub.next(t)
	if res.RegistrationID != "REG1" || res.Outcome != models.OutcomeCheckedIn || res.Source != models.ScanSourceCamera {
		t.Errorf("result = %+v", res)
	}

	// Keep sampling the same badge for a while: still one request.
	time.Sleep(30 * time.Millisecond)
	s.Close()

	if n := len(client.Calls()); n != 1 {
		t.Errorf("backend calls = %d, want 1", n)
	}
	if !src.Closed() {
		t.Error("camera must be released on close")
	}
	st := s.Status()
	if st.Open || st.Admitted != 1 || st.Duplicates == 0 || st.CheckedIn != 1 {
		t.Errorf("status = %+v", st)
	}
	select {
	case <-s.Done():
	default:
		t.Error("Done must be closed after Close")
	}
}

func TestSession_SingleShotClosesAfterSuccess(t *testing.T) {
	t.Parallel()

	opts := testOptions()
	opts.SingleShot = true

	s, err := Open(context.Background(), opts, Deps{Client: &fakeClient{}})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := s.Submit(context.Background(), `{"regId":"REG1"}`, models.ScanSourceAPI); err != nil {
		t.Fatal(err)
	}

	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("single-shot session did not close")
	}

	if _, err := s.Submit(context.Background(), `{"regId":"REG2"}`, models.ScanSourceAPI); !errors.Is(err, ErrSessionClosed) {
		t.Errorf("err = %v, want ErrSessionClosed", err)
	}
}

func TestSession_SingleShotKeepsOtherCheckInsRunning(t *testing.T) {
	t.Parallel()

	opts := testOptions()
	opts.SingleShot = true
	client := &fakeClient{delay: 100 * time.Millisecond}
	s, err := Open(context.Background(), opts, Deps{Client: client})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if _, err := s.Submit(context.Background(), `{"regId":"A"}`, models.ScanSourceManual); err != nil {
		t.Fatal(err)
	}
	time.Sleep(30 * time.Millisecond)
	if _, err := s.Submit(context.Background(), `{"regId":"B"}`, models.ScanSourceManual); err != nil {
		t.Fatal(err)
	}

	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("single-shot session did not close")
	}

	done := client.waitCompleted(t, 2)
	if done[0] != "A" || done[1] != "B" {
		t.Errorf("completed = %v, want [A B]", done)
	}
}

func TestSession_SingleShotStaysOpenOnFailure(t *testing.T) {
	t.Parallel()

	opts := testOptions()
	opts.SingleShot = true
	pub := newFakePublisher()

	s, err := Open(context.Background(), opts, Deps{Client: &fakeClient{err: errBackendDown}, Publisher: pub})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if _, err := s.Submit(context.Background(), `{"regId":"REG1"}`, models.ScanSourceAPI); err != nil {
		t.Fatal(err)
	}
	pub.next(t)

	select {
	case <-s.Done():
		t.Fatal("session must stay open after a failed check-in")
	default:
	}
}

func TestManager_Lifecycle(t *testing.T) {
	t.Parallel()

	m := NewManager(testOptions(), Deps{Client: &fakeClient{}}, nil)

	if _, err := m.Submit(context.Background(), `{"regId":"REG1"}`, models.ScanSourceAPI); !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("submit without session: %v", err)
	}

	s, err := m.Open(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Open(context.Background()); !errors.Is(err, ErrSessionOpen) {
		t.Errorf("second open: %v", err)
	}
	if !m.Status().Open || m.Status().ID != s.ID() {
		t.Errorf("status = %+v", m.Status())
	}

	m.Close()
	if m.Current() != nil || m.Status().Open {
		t.Error("session still reported after close")
	}

	// A new session starts with an empty gate.
	s2, err := m.Open(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer m.Close()
	if s2.Gate().Len() != 0 {
		t.Error("new session must have a fresh gate")
	}
}

func TestManager_Authorize(t *testing.T) {
	t.Parallel()

	denied := errors.New("forbidden")
	m := NewManager(testOptions(), Deps{Client: &fakeClient{}}, func() error { return denied })

	if _, err := m.Open(context.Background()); !errors.Is(err, denied) {
		t.Errorf("err = %v, want %v", err, denied)
	}
}

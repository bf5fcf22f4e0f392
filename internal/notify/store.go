// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/turnstile/internal/logging"
	"github.com/tomtom215/turnstile/internal/metrics"
	"github.com/tomtom215/turnstile/internal/models"
)

// API is the subset of the portal client the store needs.
type API interface {
	ListNotifications(ctx context.Context) ([]models.Notification, error)
	UnreadCount(ctx context.Context) (int, error)
	MarkNotificationRead(ctx context.Context, id string) error
	MarkAllNotificationsRead(ctx context.Context) error
	DeleteNotification(ctx context.Context, id string) error
}

// Store is the organizer's notification inbox: newest first, with the
// portal's unread counter. Local state changes only after the portal
// accepted the corresponding call.
type Store struct {
	api API

	mu     sync.RWMutex
	items  []models.Notification
	unread int

	onNew func(n models.Notification, unread int)
}

// NewStore creates an empty store.
func NewStore(api API) *Store {
	return &Store{api: api}
}

// OnNew registers a callback run after Add. It must not block.
func (s *Store) OnNew(fn func(n models.Notification, unread int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onNew = fn
}

// Refresh reloads the list and the unread count concurrently. On error the
// previous state is kept.
func (s *Store) Refresh(ctx context.Context) error {
	var (
		list   []models.Notification
		unread int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		list, err = s.api.ListNotifications(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		unread, err = s.api.UnreadCount(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		logging.Ctx(ctx).Debug().Err(err).Msg("Notification refresh failed")
		return fmt.Errorf("refresh notifications: %w", err)
	}

	if list == nil {
		list = []models.Notification{}
	}

	s.mu.Lock()
	s.items = list
	s.unread = unread
	s.mu.Unlock()

	metrics.NotificationsUnread.Set(float64(unread))
	return nil
}

// Add prepends a pushed notification and counts it as unread.
func (s *Store) Add(n models.Notification) {
	s.mu.Lock()
	s.items = append([]models.Notification{n}, s.items...)
	s.unread++
	unread := s.unread
	onNew := s.onNew
	s.mu.Unlock()

	metrics.NotificationsUnread.Set(float64(unread))
	if onNew != nil {
		onNew(n, unread)
	}
}

// MarkOneAsRead marks a notification read on the portal, then locally.
// The unread counter never drops below zero.
func (s *Store) MarkOneAsRead(ctx context.Context, id string) error {
	if err := s.api.MarkNotificationRead(ctx, id); err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Read = true
		}
	}
	if s.unread > 0 {
		s.unread--
	}
	unread := s.unread
	s.mu.Unlock()

	metrics.NotificationsUnread.Set(float64(unread))
	return nil
}

// MarkAllAsRead marks everything read and zeroes the counter.
func (s *Store) MarkAllAsRead(ctx context.Context) error {
	if err := s.api.MarkAllNotificationsRead(ctx); err != nil {
		return fmt.Errorf("mark all notifications read: %w", err)
	}

	s.mu.Lock()
	for i := range s.items {
		s.items[i].Read = true
	}
	s.unread = 0
	s.mu.Unlock()

	metrics.NotificationsUnread.Set(0)
	return nil
}

// DeleteOne removes a notification. The unread counter is left to the next
// refresh, as the portal owns it.
func (s *Store) DeleteOne(ctx context.Context, id string) error {
	if err := s.api.DeleteNotification(ctx, id); err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}

	s.mu.Lock()
	kept := s.items[:0]
	for _, n := range s.items {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	s.items = kept
	s.mu.Unlock()
	return nil
}

// Clear drops all local state, used when no token is available.
func (s *Store) Clear() {
	s.mu.Lock()
	s.items = nil
	s.unread = 0
	s.mu.Unlock()
	metrics.NotificationsUnread.Set(0)
}

// List returns a copy of the notifications, newest first.
func (s *Store) List() []models.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Notification, len(s.items))
	copy(out, s.items)
	return out
}

// Unread returns the unread counter.
func (s *Store) Unread() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unread
}

// Grouped buckets notifications by calendar day in now's location.
func (s *Store) Grouped(now time.Time) models.NotificationGroups {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g := models.NotificationGroups{
		Today:     []models.Notification{},
		Yesterday: []models.Notification{},
		Earlier:   []models.Notification{},
		Unread:    s.unread,
	}
	yesterday := now.AddDate(0, 0, -1)
	for _, n := range s.items {
		created := n.CreatedAt.In(now.Location())
		switch {
		case sameDay(created, now):
			g.Today = append(g.Today, n)
		case sameDay(created, yesterday):
			g.Yesterday = append(g.Yesterday, n)
		default:
			g.Earlier = append(g.Earlier, n)
		}
	}
	return g
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

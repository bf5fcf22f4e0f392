// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package attendance

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/turnstile/internal/logging"
	"github.com/tomtom215/turnstile/internal/metrics"
	"github.com/tomtom215/turnstile/internal/models"
	"github.com/tomtom215/turnstile/internal/scan"
)

// ErrUnknownRegistration is returned for an identifier not on the roster.
var ErrUnknownRegistration = errors.New("registration is not on the roster")

// API is the subset of the portal client the roster needs.
type API interface {
	scan.CheckInClient
	ListRegistrations(ctx context.Context, eventID string) ([]models.Registration, error)
	GetEvent(ctx context.Context, eventID string) (*models.Event, error)
}

// Publisher receives roster changes for dashboards.
type Publisher interface {
	PublishAttendance(stats models.AttendanceStats)
}

// Ensure Roster can drive post check-in refreshes
var _ scan.Refresher = (*Roster)(nil)

// Roster is the cached participant list of one event.
type Roster struct {
	eventID   string
	api       API
	requester *scan.Requester
	publisher Publisher

	mu       sync.RWMutex
	event    *models.Event
	regs     []models.Registration
	byID     map[string]int
	loadedAt time.Time
}

// NewRoster creates a roster for eventID. Manual check-ins go through a
// requester bounded by checkInTimeout that reports to notifier and refreshes
// this roster on success. notifier and publisher may be nil.
func NewRoster(eventID string, api API, checkInTimeout time.Duration, notifier scan.Notifier, publisher Publisher) *Roster {
	r := &Roster{
		eventID:   eventID,
		api:       api,
		publisher: publisher,
		byID:      make(map[string]int),
	}
	r.requester = scan.NewRequester(api, checkInTimeout, notifier, r)
	return r
}

// EventID returns the event this roster tracks.
func (r *Roster) EventID() string { return r.eventID }

// Load fetches the event and its registrations together.
func (r *Roster) Load(ctx context.Context) error {
	var (
		event *models.Event
		regs  []models.Registration
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		event, err = r.api.GetEvent(gctx, r.eventID)
		return err
	})
	g.Go(func() error {
		var err error
		regs, err = r.api.ListRegistrations(gctx, r.eventID)
		return err
	})
	if err := g.Wait(); err != nil {
		metrics.RosterRefreshes.WithLabelValues("error").Inc()
		return fmt.Errorf("load roster for event %s: %w", r.eventID, err)
	}

	r.mu.Lock()
	r.event = event
	r.mu.Unlock()

	r.replace(regs)
	logging.Ctx(ctx).Info().
		Str("event_id", r.eventID).
		Str("title", event.Title).
		Int("registrations", len(regs)).
		Msg("Roster loaded")
	return nil
}

// Refresh reloads the registrations. It is the check-in refresh callback.
func (r *Roster) Refresh(ctx context.Context) error {
	regs, err := r.api.ListRegistrations(ctx, r.eventID)
	if err != nil {
		metrics.RosterRefreshes.WithLabelValues("error").Inc()
		return fmt.Errorf("refresh roster for event %s: %w", r.eventID, err)
	}
	r.replace(regs)
	return nil
}

func (r *Roster) replace(regs []models.Registration) {
	sort.SliceStable(regs, func(i, j int) bool {
		return strings.ToLower(regs[i].User.Name) < strings.ToLower(regs[j].User.Name)
	})

	byID := make(map[string]int, len(regs))
	for i := range regs {
		byID[regs[i].ID] = i
	}

	r.mu.Lock()
	r.regs = regs
	r.byID = byID
	r.loadedAt = time.Now()
	stats := r.statsLocked()
	r.mu.Unlock()

	metrics.RosterRefreshes.WithLabelValues("success").Inc()
	metrics.SetRoster(stats.CheckedIn, stats.Pending)
	if r.publisher != nil {
		r.publisher.PublishAttendance(stats)
	}
}

// Event returns the loaded event, or nil before Load.
func (r *Roster) Event() *models.Event {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.event == nil {
		return nil
	}
	ev := *r.event
	return &ev
}

// All returns a copy of the registrations ordered by participant name.
func (r *Roster) All() []models.Registration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Registration, len(r.regs))
	copy(out, r.regs)
	return out
}

// Search returns registrations whose participant name or email contains q,
// ignoring case and surrounding space. An empty query matches nothing.
func (r *Roster) Search(q string) []models.Registration {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return []models.Registration{}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.Registration{}
	for i := range r.regs {
		if r.regs[i].Matches(q) {
			out = append(out, r.regs[i])
		}
	}
	return out
}

// Get returns one registration.
func (r *Roster) Get(regID string) (models.Registration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.byID[regID]
	if !ok {
		return models.Registration{}, false
	}
	return r.regs[i], true
}

// Stats counts registrations by check-in state.
func (r *Roster) Stats() models.AttendanceStats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.statsLocked()
}

func (r *Roster) statsLocked() models.AttendanceStats {
	var s models.AttendanceStats
	s.Total = len(r.regs)
	for i := range r.regs {
		if r.regs[i].CheckIn {
			s.CheckedIn++
		}
	}
	s.Pending = s.Total - s.CheckedIn
	return s
}

// LoadedAt returns the time of the last successful load or refresh.
func (r *Roster) LoadedAt() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loadedAt
}

// ManualCheckIn checks a participant in by identifier, as picked by the
// organizer from search results. It bypasses the scan de-duplication gate
// and waits for the outcome. The success or failure notification and the
// refresh happen as for a scanned badge.
func (r *Roster) ManualCheckIn(ctx context.Context, regID string) (models.ScanResult, error) {
	reg, ok := r.Get(regID)
	if !ok {
		// The participant may have registered since the last refresh.
		if err := r.Refresh(ctx); err == nil {
			reg, ok = r.Get(regID)
		}
	}
	if !ok {
		return models.ScanResult{
			RegistrationID: regID,
			Outcome:        models.OutcomeFailed,
			Source:         models.ScanSourceManual,
			Message:        "Participant is not registered for this event.",
			Timestamp:      time.Now(),
		}, ErrUnknownRegistration
	}

	ev := models.ScanEvent{
		RegistrationID: reg.ID,
		DisplayName:    reg.User.Name,
		Source:         models.ScanSourceManual,
		ScannedAt:      time.Now(),
	}

	var res scan.Result
	select {
	case res = <-r.requester.CheckIn(ctx, ev, scan.PathManual):
	case <-ctx.Done():
		return models.ScanResult{RegistrationID: regID, Outcome: models.OutcomePending, Source: models.ScanSourceManual, Timestamp: time.Now()}, ctx.Err()
	}

	r.requester.Settle(ctx, res)
	return res.ScanResult(), res.Err
}

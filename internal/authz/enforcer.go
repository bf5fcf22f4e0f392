// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package authz

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

// ErrForbidden is returned by Authorize when the role lacks the permission.
var ErrForbidden = errors.New("role is not permitted to perform this action")

// Objects guarded by the station.
const (
	ObjectSession       = "station/session"
	ObjectCheckIn       = "station/checkin"
	ObjectAttendance    = "station/attendance"
	ObjectNotifications = "station/notifications"
)

// Actions.
const (
	ActionRead  = "read"
	ActionWrite = "write"
)

// Portal roles.
const (
	RoleAdmin       = "admin"
	RoleOrganizer   = "organizer"
	RoleParticipant = "participant"
)

const stationModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch(r.obj, p.obj) && (r.act == p.act || p.act == "*")
`

// Organizers run stations; admins inherit everything organizers can do.
// Participants only see their own notifications.
const stationPolicy = `
p, organizer, station/*, *
p, participant, station/notifications, read
g, admin, organizer
`

// Enforcer answers role permission questions for the station.
type Enforcer struct {
	enforcer *casbin.SyncedEnforcer
}

// NewEnforcer creates an enforcer with the built-in station policy.
func NewEnforcer() (*Enforcer, error) {
	m, err := model.NewModelFromString(stationModel)
	if err != nil {
		return nil, fmt.Errorf("failed to load casbin model: %w", err)
	}

	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}
	if err := loadPolicy(enforcer, stationPolicy); err != nil {
		return nil, err
	}

	return &Enforcer{enforcer: enforcer}, nil
}

// loadPolicy parses and loads policy CSV lines.
func loadPolicy(enforcer *casbin.SyncedEnforcer, policy string) error {
	var policies, groupings int
	for _, line := range strings.Split(policy, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		switch {
		case parts[0] == "p" && len(parts) == 4:
			if _, err := enforcer.AddPolicy(parts[1], parts[2], parts[3]); err != nil {
				return fmt.Errorf("failed to add policy %v: %w", parts[1:], err)
			}
			policies++
		case parts[0] == "g" && len(parts) == 3:
			if _, err := enforcer.AddGroupingPolicy(parts[1], parts[2]); err != nil {
				return fmt.Errorf("failed to add grouping policy %v: %w", parts[1:], err)
			}
			groupings++
		default:
			return fmt.Errorf("malformed policy line %q", line)
		}
	}
	UpdatePolicyStats(policies, groupings)
	return nil
}

// Enforce checks if role can perform action on object.
func (e *Enforcer) Enforce(role, object, action string) (bool, error) {
	start := time.Now()
	allowed, err := e.enforcer.Enforce(strings.ToLower(role), object, action)
	if err != nil {
		RecordAuthzError()
		return false, fmt.Errorf("enforcement failed: %w", err)
	}
	RecordAuthzDecision(strings.ToLower(role), object, action, allowed, time.Since(start))
	return allowed, nil
}

// Authorize is Enforce as an error: nil when allowed, ErrForbidden
// otherwise.
func (e *Enforcer) Authorize(role, object, action string) error {
	allowed, err := e.Enforce(role, object, action)
	if err != nil {
		return err
	}
	if !allowed {
		return fmt.Errorf("%w: %s may not %s %s", ErrForbidden, role, action, object)
	}
	return nil
}

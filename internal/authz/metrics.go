// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package authz

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthzDecisionsTotal counts authorization decisions by role, object, action, and outcome.
	AuthzDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "turnstile_authz_decisions_total",
			Help: "Total number of authorization decisions",
		},
		[]string{"role", "object", "action", "decision"},
	)

	// AuthzDecisionDuration tracks the latency of authorization decisions.
	AuthzDecisionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "turnstile_authz_decision_duration_seconds",
			Help: "Duration of authorization decisions in seconds",
			// Buckets optimized for authz checks (microseconds to milliseconds)
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
		},
	)

	// AuthzErrorsTotal counts enforcement errors.
	AuthzErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "turnstile_authz_errors_total",
			Help: "Total number of authorization enforcement errors",
		},
	)

	// AuthzPolicyRules is the number of loaded policy and grouping rules.
	AuthzPolicyRules = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "turnstile_authz_policy_rules",
			Help: "Number of loaded authorization rules",
		},
		[]string{"kind"}, // "policy", "grouping"
	)
)

// RecordAuthzDecision records one authorization decision.
func RecordAuthzDecision(role, object, action string, allowed bool, duration time.Duration) {
	decision := "denied"
	if allowed {
		decision = "allowed"
	}
	if role == "" {
		role = "none"
	}
	AuthzDecisionsTotal.WithLabelValues(role, object, action, decision).Inc()
	AuthzDecisionDuration.Observe(duration.Seconds())
}

// RecordAuthzError records an enforcement error.
func RecordAuthzError() {
	AuthzErrorsTotal.Inc()
}

// UpdatePolicyStats updates policy-related gauges.
func UpdatePolicyStats(policyRules, groupingRules int) {
	AuthzPolicyRules.WithLabelValues("policy").Set(float64(policyRules))
	AuthzPolicyRules.WithLabelValues("grouping").Set(float64(groupingRules))
}

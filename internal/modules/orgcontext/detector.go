// Package orgcontext turns organizational signals (recent incidents,
// funding freezes, seasonal load, upcoming audits) into adaptation
// modifiers the decision-package composer applies before optimizing.
// The engine itself stays a pure function; context only adjusts inputs.
package orgcontext

import (
	"github.com/rs/zerolog"

	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/domain"
)

// Organizational states, in detection priority order.
const (
	StatePostIncident = "post_incident"
	StateBudgetFrozen = "budget_frozen"
	StatePeakSeason   = "peak_season"
	StateAuditWindow  = "audit_window"
	StateNormal       = "normal"
)

// Detection windows in days.
const (
	incidentWindowDays = 30
	auditWindowDays    = 60
)

// Signals are the raw observations a caller supplies. All optional.
type Signals struct {
	LastIncidentDaysAgo *int `json:"last_incident_days_ago,omitempty"`
	BudgetFrozen        bool `json:"budget_frozen,omitempty"`
	PeakSeason          bool `json:"peak_season,omitempty"`
	NextAuditDaysAhead  *int `json:"next_audit_days_ahead,omitempty"`
}

// Adaptation is the composed set of input modifiers. Multipliers
// compose multiplicatively when several states apply at once.
type Adaptation struct {
	States             []string              `json:"states"`
	BudgetMultiplier   float64               `json:"budget_multiplier"`
	TimelineMultiplier float64               `json:"timeline_multiplier"`
	ToleranceOverride  *domain.RiskTolerance `json:"tolerance_override,omitempty"`
	Notes              []string              `json:"notes"`
}

// Detector maps signals to adaptations.
type Detector struct {
	log zerolog.Logger
}

// NewDetector creates a context detector.
func NewDetector(log zerolog.Logger) *Detector {
	return &Detector{log: log.With().Str("component", "orgcontext").Logger()}
}

// Detect evaluates every rule. Absent signals leave the neutral
// adaptation (multipliers 1.0, state "normal").
func (d *Detector) Detect(signals Signals) Adaptation {
	adapt := Adaptation{
		BudgetMultiplier:   1.0,
		TimelineMultiplier: 1.0,
	}

	if signals.LastIncidentDaysAgo != nil && *signals.LastIncidentDaysAgo >= 0 && *signals.LastIncidentDaysAgo < incidentWindowDays {
		adapt.States = append(adapt.States, StatePostIncident)
		adapt.BudgetMultiplier *= 1.2
		adapt.TimelineMultiplier *= 0.8
		aggressive := domain.ToleranceAggressive
		adapt.ToleranceOverride = &aggressive
		adapt.Notes = append(adapt.Notes,
			"Recent incident: leadership appetite for spend is elevated and timelines are expected to compress.")
	}

	if signals.BudgetFrozen {
		adapt.States = append(adapt.States, StateBudgetFrozen)
		adapt.BudgetMultiplier *= 0.6
		conservative := domain.ToleranceConservative
		adapt.ToleranceOverride = &conservative
		adapt.Notes = append(adapt.Notes,
			"Budget freeze in effect: plan against reduced funding and favor low-cost strategies.")
	}

	if signals.PeakSeason {
		adapt.States = append(adapt.States, StatePeakSeason)
		adapt.TimelineMultiplier *= 1.25
		adapt.Notes = append(adapt.Notes,
			"Peak operating season: defer disruptive work; low-disruption strategies first.")
	}

	if signals.NextAuditDaysAhead != nil && *signals.NextAuditDaysAhead >= 0 && *signals.NextAuditDaysAhead < auditWindowDays {
		adapt.States = append(adapt.States, StateAuditWindow)
		adapt.TimelineMultiplier *= 0.9
		adapt.Notes = append(adapt.Notes,
			"Audit window approaching: regulatory and compliance mitigations take precedence.")
	}

	if len(adapt.States) == 0 {
		adapt.States = []string{StateNormal}
	}

	d.log.Debug().
		Strs("states", adapt.States).
		Float64("budget_multiplier", adapt.BudgetMultiplier).
		Float64("timeline_multiplier", adapt.TimelineMultiplier).
		Msg("Organizational context detected")

	return adapt
}

// Package domain holds the shared types of the decision engine: mitigation
// strategies, portfolios, the constraint model, and the error taxonomy.
//
// Everything here is a plain value type. Engine components receive immutable
// snapshots and never mutate catalog entries.
package domain

import (
	"fmt"
	"sort"
)

// Category is the fixed strategy taxonomy.
type Category string

const (
	CategoryProcess     Category = "process"
	CategoryTraining    Category = "training"
	CategoryMaintenance Category = "maintenance"
	CategoryTechnology  Category = "technology"
	CategoryPolicy      Category = "policy"
)

// Categories lists all valid categories in stable order.
var Categories = []Category{
	CategoryProcess,
	CategoryTraining,
	CategoryMaintenance,
	CategoryTechnology,
	CategoryPolicy,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Disruption is the ordinal operational-disruption level of a strategy.
type Disruption string

const (
	DisruptionNone   Disruption = "none"
	DisruptionLow    Disruption = "low"
	DisruptionMedium Disruption = "medium"
	DisruptionHigh   Disruption = "high"
)

// Rank maps the disruption level to its ordinal (none=0 .. high=3).
// Unknown levels rank as medium so bad data never reads as harmless.
func (d Disruption) Rank() int {
	switch d {
	case DisruptionNone:
		return 0
	case DisruptionLow:
		return 1
	case DisruptionMedium:
		return 2
	case DisruptionHigh:
		return 3
	default:
		return 2
	}
}

// Valid reports whether d is a known disruption level.
func (d Disruption) Valid() bool {
	switch d {
	case DisruptionNone, DisruptionLow, DisruptionMedium, DisruptionHigh:
		return true
	}
	return false
}

// RiskTolerance selects the optimizer's objective weighting.
type RiskTolerance string

const (
	ToleranceAggressive   RiskTolerance = "aggressive"
	ToleranceBalanced     RiskTolerance = "balanced"
	ToleranceConservative RiskTolerance = "conservative"
)

// Valid reports whether t is a known tolerance mode.
func (t RiskTolerance) Valid() bool {
	switch t {
	case ToleranceAggressive, ToleranceBalanced, ToleranceConservative:
		return true
	}
	return false
}

// Strategy is one immutable mitigation catalog entry.
type Strategy struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Category         Category   `json:"category"`
	RiskReductionPct float64    `json:"risk_reduction_pct"`
	CostEstimate     float64    `json:"cost_estimate"`
	CostMin          *float64   `json:"cost_min,omitempty"`
	CostMax          *float64   `json:"cost_max,omitempty"`
	TimeEstimateDays int        `json:"time_estimate_days"`
	TimeMinDays      *int       `json:"time_min_days,omitempty"`
	TimeMaxDays      *int       `json:"time_max_days,omitempty"`
	Applicability    []string   `json:"applicability,omitempty"`
	ApprovalLevel    string     `json:"approval_level,omitempty"`
	DisruptionLevel  Disruption `json:"disruption_level"`
}

// CostRange returns the strategy's cost bounds, substituting the standard
// +/-20% band around the estimate when no explicit range is recorded.
func (s Strategy) CostRange() (min, max float64) {
	min = s.CostEstimate * 0.8
	max = s.CostEstimate * 1.2
	if s.CostMin != nil {
		min = *s.CostMin
	}
	if s.CostMax != nil {
		max = *s.CostMax
	}
	return min, max
}

// TimeRange returns the strategy's duration bounds in days. Without an
// explicit range the window is [max(1, est-14), est+30].
func (s Strategy) TimeRange() (min, max int) {
	min = s.TimeEstimateDays - 14
	if min < 1 {
		min = 1
	}
	max = s.TimeEstimateDays + 30
	if s.TimeMinDays != nil {
		min = *s.TimeMinDays
	}
	if s.TimeMaxDays != nil {
		max = *s.TimeMaxDays
	}
	return min, max
}

// Validate checks the catalog invariants. Violations are data-quality
// errors: they originate in the stored catalog, not in the request.
func (s Strategy) Validate() error {
	if s.ID == "" {
		return &DataQualityError{StrategyID: s.ID, Reason: "missing id"}
	}
	if s.Name == "" {
		return &DataQualityError{StrategyID: s.ID, Reason: "missing name"}
	}
	if !s.Category.Valid() {
		return &DataQualityError{StrategyID: s.ID, Reason: fmt.Sprintf("unknown category %q", s.Category)}
	}
	if s.RiskReductionPct < 0 || s.RiskReductionPct > 100 {
		return &DataQualityError{StrategyID: s.ID, Reason: fmt.Sprintf("risk_reduction_pct %.2f outside [0,100]", s.RiskReductionPct)}
	}
	if s.CostEstimate < 0 {
		return &DataQualityError{StrategyID: s.ID, Reason: fmt.Sprintf("negative cost_estimate %.2f", s.CostEstimate)}
	}
	if s.TimeEstimateDays < 0 {
		return &DataQualityError{StrategyID: s.ID, Reason: fmt.Sprintf("negative time_estimate_days %d", s.TimeEstimateDays)}
	}
	if s.CostMin != nil && s.CostMax != nil && *s.CostMin > *s.CostMax {
		return &DataQualityError{StrategyID: s.ID, Reason: fmt.Sprintf("cost_min %.2f exceeds cost_max %.2f", *s.CostMin, *s.CostMax)}
	}
	if s.CostMin != nil && *s.CostMin > s.CostEstimate {
		return &DataQualityError{StrategyID: s.ID, Reason: "cost_min exceeds cost_estimate"}
	}
	if s.CostMax != nil && *s.CostMax < s.CostEstimate {
		return &DataQualityError{StrategyID: s.ID, Reason: "cost_max below cost_estimate"}
	}
	if s.TimeMinDays != nil && s.TimeMaxDays != nil && *s.TimeMinDays > *s.TimeMaxDays {
		return &DataQualityError{StrategyID: s.ID, Reason: "time_min_days exceeds time_max_days"}
	}
	if !s.DisruptionLevel.Valid() {
		return &DataQualityError{StrategyID: s.ID, Reason: fmt.Sprintf("unknown disruption_level %q", s.DisruptionLevel)}
	}
	return nil
}

// ValidateCatalog validates every entry and rejects duplicate identifiers.
func ValidateCatalog(catalog []Strategy) error {
	seen := make(map[string]struct{}, len(catalog))
	for _, s := range catalog {
		if err := s.Validate(); err != nil {
			return err
		}
		if _, dup := seen[s.ID]; dup {
			return &DataQualityError{StrategyID: s.ID, Reason: "duplicate strategy id"}
		}
		seen[s.ID] = struct{}{}
	}
	return nil
}

// SortStrategies orders a slice by id. Used wherever deterministic
// iteration order matters.
func SortStrategies(strategies []Strategy) {
	sort.Slice(strategies, func(i, j int) bool {
		return strategies[i].ID < strategies[j].ID
	})
}

// SharedTags returns the applicability tags a and b have in common.
func SharedTags(a, b Strategy) []string {
	set := make(map[string]struct{}, len(a.Applicability))
	for _, tag := range a.Applicability {
		set[tag] = struct{}{}
	}
	var shared []string
	for _, tag := range b.Applicability {
		if _, ok := set[tag]; ok {
			shared = append(shared, tag)
		}
	}
	sort.Strings(shared)
	return shared
}

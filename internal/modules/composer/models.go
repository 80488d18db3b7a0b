package composer

import (
	"time"

	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/domain"
	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/modules/orgcontext"
)

// Request carries one decision-package build.
type Request struct {
	Catalog           []domain.Strategy      `json:"catalog,omitempty"`
	BudgetLimit       float64                `json:"budget_limit"`
	TimelineLimitDays int                    `json:"timeline_limit_days,omitempty"`
	RiskScore         float64                `json:"risk_score"`
	Tolerance         domain.RiskTolerance   `json:"risk_tolerance,omitempty"`
	Extra             domain.ConstraintSet   `json:"constraints,omitempty"`
	Signals           *orgcontext.Signals    `json:"org_signals,omitempty"`
	Trials            int                    `json:"simulation_trials,omitempty"`
	Seed              *int64                 `json:"seed,omitempty"`
}

// Scenario is one candidate course of action inside a package.
type Scenario struct {
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	Portfolio       domain.Portfolio `json:"portfolio"`
	BudgetLimit     float64          `json:"budget_limit"`
	Confidence      float64          `json:"confidence"` // in [0,1]
	DisruptionLevel string           `json:"disruption_level"`
	RobustnessScore float64          `json:"robustness_score"`
	Recommended     bool             `json:"recommended"`
}

// RobustnessSummary is the recommended scenario's war-game verdict.
type RobustnessSummary struct {
	Score           float64 `json:"score"`
	Rating          string  `json:"rating"`
	Seed            int64   `json:"seed"`
	PartialSampling bool    `json:"partial_sampling,omitempty"`
}

// Brief is one stakeholder-facing summary of the recommendation.
type Brief struct {
	Role              string             `json:"role"`
	Subject           string             `json:"subject"`
	KeyPoints         []string           `json:"key_points"`
	RecommendedAction string             `json:"recommended_action"`
	Metrics           map[string]float64 `json:"metrics,omitempty"`
}

// NegotiationOption is one alternative framing for an infeasible ask.
type NegotiationOption struct {
	Name                 string  `json:"name"`
	Description          string  `json:"description"`
	AdjustedBudget       float64 `json:"adjusted_budget"`
	AdjustedTimelineDays int     `json:"adjusted_timeline_days,omitempty"`
	Rationale            string  `json:"rationale"`
}

// DecisionPackage is the complete board-ready artifact.
type DecisionPackage struct {
	ID                 string              `json:"id"`
	Title              string              `json:"title"`
	RiskScore          float64             `json:"risk_score"`
	RiskBand           domain.RiskBand     `json:"risk_band"`
	Budget             float64             `json:"budget"`
	DecisionDeadline   string              `json:"decision_deadline"`
	Scenarios          []Scenario          `json:"scenarios"`
	Recommended        string              `json:"recommended_scenario"`
	Robustness         RobustnessSummary   `json:"robustness"`
	Briefs             map[string]Brief    `json:"stakeholder_briefs"`
	ContextStates      []string            `json:"context_states,omitempty"`
	ContextNotes       []string            `json:"context_notes,omitempty"`
	NegotiationOptions []NegotiationOption `json:"negotiation_options,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
}

// PackageSummary is the list-view projection of a stored package.
type PackageSummary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	RiskScore float64   `json:"risk_score"`
	Budget    float64   `json:"budget"`
	CreatedAt time.Time `json:"created_at"`
}

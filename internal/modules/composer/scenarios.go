package composer

import (
	"context"
	"fmt"

	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/domain"
	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/modules/horizons"
	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/modules/optimizer"
)

// Canonical scenario names, in presentation order.
const (
	ScenarioDoNothing     = "Do Nothing"
	ScenarioQuickFix      = "Quick Fix"
	ScenarioBalanced      = "Balanced"
	ScenarioComprehensive = "Comprehensive"
	ScenarioConservative  = "Conservative"
	ScenarioAggressive    = "Aggressive"
)

// Ranking weights for the recommended-scenario score.
const (
	weightRiskReduction = 0.5
	weightCost          = 0.3
	weightRobustness    = 0.2

	// Budget scaling for the bracket scenarios.
	conservativeBudgetFactor = 0.6
	aggressiveBudgetFactor   = 1.3
)

// buildScenarios produces the six candidate courses of action from a
// single catalog snapshot. Robustness scores are filled in later by the
// war-game pass; every portfolio here comes from the optimizer.
func (s *Service) buildScenarios(ctx context.Context, req Request) ([]Scenario, error) {
	optimize := func(budget float64, timeline int, tol domain.RiskTolerance) (domain.Portfolio, error) {
		return s.engine.Optimize(optimizer.Request{
			Catalog:           req.Catalog,
			BudgetLimit:       budget,
			TimelineLimitDays: timeline,
			Tolerance:         tol,
			Extra:             req.Extra,
		})
	}

	quickFix, err := optimize(req.BudgetLimit, quickFixTimeline(req.TimelineLimitDays), req.Tolerance)
	if err != nil {
		return nil, err
	}
	balanced, err := optimize(req.BudgetLimit, req.TimelineLimitDays, req.Tolerance)
	if err != nil {
		return nil, err
	}
	plan, err := s.allocator.Allocate(ctx, req.Catalog, req.BudgetLimit, req.RiskScore, req.Tolerance)
	if err != nil {
		return nil, err
	}
	comprehensive := planPortfolio(plan, req.Catalog)
	conservative, err := optimize(req.BudgetLimit*conservativeBudgetFactor, req.TimelineLimitDays, domain.ToleranceConservative)
	if err != nil {
		return nil, err
	}
	aggressive, err := optimize(req.BudgetLimit*aggressiveBudgetFactor, req.TimelineLimitDays, domain.ToleranceAggressive)
	if err != nil {
		return nil, err
	}

	scenarios := []Scenario{
		{
			Name:        ScenarioDoNothing,
			Description: "Accept the current risk posture and allocate nothing. Baseline for comparing every other course of action.",
			Portfolio:   domain.NewPortfolio(nil, true),
			BudgetLimit: 0,
		},
		{
			Name:        ScenarioQuickFix,
			Description: "Deploy only strategies that land within 30 days. Fast risk relief, leaves slower structural fixes on the table.",
			Portfolio:   quickFix,
			BudgetLimit: req.BudgetLimit,
		},
		{
			Name:        ScenarioBalanced,
			Description: "The optimizer's best portfolio under the stated budget and timeline.",
			Portfolio:   balanced,
			BudgetLimit: req.BudgetLimit,
		},
		{
			Name:        ScenarioComprehensive,
			Description: "Full multi-horizon program: immediate, tactical, and strategic work funded in parallel.",
			Portfolio:   comprehensive,
			BudgetLimit: req.BudgetLimit,
		},
		{
			Name: ScenarioConservative,
			Description: fmt.Sprintf("Fallback plan at %.0f%% of the requested budget, tilted toward low-disruption strategies.",
				conservativeBudgetFactor*100),
			Portfolio:   conservative,
			BudgetLimit: req.BudgetLimit * conservativeBudgetFactor,
		},
		{
			Name: ScenarioAggressive,
			Description: fmt.Sprintf("Stretch plan assuming %.0f%% of the requested budget can be secured.",
				aggressiveBudgetFactor*100),
			Portfolio:   aggressive,
			BudgetLimit: req.BudgetLimit * aggressiveBudgetFactor,
		},
	}

	for i := range scenarios {
		scenarios[i].DisruptionLevel = portfolioDisruption(scenarios[i].Portfolio)
	}
	return scenarios, nil
}

// quickFixTimeline caps the quick-fix window at the immediate horizon,
// respecting a tighter caller ceiling when one exists.
func quickFixTimeline(requested int) int {
	if requested > 0 && requested < horizons.ImmediateMaxDays {
		return requested
	}
	return horizons.ImmediateMaxDays
}

// planPortfolio rebuilds the union portfolio from a horizon plan's
// bucket selections.
func planPortfolio(plan horizons.Plan, catalog []domain.Strategy) domain.Portfolio {
	byID := make(map[string]domain.Strategy, len(catalog))
	for _, s := range catalog {
		byID[s.ID] = s
	}
	var members []domain.Strategy
	for _, bucket := range []horizons.Bucket{plan.Immediate, plan.Tactical, plan.Strategic} {
		for _, id := range bucket.StrategyIDs {
			if s, ok := byID[id]; ok {
				members = append(members, s)
			}
		}
	}
	return domain.NewPortfolio(members, true)
}

// portfolioDisruption labels a portfolio by its most disruptive member.
func portfolioDisruption(p domain.Portfolio) string {
	if len(p.Strategies) == 0 {
		return domain.DisruptionBands[domain.DisruptionNone]
	}
	worst := domain.DisruptionNone
	for _, s := range p.Strategies {
		if s.DisruptionLevel.Rank() > worst.Rank() {
			worst = s.DisruptionLevel
		}
	}
	return domain.DisruptionBands[worst]
}

// rankScenarios marks exactly one scenario recommended: the argmax of
// the weighted blend of normalized risk reduction, inverse normalized
// cost, and robustness. Ties break on lower cost, then list order.
func rankScenarios(scenarios []Scenario) int {
	var maxRisk, maxCost float64
	for _, sc := range scenarios {
		if sc.Portfolio.TotalRiskReduction > maxRisk {
			maxRisk = sc.Portfolio.TotalRiskReduction
		}
		if sc.Portfolio.TotalCost > maxCost {
			maxCost = sc.Portfolio.TotalCost
		}
	}

	const epsilon = 1e-9
	best := 0
	bestScore := -1.0
	for i, sc := range scenarios {
		score := weightRobustness * sc.RobustnessScore / 100
		if maxRisk > 0 {
			score += weightRiskReduction * sc.Portfolio.TotalRiskReduction / maxRisk
		}
		if maxCost > 0 {
			score += weightCost * (1 - sc.Portfolio.TotalCost/maxCost)
		} else {
			score += weightCost
		}
		if score > bestScore+epsilon ||
			(score > bestScore-epsilon && sc.Portfolio.TotalCost < scenarios[best].Portfolio.TotalCost) {
			best = i
			bestScore = score
		}
	}

	for i := range scenarios {
		scenarios[i].Recommended = i == best
	}
	return best
}

// confidence blends robustness with basic feasibility into a [0,1]
// planning-confidence figure.
func confidence(sc Scenario) float64 {
	c := 0.3 + 0.5*sc.RobustnessScore/100
	if sc.Portfolio.Feasible && len(sc.Portfolio.Strategies) > 0 {
		c += 0.2
	}
	if c > 1 {
		c = 1
	}
	return c
}

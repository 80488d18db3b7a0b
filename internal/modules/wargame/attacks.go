package wargame

import (
	"math/rand"

	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/domain"
)

// AttackKind enumerates the shock library.
type AttackKind string

const (
	AttackBudgetCut           AttackKind = "budget_cut"
	AttackStrategyFailure     AttackKind = "strategy_failure"
	AttackTimelineCompression AttackKind = "timeline_compression"
	AttackRegulatoryShift     AttackKind = "regulatory_shift"
	AttackCombined            AttackKind = "combined"
)

// attack is one library entry. Randomized attacks draw their magnitude
// from [lo, hi) per trial; deterministic ones apply nominal once.
type attack struct {
	kind       AttackKind
	name       string
	detail     string
	severity   float64
	randomized bool
	nominal    float64
	lo, hi     float64
}

// library returns the fixed attack set in its canonical order. The
// order is part of the reproducibility contract: per-attack seeds
// derive from position.
func library() []attack {
	return []attack{
		{
			kind: AttackBudgetCut, name: "Mid-year budget cut",
			detail:   "Funding reduced mid-execution; committed spend must fit the reduced envelope.",
			severity: 0.9, randomized: true, nominal: 0.40, lo: 0.20, hi: 0.60,
		},
		{
			kind: AttackStrategyFailure, name: "Strategy delivers zero effect",
			detail:   "One funded strategy fails outright; its spend is sunk and its effect lost.",
			severity: 0.8, randomized: true, nominal: 0, lo: 0, hi: 1,
		},
		{
			kind: AttackTimelineCompression, name: "Timeline compression",
			detail:   "Leadership pulls the completion deadline forward.",
			severity: 0.7, randomized: true, nominal: 0.50, lo: 0.30, hi: 0.70,
		},
		{
			kind: AttackRegulatoryShift, name: "Regulatory gate hardens",
			detail:   "A previously advisory approval gate becomes a hard requirement.",
			severity: 0.6, randomized: false, nominal: 0,
		},
		{
			kind: AttackCombined, name: "Budget cut with strategy failure",
			detail:   "The funding cut lands while the highest-value strategy is failing.",
			severity: 1.0, randomized: true, nominal: 0.40, lo: 0.20, hi: 0.60,
		},
	}
}

// sample draws a trial magnitude.
func (a attack) sample(rng *rand.Rand) float64 {
	if a.hi <= a.lo {
		return a.nominal
	}
	return a.lo + rng.Float64()*(a.hi-a.lo)
}

// viable re-evaluates the perturbed portfolio against the constraint
// model. magnitude means: fraction of budget cut, fraction of timeline
// removed, or (for strategy failure) the uniform draw selecting which
// member fails.
func (a attack) viable(p domain.Portfolio, params Params, magnitude float64) bool {
	switch a.kind {
	case AttackBudgetCut:
		return constraintsHold(p, params, params.BudgetLimit*(1-magnitude), params.TimelineLimitDays)

	case AttackStrategyFailure:
		idx := failureIndex(p, magnitude, a.randomizedPick(magnitude))
		return survivesFailure(p, params, idx)

	case AttackTimelineCompression:
		baseline := params.TimelineLimitDays
		if baseline <= 0 {
			baseline = defaultTimelineBaseline
		}
		compressed := int(float64(baseline) * (1 - magnitude))
		return constraintsHold(p, params, params.BudgetLimit, compressed)

	case AttackRegulatoryShift:
		set := regulatorySet(params)
		return set.Hardened(domain.ScopeRegulatory).Evaluate(p).Satisfied

	case AttackCombined:
		// Budget cut at the sampled magnitude while the top strategy fails.
		if !constraintsHold(p, params, params.BudgetLimit*(1-magnitude), params.TimelineLimitDays) {
			return false
		}
		return survivesFailure(p, params, topStrategyIndex(p))
	}
	return false
}

// randomizedPick reports whether the magnitude should select a random
// member (trials) instead of the top one (nominal single application).
func (a attack) randomizedPick(magnitude float64) bool {
	return a.kind == AttackStrategyFailure && magnitude > 0
}

// constraintsHold re-evaluates the two ceilings (possibly perturbed)
// plus any stored hard rules against the unchanged portfolio.
func constraintsHold(p domain.Portfolio, params Params, budget float64, timelineDays int) bool {
	set := domain.BudgetTimelineSet(budget, float64(timelineDays))
	set = append(set, params.Extra...)
	return set.Evaluate(p).Satisfied
}

// survivesFailure checks the portfolio with member idx delivering zero
// effect: constraints must still hold (spend is sunk) and the remaining
// combined reduction must retain effectRetentionFloor of the original.
func survivesFailure(p domain.Portfolio, params Params, idx int) bool {
	if idx < 0 || idx >= len(p.Strategies) {
		return false
	}
	if !constraintsHold(p, params, params.BudgetLimit, params.TimelineLimitDays) {
		return false
	}
	original := p.TotalRiskReduction
	if original <= 0 {
		return false
	}
	remaining := make([]domain.Strategy, 0, len(p.Strategies)-1)
	remaining = append(remaining, p.Strategies[:idx]...)
	remaining = append(remaining, p.Strategies[idx+1:]...)
	retained := domain.CombinedRiskReduction(remaining) / original
	return retained >= effectRetentionFloor
}

// failureIndex picks which member fails: the uniform draw maps onto the
// member list for trials, the top strategy for the nominal case.
func failureIndex(p domain.Portfolio, magnitude float64, randomized bool) int {
	if len(p.Strategies) == 0 {
		return -1
	}
	if !randomized {
		return topStrategyIndex(p)
	}
	idx := int(magnitude * float64(len(p.Strategies)))
	if idx >= len(p.Strategies) {
		idx = len(p.Strategies) - 1
	}
	return idx
}

// topStrategyIndex is the highest-reduction member; members are sorted
// by id, so ties resolve to the smaller id.
func topStrategyIndex(p domain.Portfolio) int {
	best := -1
	bestReduction := -1.0
	for i, s := range p.Strategies {
		if s.RiskReductionPct > bestReduction {
			best = i
			bestReduction = s.RiskReductionPct
		}
	}
	return best
}

// regulatorySet returns the stored rules plus an implicit advisory
// approval gate when none is stored, so the shift attack always has a
// gate to harden.
func regulatorySet(params Params) domain.ConstraintSet {
	set := domain.BudgetTimelineSet(params.BudgetLimit, float64(params.TimelineLimitDays))
	set = append(set, params.Extra...)
	for _, c := range params.Extra {
		if c.Scope == domain.ScopeRegulatory {
			return set
		}
	}
	return append(set, domain.Constraint{
		Name: "implicit_approval_gate", Kind: domain.ConstraintSoft,
		Scope: domain.ScopeRegulatory, Target: 1, Penalty: 0,
	})
}

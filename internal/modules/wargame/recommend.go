package wargame

import (
	"fmt"
	"sort"

	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/domain"
)

// recommend targets the weakest attack: it proposes the unselected
// catalog strategy with the best cost-adjusted mitigation for that
// specific failure mode, plus a posture note when the score is poor.
func (e *Engine) recommend(results []AttackResult, portfolio domain.Portfolio, catalog []domain.Strategy) []string {
	if len(results) == 0 {
		return []string{}
	}

	weakest := results[0]
	for _, r := range results[1:] {
		if r.Viability < weakest.Viability {
			weakest = r
		}
	}

	var recs []string
	available := unselected(portfolio, catalog)

	switch AttackKind(weakest.Kind) {
	case AttackBudgetCut, AttackCombined:
		if pick, ok := bestBy(available, costEfficiency); ok {
			recs = append(recs, fmt.Sprintf(
				"Most exposed to %q. Adding %s (%.0f%% reduction at $%.0f) preserves coverage per dollar if funding is cut.",
				weakest.Name, pick.Name, pick.RiskReductionPct, pick.CostEstimate))
		}
	case AttackStrategyFailure:
		if pick, ok := bestBy(redundantFor(portfolio, available), costEfficiency); ok {
			recs = append(recs, fmt.Sprintf(
				"Most exposed to %q. %s overlaps the portfolio's strongest strategy and limits the damage if it fails.",
				weakest.Name, pick.Name))
		} else if pick, ok := bestBy(available, costEfficiency); ok {
			recs = append(recs, fmt.Sprintf(
				"Most exposed to %q. Adding %s gives the portfolio a fallback effect.",
				weakest.Name, pick.Name))
		}
	case AttackTimelineCompression:
		if pick, ok := bestBy(available, speedEfficiency); ok {
			recs = append(recs, fmt.Sprintf(
				"Most exposed to %q. %s completes in %d days and keeps reduction on the board under a compressed deadline.",
				weakest.Name, pick.Name, pick.TimeEstimateDays))
		}
	case AttackRegulatoryShift:
		if pick, ok := bestBy(lowApproval(available), costEfficiency); ok {
			recs = append(recs, fmt.Sprintf(
				"Most exposed to %q. %s needs no executive approval and survives a hardened gate.",
				weakest.Name, pick.Name))
		}
	}

	if weakest.Viability < 0.5 {
		recs = append(recs, fmt.Sprintf(
			"Viability under %q is %.0f%%; build a contingency plan for this shock before committing the portfolio.",
			weakest.Name, weakest.Viability*100))
	}
	if len(recs) == 0 {
		recs = append(recs, "Portfolio holds up across the attack library; no substitution is warranted.")
	}
	return recs
}

func unselected(portfolio domain.Portfolio, catalog []domain.Strategy) []domain.Strategy {
	var out []domain.Strategy
	for _, s := range catalog {
		if !portfolio.Contains(s.ID) {
			out = append(out, s)
		}
	}
	domain.SortStrategies(out)
	return out
}

// redundantFor keeps candidates sharing applicability tags with the
// portfolio's highest-value member.
func redundantFor(portfolio domain.Portfolio, candidates []domain.Strategy) []domain.Strategy {
	idx := topStrategyIndex(portfolio)
	if idx < 0 {
		return nil
	}
	top := portfolio.Strategies[idx]
	var out []domain.Strategy
	for _, s := range candidates {
		if len(domain.SharedTags(top, s)) > 0 {
			out = append(out, s)
		}
	}
	return out
}

func lowApproval(candidates []domain.Strategy) []domain.Strategy {
	var out []domain.Strategy
	for _, s := range candidates {
		switch s.ApprovalLevel {
		case "executive", "board", "regulatory":
		default:
			out = append(out, s)
		}
	}
	return out
}

func costEfficiency(s domain.Strategy) float64 {
	if s.CostEstimate <= 0 {
		return s.RiskReductionPct * 1e6
	}
	return s.RiskReductionPct / s.CostEstimate
}

func speedEfficiency(s domain.Strategy) float64 {
	days := s.TimeEstimateDays
	if days <= 0 {
		days = 1
	}
	return s.RiskReductionPct / float64(days)
}

// bestBy returns the highest-keyed candidate with deterministic
// tie-breaks: lower cost, then id.
func bestBy(candidates []domain.Strategy, key func(domain.Strategy) float64) (domain.Strategy, bool) {
	if len(candidates) == 0 {
		return domain.Strategy{}, false
	}
	sorted := make([]domain.Strategy, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		ki, kj := key(sorted[i]), key(sorted[j])
		if ki != kj {
			return ki > kj
		}
		if sorted[i].CostEstimate != sorted[j].CostEstimate {
			return sorted[i].CostEstimate < sorted[j].CostEstimate
		}
		return sorted[i].ID < sorted[j].ID
	})
	best := sorted[0]
	if best.RiskReductionPct <= 0 {
		return domain.Strategy{}, false
	}
	return best, true
}

package wargame

import (
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/domain"
)

// uncertaintySeedOffset separates the estimate-uncertainty stream from
// the attack streams derived off the same root seed.
const uncertaintySeedOffset = 7_000_003

// Uncertainty quantifies how portfolio cost and schedule spread when
// each member's point estimate is replaced by a draw from its recorded
// (or implied) range.
type Uncertainty struct {
	CostMean             float64 `json:"cost_mean"`
	CostP90              float64 `json:"cost_p90"`
	OverBudgetFraction   float64 `json:"over_budget_fraction"`
	TimelineMeanDays     float64 `json:"timeline_mean_days"`
	TimelineP90Days      float64 `json:"timeline_p90_days"`
	OverDeadlineFraction float64 `json:"over_deadline_fraction"`
	Trials               int     `json:"trials"`
}

// estimateUncertainty samples member costs and durations uniformly from
// their ranges. Portfolio cost sums the draws; the schedule is the
// critical path over the drawn durations. Over-budget and over-deadline
// fractions are reported against the request ceilings (zero ceiling
// means unconstrained, fraction stays 0).
func estimateUncertainty(portfolio domain.Portfolio, params Params, trials int, seed int64) *Uncertainty {
	if len(portfolio.Strategies) == 0 || trials <= 0 {
		return nil
	}

	rng := rand.New(rand.NewSource(seed + uncertaintySeedOffset))
	costs := make([]float64, trials)
	timelines := make([]float64, trials)
	overBudget, overDeadline := 0, 0

	for t := 0; t < trials; t++ {
		var cost float64
		var critical float64
		for _, s := range portfolio.Strategies {
			lo, hi := s.CostRange()
			cost += lo + rng.Float64()*(hi-lo)

			dLo, dHi := s.TimeRange()
			days := float64(dLo) + rng.Float64()*float64(dHi-dLo)
			if days > critical {
				critical = days
			}
		}
		costs[t] = cost
		timelines[t] = critical
		if params.BudgetLimit > 0 && cost > params.BudgetLimit {
			overBudget++
		}
		if params.TimelineLimitDays > 0 && critical > float64(params.TimelineLimitDays) {
			overDeadline++
		}
	}

	sort.Float64s(costs)
	sort.Float64s(timelines)

	return &Uncertainty{
		CostMean:             stat.Mean(costs, nil),
		CostP90:              stat.Quantile(0.9, stat.Empirical, costs, nil),
		OverBudgetFraction:   float64(overBudget) / float64(trials),
		TimelineMeanDays:     stat.Mean(timelines, nil),
		TimelineP90Days:      stat.Quantile(0.9, stat.Empirical, timelines, nil),
		OverDeadlineFraction: float64(overDeadline) / float64(trials),
		Trials:               trials,
	}
}

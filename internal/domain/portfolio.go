package domain

// Portfolio is a selected strategy subset with derived aggregates.
//
// TotalRiskReduction uses the residual-risk combination rule: overlapping
// mitigations compound multiplicatively on what risk remains, so the total
// can never stack past 100%. TotalTimelineDays is the critical path (the
// longest single strategy), not a sum, because strategies run concurrently.
type Portfolio struct {
	Strategies         []Strategy `json:"selected_strategies"`
	TotalCost          float64    `json:"total_cost"`
	TotalRiskReduction float64    `json:"total_risk_reduction"`
	TotalTimelineDays  int        `json:"total_timeline_days"`
	Feasible           bool       `json:"constraints_satisfied"`
}

// NewPortfolio builds a portfolio from a selection, computing all
// aggregates. The selection is copied and sorted by id so two portfolios
// over the same set compare equal regardless of input order.
func NewPortfolio(selected []Strategy, feasible bool) Portfolio {
	members := make([]Strategy, len(selected))
	copy(members, selected)
	SortStrategies(members)

	return Portfolio{
		Strategies:         members,
		TotalCost:          TotalCost(members),
		TotalRiskReduction: CombinedRiskReduction(members),
		TotalTimelineDays:  CriticalPathDays(members),
		Feasible:           feasible,
	}
}

// EmptyPortfolio is the canonical infeasible result: zero aggregates and
// Feasible=false, distinguishable from an error at every call site.
func EmptyPortfolio() Portfolio {
	return Portfolio{Strategies: []Strategy{}, Feasible: false}
}

// TotalCost sums cost estimates over the selection.
func TotalCost(selected []Strategy) float64 {
	var total float64
	for _, s := range selected {
		total += s.CostEstimate
	}
	return total
}

// CombinedRiskReduction applies the diminishing-returns rule:
// residual = prod(1 - r_i/100), total = 100 * (1 - residual).
// Monotone non-decreasing in the selection and bounded by [0, 100].
func CombinedRiskReduction(selected []Strategy) float64 {
	residual := 1.0
	for _, s := range selected {
		r := s.RiskReductionPct
		if r < 0 {
			r = 0
		}
		if r > 100 {
			r = 100
		}
		residual *= 1 - r/100
	}
	total := 100 * (1 - residual)
	if total < 0 {
		return 0
	}
	if total > 100 {
		return 100
	}
	return total
}

// CriticalPathDays is the longest single time estimate in the selection.
func CriticalPathDays(selected []Strategy) int {
	longest := 0
	for _, s := range selected {
		if s.TimeEstimateDays > longest {
			longest = s.TimeEstimateDays
		}
	}
	return longest
}

// IDs returns the member ids in their stored (sorted) order.
func (p Portfolio) IDs() []string {
	ids := make([]string, len(p.Strategies))
	for i, s := range p.Strategies {
		ids[i] = s.ID
	}
	return ids
}

// Contains reports whether a strategy id is in the portfolio.
func (p Portfolio) Contains(id string) bool {
	for _, s := range p.Strategies {
		if s.ID == id {
			return true
		}
	}
	return false
}

package optimizer

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/domain"
)

// paretoWorkers bounds the concurrent optimizer runs in one sweep.
const paretoWorkers = 8

// FrontierPoint is one non-dominated cost/risk/time trade-off.
type FrontierPoint struct {
	Cost          float64  `json:"cost"`
	RiskReduction float64  `json:"risk_reduction"`
	TimelineDays  int      `json:"timeline_days"`
	StrategyIDs   []string `json:"strategy_ids"`
}

// Frontier sweeps the budget ceiling over every distinct cumulative cost
// breakpoint of the catalog (capped at budgetLimit when positive),
// optimizes at each, and keeps the non-dominated results ordered by
// ascending cost. Sweep points run concurrently; aggregation waits for
// all of them, so the output is deterministic for identical inputs.
func (e *Engine) Frontier(ctx context.Context, req Request) ([]FrontierPoint, error) {
	if err := e.validate(req); err != nil {
		return nil, err
	}

	breakpoints := costBreakpoints(req.Catalog, req.BudgetLimit)
	if len(breakpoints) == 0 {
		return []FrontierPoint{}, nil
	}

	portfolios := make([]domain.Portfolio, len(breakpoints))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(paretoWorkers)
	for i, budget := range breakpoints {
		i, budget := i, budget
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			sub := req
			sub.BudgetLimit = budget
			p, err := e.Optimize(sub)
			if err != nil {
				return err
			}
			portfolios[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	points := dominanceFilter(portfolios)
	e.log.Debug().
		Int("breakpoints", len(breakpoints)).
		Int("frontier_points", len(points)).
		Msg("Pareto frontier generated")
	return points, nil
}

// costBreakpoints returns the distinct cumulative costs of the catalog
// sorted ascending: the budgets at which the optimizer's answer can
// actually change.
func costBreakpoints(catalog []domain.Strategy, budgetLimit float64) []float64 {
	costs := make([]float64, 0, len(catalog))
	for _, s := range catalog {
		costs = append(costs, s.CostEstimate)
	}
	sort.Float64s(costs)
	cumulative := make([]float64, len(costs))
	floats.CumSum(cumulative, costs)

	var out []float64
	seen := make(map[float64]struct{}, len(costs))
	for _, point := range cumulative {
		if budgetLimit > 0 && point > budgetLimit {
			point = budgetLimit
		}
		if _, dup := seen[point]; dup {
			continue
		}
		seen[point] = struct{}{}
		out = append(out, point)
	}
	sort.Float64s(out)
	return out
}

// dominanceFilter drops portfolios beaten on all of cost, risk
// reduction, and timeline by some other portfolio, plus exact
// duplicates, then orders by ascending cost.
func dominanceFilter(portfolios []domain.Portfolio) []FrontierPoint {
	var points []FrontierPoint
	for i, p := range portfolios {
		if len(p.Strategies) == 0 && !p.Feasible {
			continue
		}
		dominated := false
		for j, q := range portfolios {
			if i == j {
				continue
			}
			if dominates(q, p) {
				dominated = true
				break
			}
			// Exact duplicates survive once: earliest index wins.
			if j < i && equalPoint(q, p) {
				dominated = true
				break
			}
		}
		if dominated {
			continue
		}
		points = append(points, FrontierPoint{
			Cost:          p.TotalCost,
			RiskReduction: p.TotalRiskReduction,
			TimelineDays:  p.TotalTimelineDays,
			StrategyIDs:   p.IDs(),
		})
	}

	sort.Slice(points, func(i, j int) bool {
		if points[i].Cost != points[j].Cost {
			return points[i].Cost < points[j].Cost
		}
		return points[i].RiskReduction > points[j].RiskReduction
	})
	if points == nil {
		points = []FrontierPoint{}
	}
	return points
}

// dominates reports whether a is no worse than b on every objective and
// strictly better on at least one. Cost and timeline minimize, risk
// reduction maximizes.
func dominates(a, b domain.Portfolio) bool {
	if a.TotalCost > b.TotalCost {
		return false
	}
	if a.TotalRiskReduction < b.TotalRiskReduction {
		return false
	}
	if a.TotalTimelineDays > b.TotalTimelineDays {
		return false
	}
	return a.TotalCost < b.TotalCost ||
		a.TotalRiskReduction > b.TotalRiskReduction ||
		a.TotalTimelineDays < b.TotalTimelineDays
}

func equalPoint(a, b domain.Portfolio) bool {
	return a.TotalCost == b.TotalCost &&
		a.TotalRiskReduction == b.TotalRiskReduction &&
		a.TotalTimelineDays == b.TotalTimelineDays
}

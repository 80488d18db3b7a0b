// Package optimizer selects mitigation strategy portfolios under budget
// and timeline ceilings, and sweeps those ceilings to produce Pareto
// frontiers.
//
// The objective is combined risk reduction under the residual-risk rule,
// reweighted by the caller's risk tolerance. Selection is exact
// (exhaustive with cost pruning) for small catalogs and falls back to a
// deterministic greedy search with pairwise-swap improvement for large
// ones. Identical inputs always produce identical output: ties break on
// lower cost, then lexicographic id order.
package optimizer

import (
	"github.com/rs/zerolog"

	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/domain"
)

const (
	// exactSearchLimit is the largest catalog solved exhaustively.
	// 2^20 candidate subsets with cost pruning stays well under the
	// request timeout; beyond that the greedy path takes over.
	exactSearchLimit = 20

	// Disruption penalty per ordinal rank point, by tolerance mode.
	disruptionPenaltyBalanced     = 0.5
	disruptionPenaltyConservative = 1.5
)

// Engine runs portfolio selection. Stateless between calls.
type Engine struct {
	log zerolog.Logger
}

// NewEngine creates an optimizer engine.
func NewEngine(log zerolog.Logger) *Engine {
	return &Engine{log: log.With().Str("component", "optimizer").Logger()}
}

// Request carries one optimization call's inputs. Catalog and Extra are
// treated as immutable; TimelineLimitDays of zero means unconstrained.
type Request struct {
	Catalog           []domain.Strategy
	BudgetLimit       float64
	TimelineLimitDays int
	Tolerance         domain.RiskTolerance
	Extra             domain.ConstraintSet // stored hard/soft rules beyond the two ceilings
}

// Optimize selects the strategy subset maximizing the tolerance-weighted
// objective subject to total cost <= BudgetLimit and critical path <=
// TimelineLimitDays. An infeasible request returns the empty portfolio
// with Feasible=false, never an error.
func (e *Engine) Optimize(req Request) (domain.Portfolio, error) {
	if err := e.validate(req); err != nil {
		return domain.Portfolio{}, err
	}

	candidates := e.prune(req)
	if len(candidates) == 0 {
		e.log.Debug().
			Float64("budget_limit", req.BudgetLimit).
			Int("timeline_limit_days", req.TimelineLimitDays).
			Msg("No strategy fits the ceilings individually, returning infeasible")
		return domain.EmptyPortfolio(), nil
	}

	var selected []domain.Strategy
	if len(candidates) <= exactSearchLimit {
		selected = e.exactSearch(candidates, req)
	} else {
		selected = e.greedySearch(candidates, req)
	}

	if len(selected) == 0 {
		// Feasible non-empty subsets may still exist when every one of
		// them scores below the empty selection under a conservative
		// disruption penalty. That is a feasible "do nothing", not an
		// infeasible request.
		if e.anyFeasible(candidates, req) {
			return domain.NewPortfolio(nil, true), nil
		}
		return domain.EmptyPortfolio(), nil
	}

	portfolio := domain.NewPortfolio(selected, true)
	e.log.Debug().
		Int("catalog_size", len(req.Catalog)).
		Int("selected", len(portfolio.Strategies)).
		Float64("total_cost", portfolio.TotalCost).
		Float64("total_risk_reduction", portfolio.TotalRiskReduction).
		Int("total_timeline_days", portfolio.TotalTimelineDays).
		Str("tolerance", string(req.Tolerance)).
		Msg("Optimization complete")

	return portfolio, nil
}

func (e *Engine) validate(req Request) error {
	if len(req.Catalog) == 0 {
		return domain.Invalidf("catalog", "must not be empty")
	}
	if req.BudgetLimit < 0 {
		return domain.Invalidf("budget_limit", "must be non-negative, got %.2f", req.BudgetLimit)
	}
	if req.TimelineLimitDays < 0 {
		return domain.Invalidf("timeline_limit_days", "must be non-negative, got %d", req.TimelineLimitDays)
	}
	if !req.Tolerance.Valid() {
		return domain.Invalidf("risk_tolerance", "unknown value %q", req.Tolerance)
	}
	if err := domain.ValidateCatalog(req.Catalog); err != nil {
		return err
	}
	for _, c := range req.Extra {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// prune drops strategies that cannot appear in any feasible selection:
// individually over budget or over the timeline ceiling. The result is
// sorted by id so every later step iterates deterministically.
func (e *Engine) prune(req Request) []domain.Strategy {
	out := make([]domain.Strategy, 0, len(req.Catalog))
	for _, s := range req.Catalog {
		if s.CostEstimate > req.BudgetLimit {
			continue
		}
		if req.TimelineLimitDays > 0 && s.TimeEstimateDays > req.TimelineLimitDays {
			continue
		}
		out = append(out, s)
	}
	domain.SortStrategies(out)
	return out
}

// score is the objective: residual-combined risk reduction minus the
// tolerance-scaled disruption penalty minus soft-constraint penalties.
func (e *Engine) score(selected []domain.Strategy, req Request) float64 {
	value := domain.CombinedRiskReduction(selected)

	var perRank float64
	switch req.Tolerance {
	case domain.ToleranceAggressive:
		perRank = 0
	case domain.ToleranceConservative:
		perRank = disruptionPenaltyConservative
	default:
		perRank = disruptionPenaltyBalanced
	}
	for _, s := range selected {
		value -= perRank * float64(s.DisruptionLevel.Rank())
	}

	if len(req.Extra) > 0 {
		eval := req.Extra.Evaluate(snapshot(selected))
		value -= eval.Penalty
	}
	return value
}

// feasible checks the two ceilings plus any extra hard rules.
func (e *Engine) feasible(selected []domain.Strategy, req Request) bool {
	if domain.TotalCost(selected) > req.BudgetLimit {
		return false
	}
	if req.TimelineLimitDays > 0 && domain.CriticalPathDays(selected) > req.TimelineLimitDays {
		return false
	}
	if len(req.Extra) > 0 && !req.Extra.Evaluate(snapshot(selected)).Satisfied {
		return false
	}
	return true
}

func (e *Engine) anyFeasible(candidates []domain.Strategy, req Request) bool {
	for _, s := range candidates {
		if e.feasible([]domain.Strategy{s}, req) {
			return true
		}
	}
	return false
}

// snapshot builds a throwaway portfolio for constraint evaluation
// without the sort/copy cost of domain.NewPortfolio.
func snapshot(selected []domain.Strategy) domain.Portfolio {
	return domain.Portfolio{
		Strategies:        selected,
		TotalCost:         domain.TotalCost(selected),
		TotalTimelineDays: domain.CriticalPathDays(selected),
	}
}

package optimizer

import (
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/domain"
)

func testEngine() *Engine {
	return NewEngine(zerolog.Nop())
}

func strat(id string, risk, cost float64, days int, disruption domain.Disruption) domain.Strategy {
	return domain.Strategy{
		ID:               id,
		Name:             "Strategy " + id,
		Category:         domain.CategoryProcess,
		RiskReductionPct: risk,
		CostEstimate:     cost,
		TimeEstimateDays: days,
		DisruptionLevel:  disruption,
	}
}

func TestOptimize_FullCatalogWhenBudgetCoversEverything(t *testing.T) {
	catalog := []domain.Strategy{
		strat("a", 20, 50000, 20, domain.DisruptionLow),
		strat("b", 35, 100000, 60, domain.DisruptionMedium),
		strat("c", 15, 30000, 10, domain.DisruptionHigh),
	}

	p, err := testEngine().Optimize(Request{
		Catalog:     catalog,
		BudgetLimit: 1_000_000, // covers the sum of all costs
		Tolerance:   domain.ToleranceAggressive,
	})
	require.NoError(t, err)
	assert.True(t, p.Feasible)
	assert.Equal(t, []string{"a", "b", "c"}, p.IDs())
}

func TestOptimize_ZeroReductionStrategyIsCutByCostTieBreak(t *testing.T) {
	// A strategy contributing no reduction adds cost without moving the
	// score. The lower-cost tie-break drops it even when the budget would
	// cover the whole catalog under aggressive tolerance.
	catalog := []domain.Strategy{
		strat("a", 20, 50000, 20, domain.DisruptionLow),
		strat("z", 0, 10000, 5, domain.DisruptionLow),
	}

	p, err := testEngine().Optimize(Request{
		Catalog:     catalog,
		BudgetLimit: 1_000_000,
		Tolerance:   domain.ToleranceAggressive,
	})
	require.NoError(t, err)
	assert.True(t, p.Feasible)
	assert.Equal(t, []string{"a"}, p.IDs(), "dead weight never buys anything")
}

func TestOptimize_WorkedExample(t *testing.T) {
	// Two strategies, combined cost 150k > 120k budget: only the first fits
	// alongside nothing else worth more.
	catalog := []domain.Strategy{
		strat("s1", 20, 50000, 20, domain.DisruptionLow),
		strat("s2", 35, 100000, 60, domain.DisruptionLow),
	}

	p, err := testEngine().Optimize(Request{
		Catalog:           catalog,
		BudgetLimit:       120000,
		TimelineLimitDays: 365,
		Tolerance:         domain.ToleranceBalanced,
	})
	require.NoError(t, err)
	require.True(t, p.Feasible)
	// s2 alone (35 pts for 100k) beats s1 alone (20 pts for 50k); both
	// together exceed budget. The optimizer maximizes reduction, so s2 wins.
	assert.Equal(t, []string{"s2"}, p.IDs())
	assert.Equal(t, 100000.0, p.TotalCost)
	assert.InDelta(t, 35.0, p.TotalRiskReduction, 1e-9)
}

func TestOptimize_RespectsBothCeilings(t *testing.T) {
	catalog := []domain.Strategy{
		strat("a", 40, 80000, 200, domain.DisruptionLow),
		strat("b", 30, 40000, 25, domain.DisruptionLow),
		strat("c", 25, 60000, 90, domain.DisruptionLow),
		strat("d", 10, 10000, 10, domain.DisruptionLow),
	}

	p, err := testEngine().Optimize(Request{
		Catalog:           catalog,
		BudgetLimit:       100000,
		TimelineLimitDays: 100,
		Tolerance:         domain.ToleranceAggressive,
	})
	require.NoError(t, err)
	assert.LessOrEqual(t, p.TotalCost, 100000.0)
	assert.LessOrEqual(t, p.TotalTimelineDays, 100)
	assert.False(t, p.Contains("a"), "200-day strategy exceeds the timeline ceiling")
}

func TestOptimize_ZeroBudgetIsInfeasibleNotError(t *testing.T) {
	catalog := []domain.Strategy{strat("a", 20, 50000, 20, domain.DisruptionLow)}

	p, err := testEngine().Optimize(Request{
		Catalog:     catalog,
		BudgetLimit: 0,
		Tolerance:   domain.ToleranceBalanced,
	})
	require.NoError(t, err)
	assert.False(t, p.Feasible)
	assert.Empty(t, p.Strategies)
	assert.Zero(t, p.TotalCost)
	assert.Zero(t, p.TotalRiskReduction)
}

func TestOptimize_ValidationErrors(t *testing.T) {
	e := testEngine()

	_, err := e.Optimize(Request{Catalog: nil, BudgetLimit: 100, Tolerance: domain.ToleranceBalanced})
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err), "empty catalog is invalid input")

	catalog := []domain.Strategy{strat("a", 20, 500, 20, domain.DisruptionLow)}

	_, err = e.Optimize(Request{Catalog: catalog, BudgetLimit: -1, Tolerance: domain.ToleranceBalanced})
	assert.True(t, domain.IsValidation(err))

	_, err = e.Optimize(Request{Catalog: catalog, BudgetLimit: 100, Tolerance: "reckless"})
	assert.True(t, domain.IsValidation(err))
}

func TestOptimize_CatalogInconsistencyIsDataQuality(t *testing.T) {
	bad := strat("a", 20, 1000, 20, domain.DisruptionLow)
	lo, hi := 5000.0, 100.0
	bad.CostMin = &lo
	bad.CostMax = &hi

	_, err := testEngine().Optimize(Request{
		Catalog:     []domain.Strategy{bad},
		BudgetLimit: 10000,
		Tolerance:   domain.ToleranceBalanced,
	})
	require.Error(t, err)
	assert.True(t, domain.IsDataQuality(err))
	assert.False(t, domain.IsValidation(err))
}

func TestOptimize_ConservativeAvoidsDisruption(t *testing.T) {
	// Same reduction and cost; one is highly disruptive. Conservative
	// mode must prefer the quiet one, aggressive must not care.
	catalog := []domain.Strategy{
		strat("loud", 30, 50000, 30, domain.DisruptionHigh),
		strat("quiet", 28, 50000, 30, domain.DisruptionNone),
	}

	conservative, err := testEngine().Optimize(Request{
		Catalog: catalog, BudgetLimit: 50000, Tolerance: domain.ToleranceConservative,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"quiet"}, conservative.IDs())

	aggressive, err := testEngine().Optimize(Request{
		Catalog: catalog, BudgetLimit: 50000, Tolerance: domain.ToleranceAggressive,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"loud"}, aggressive.IDs())
}

func TestOptimize_TieBreaksPreferLowerCostThenID(t *testing.T) {
	// Identical reduction, identical everything except cost, then id.
	catalog := []domain.Strategy{
		strat("b", 30, 40000, 30, domain.DisruptionLow),
		strat("a", 30, 40000, 30, domain.DisruptionLow),
		strat("c", 30, 30000, 30, domain.DisruptionLow),
	}

	p, err := testEngine().Optimize(Request{
		Catalog: catalog, BudgetLimit: 45000, Tolerance: domain.ToleranceBalanced,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, p.IDs(), "cheapest equal-value option wins")

	// Remove the cheap one: the id tie-break decides between a and b.
	p2, err := testEngine().Optimize(Request{
		Catalog: catalog[:2], BudgetLimit: 45000, Tolerance: domain.ToleranceBalanced,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, p2.IDs())
}

func TestOptimize_DeterministicAcrossRuns(t *testing.T) {
	catalog := make([]domain.Strategy, 0, 12)
	for i := 0; i < 12; i++ {
		catalog = append(catalog, strat(
			fmt.Sprintf("s%02d", i),
			float64(5+i*3%40),
			float64(10000+i*7000),
			10+i*12,
			domain.DisruptionLow,
		))
	}
	req := Request{Catalog: catalog, BudgetLimit: 90000, TimelineLimitDays: 120, Tolerance: domain.ToleranceBalanced}

	first, err := testEngine().Optimize(req)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := testEngine().Optimize(req)
		require.NoError(t, err)
		assert.Equal(t, first.IDs(), again.IDs())
		assert.Equal(t, first.TotalCost, again.TotalCost)
	}
}

func TestOptimize_GreedyPathLargeCatalog(t *testing.T) {
	// Above exactSearchLimit to exercise greedy + 2-opt. Bounds must
	// still hold and the result must be stable.
	catalog := make([]domain.Strategy, 0, 40)
	for i := 0; i < 40; i++ {
		catalog = append(catalog, strat(
			fmt.Sprintf("s%02d", i),
			float64(3+(i*11)%45),
			float64(5000+(i*13%17)*9000),
			5+(i*17)%250,
			domain.DisruptionLow,
		))
	}
	req := Request{Catalog: catalog, BudgetLimit: 200000, TimelineLimitDays: 180, Tolerance: domain.ToleranceBalanced}

	first, err := testEngine().Optimize(req)
	require.NoError(t, err)
	require.True(t, first.Feasible)
	assert.LessOrEqual(t, first.TotalCost, 200000.0)
	assert.LessOrEqual(t, first.TotalTimelineDays, 180)
	assert.NotEmpty(t, first.Strategies)

	again, err := testEngine().Optimize(req)
	require.NoError(t, err)
	assert.Equal(t, first.IDs(), again.IDs())
}

func TestOptimize_SoftConstraintPenalty(t *testing.T) {
	catalog := []domain.Strategy{
		strat("a", 30, 100000, 30, domain.DisruptionLow),
		strat("b", 25, 20000, 30, domain.DisruptionLow),
	}

	// A soft budget target of 50k with a steep per-unit penalty makes
	// the expensive pick score negative against the cheap one.
	soft := domain.ConstraintSet{{
		Name: "spend_target", Kind: domain.ConstraintSoft, Scope: domain.ScopeBudget,
		Target: 50000, Penalty: 0.001,
	}}

	p, err := testEngine().Optimize(Request{
		Catalog: catalog, BudgetLimit: 100000, Tolerance: domain.ToleranceBalanced, Extra: soft,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, p.IDs())
}

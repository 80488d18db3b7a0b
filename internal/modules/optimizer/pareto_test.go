package optimizer

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/domain"
)

func frontierCatalog() []domain.Strategy {
	return []domain.Strategy{
		strat("a", 15, 20000, 15, domain.DisruptionLow),
		strat("b", 30, 60000, 45, domain.DisruptionLow),
		strat("c", 45, 120000, 120, domain.DisruptionMedium),
		strat("d", 10, 10000, 10, domain.DisruptionNone),
		strat("e", 25, 40000, 60, domain.DisruptionLow),
	}
}

func TestFrontier_NonDominatedAndSorted(t *testing.T) {
	points, err := testEngine().Frontier(context.Background(), Request{
		Catalog:     frontierCatalog(),
		BudgetLimit: 250000,
		Tolerance:   domain.ToleranceBalanced,
	})
	require.NoError(t, err)
	require.NotEmpty(t, points)

	for i := 1; i < len(points); i++ {
		assert.GreaterOrEqual(t, points[i].Cost, points[i-1].Cost, "frontier must be sorted by ascending cost")
	}

	for i := range points {
		for j := range points {
			if i == j {
				continue
			}
			dominated := points[j].Cost <= points[i].Cost &&
				points[j].RiskReduction >= points[i].RiskReduction &&
				points[j].TimelineDays <= points[i].TimelineDays &&
				(points[j].Cost < points[i].Cost ||
					points[j].RiskReduction > points[i].RiskReduction ||
					points[j].TimelineDays < points[i].TimelineDays)
			assert.False(t, dominated, "point %d is dominated by point %d", i, j)
		}
	}
}

func TestFrontier_Idempotent(t *testing.T) {
	req := Request{
		Catalog:     frontierCatalog(),
		BudgetLimit: 250000,
		Tolerance:   domain.ToleranceBalanced,
	}
	first, err := testEngine().Frontier(context.Background(), req)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		again, err := testEngine().Frontier(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, first, again, "re-invocation with identical inputs must reproduce the frontier")
	}
}

func TestFrontier_BudgetCapLimitsPoints(t *testing.T) {
	points, err := testEngine().Frontier(context.Background(), Request{
		Catalog:     frontierCatalog(),
		BudgetLimit: 50000,
		Tolerance:   domain.ToleranceBalanced,
	})
	require.NoError(t, err)
	for _, p := range points {
		assert.LessOrEqual(t, p.Cost, 50000.0)
	}
}

func TestFrontier_EmptyCatalogRejected(t *testing.T) {
	_, err := testEngine().Frontier(context.Background(), Request{
		Catalog:     nil,
		BudgetLimit: 100000,
		Tolerance:   domain.ToleranceBalanced,
	})
	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestFrontier_ManyBreakpoints(t *testing.T) {
	catalog := make([]domain.Strategy, 0, 15)
	for i := 0; i < 15; i++ {
		catalog = append(catalog, strat(
			fmt.Sprintf("s%02d", i),
			float64(4+(i*7)%40),
			float64((i+1)*12000),
			10+(i*23)%200,
			domain.DisruptionLow,
		))
	}
	points, err := testEngine().Frontier(context.Background(), Request{
		Catalog:     catalog,
		BudgetLimit: 0, // unbounded sweep over all breakpoints
		Tolerance:   domain.ToleranceAggressive,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, points)
	// With the full cumulative sum available, the top point carries
	// every strategy.
	top := points[len(points)-1]
	assert.Len(t, top.StrategyIDs, 15)
}

package composer

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/domain"
	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/modules/horizons"
	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/modules/optimizer"
	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/modules/orgcontext"
	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/modules/wargame"
)

func newService() *Service {
	log := zerolog.Nop()
	engine := optimizer.NewEngine(log)
	return NewService(
		engine,
		wargame.NewEngine(wargame.MinTrials, log),
		horizons.NewAllocator(engine, log),
		orgcontext.NewDetector(log),
		nil,
		5*time.Second,
		log,
	)
}

func testCatalog() []domain.Strategy {
	return []domain.Strategy{
		{ID: "s1", Name: "Patch cadence overhaul", Category: domain.CategoryTechnology,
			RiskReductionPct: 25, CostEstimate: 40000, TimeEstimateDays: 20,
			Applicability: []string{"it"}, DisruptionLevel: domain.DisruptionLow},
		{ID: "s2", Name: "Incident response training", Category: domain.CategoryTraining,
			RiskReductionPct: 15, CostEstimate: 25000, TimeEstimateDays: 45,
			Applicability: []string{"ops"}, DisruptionLevel: domain.DisruptionLow},
		{ID: "s3", Name: "Network segmentation", Category: domain.CategoryTechnology,
			RiskReductionPct: 30, CostEstimate: 90000, TimeEstimateDays: 120,
			Applicability: []string{"it", "ops"}, DisruptionLevel: domain.DisruptionMedium},
		{ID: "s4", Name: "Vendor risk program", Category: domain.CategoryProcess,
			RiskReductionPct: 20, CostEstimate: 60000, TimeEstimateDays: 240,
			Applicability: []string{"procurement"}, DisruptionLevel: domain.DisruptionLow},
	}
}

func seedPtr(v int64) *int64 { return &v }

func TestBuild_ExactlyOneRecommended(t *testing.T) {
	svc := newService()

	pkg, err := svc.Build(context.Background(), Request{
		Catalog:     testCatalog(),
		BudgetLimit: 150000,
		RiskScore:   65,
		Seed:        seedPtr(42),
	})
	require.NoError(t, err)

	require.Len(t, pkg.Scenarios, 6)
	recommended := 0
	for _, sc := range pkg.Scenarios {
		if sc.Recommended {
			recommended++
			assert.Equal(t, sc.Name, pkg.Recommended)
		}
	}
	assert.Equal(t, 1, recommended)
}

func TestBuild_ScenarioNamesAndOrder(t *testing.T) {
	svc := newService()

	pkg, err := svc.Build(context.Background(), Request{
		Catalog:     testCatalog(),
		BudgetLimit: 150000,
		RiskScore:   65,
		Seed:        seedPtr(42),
	})
	require.NoError(t, err)

	names := make([]string, len(pkg.Scenarios))
	for i, sc := range pkg.Scenarios {
		names[i] = sc.Name
	}
	assert.Equal(t, []string{
		ScenarioDoNothing, ScenarioQuickFix, ScenarioBalanced,
		ScenarioComprehensive, ScenarioConservative, ScenarioAggressive,
	}, names)
}

func TestBuild_DoNothingIsEmptyBaseline(t *testing.T) {
	svc := newService()

	pkg, err := svc.Build(context.Background(), Request{
		Catalog:     testCatalog(),
		BudgetLimit: 150000,
		RiskScore:   65,
		Seed:        seedPtr(42),
	})
	require.NoError(t, err)

	baseline := pkg.Scenarios[0]
	assert.Empty(t, baseline.Portfolio.Strategies)
	assert.Zero(t, baseline.Portfolio.TotalCost)
	assert.False(t, baseline.Recommended, "a funded plan must outrank doing nothing here")
}

func TestBuild_SeedReproducibility(t *testing.T) {
	svc := newService()
	req := Request{
		Catalog:     testCatalog(),
		BudgetLimit: 150000,
		RiskScore:   65,
		Seed:        seedPtr(99),
	}

	first, err := svc.Build(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.Build(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first.Recommended, second.Recommended)
	assert.Equal(t, first.Robustness.Score, second.Robustness.Score)
	for i := range first.Scenarios {
		assert.Equal(t, first.Scenarios[i].RobustnessScore, second.Scenarios[i].RobustnessScore, "scenario %d", i)
		assert.Equal(t, first.Scenarios[i].Portfolio.IDs(), second.Scenarios[i].Portfolio.IDs(), "scenario %d", i)
	}
}

func TestBuild_BriefsCoverEveryRole(t *testing.T) {
	svc := newService()

	pkg, err := svc.Build(context.Background(), Request{
		Catalog:     testCatalog(),
		BudgetLimit: 150000,
		RiskScore:   80,
		Seed:        seedPtr(42),
	})
	require.NoError(t, err)

	for _, role := range []string{RoleCEO, RoleCFO, RoleCOO, RoleCISO, RoleBoard} {
		brief, ok := pkg.Briefs[role]
		require.True(t, ok, "missing brief for %s", role)
		assert.Equal(t, role, brief.Role)
		assert.NotEmpty(t, brief.Subject)
		assert.NotEmpty(t, brief.KeyPoints)
		assert.NotEmpty(t, brief.RecommendedAction)
	}

	cfo := pkg.Briefs[RoleCFO]
	assert.Greater(t, cfo.Metrics["roi"], 0.0)
	assert.Greater(t, cfo.Metrics["payback_months"], 0.0)
}

func TestBuild_DeadlineTracksRiskBand(t *testing.T) {
	svc := newService()

	cases := []struct {
		riskScore float64
		deadline  string
	}{
		{90, "within 7 days"},
		{60, "within 30 days"},
		{30, "within 60 days"},
		{10, "within 90 days"},
	}
	for _, tc := range cases {
		pkg, err := svc.Build(context.Background(), Request{
			Catalog:     testCatalog(),
			BudgetLimit: 150000,
			RiskScore:   tc.riskScore,
			Seed:        seedPtr(42),
		})
		require.NoError(t, err)
		assert.Equal(t, tc.deadline, pkg.DecisionDeadline, "risk score %.0f", tc.riskScore)
	}
}

func TestBuild_ZeroBudgetYieldsNegotiationOptions(t *testing.T) {
	svc := newService()

	pkg, err := svc.Build(context.Background(), Request{
		Catalog:     testCatalog(),
		BudgetLimit: 0,
		RiskScore:   70,
		Seed:        seedPtr(42),
	})
	require.NoError(t, err)

	assert.Equal(t, ScenarioDoNothing, pkg.Recommended)
	require.Len(t, pkg.NegotiationOptions, 5)
	for _, opt := range pkg.NegotiationOptions {
		assert.NotEmpty(t, opt.Name)
		assert.NotEmpty(t, opt.Description)
		assert.NotEmpty(t, opt.Rationale)
	}
}

func TestBuild_ContextAdaptationAppliesToBudget(t *testing.T) {
	svc := newService()

	pkg, err := svc.Build(context.Background(), Request{
		Catalog:     testCatalog(),
		BudgetLimit: 100000,
		RiskScore:   65,
		Signals:     &orgcontext.Signals{BudgetFrozen: true},
		Seed:        seedPtr(42),
	})
	require.NoError(t, err)

	assert.InDelta(t, 60000, pkg.Budget, 1e-9)
	assert.Contains(t, pkg.ContextStates, orgcontext.StateBudgetFrozen)
	assert.NotEmpty(t, pkg.ContextNotes)
}

func TestBuild_ExpiredDeadlineFailsWholePackage(t *testing.T) {
	svc := newService()

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	_, err := svc.Build(ctx, Request{
		Catalog:     testCatalog(),
		BudgetLimit: 150000,
		RiskScore:   65,
		Seed:        seedPtr(42),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestBuild_Validation(t *testing.T) {
	svc := newService()

	_, err := svc.Build(context.Background(), Request{BudgetLimit: 1000, RiskScore: 50})
	assert.True(t, domain.IsValidation(err), "empty catalog: %v", err)

	_, err = svc.Build(context.Background(), Request{Catalog: testCatalog(), BudgetLimit: -5, RiskScore: 50})
	assert.True(t, domain.IsValidation(err), "negative budget: %v", err)

	_, err = svc.Build(context.Background(), Request{Catalog: testCatalog(), BudgetLimit: 1000, RiskScore: 120})
	assert.True(t, domain.IsValidation(err), "risk score out of range: %v", err)

	_, err = svc.Build(context.Background(), Request{
		Catalog: testCatalog(), BudgetLimit: 1000, RiskScore: 50, Tolerance: "reckless",
	})
	assert.True(t, domain.IsValidation(err), "bad tolerance: %v", err)
}

func TestConfidence_Bounds(t *testing.T) {
	empty := Scenario{Portfolio: domain.NewPortfolio(nil, true)}
	assert.InDelta(t, 0.3, confidence(empty), 1e-9)

	strong := Scenario{
		RobustnessScore: 100,
		Portfolio:       domain.NewPortfolio(testCatalog()[:1], true),
	}
	assert.InDelta(t, 1.0, confidence(strong), 1e-9)
}

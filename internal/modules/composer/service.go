// Package composer assembles board-ready decision packages: a set of
// candidate scenarios built from one catalog snapshot, war-gamed for
// robustness, ranked to a single recommendation, and rendered into
// per-stakeholder briefs. Built packages persist to the store.
package composer

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/domain"
	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/modules/horizons"
	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/modules/optimizer"
	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/modules/orgcontext"
	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/modules/wargame"
)

// wargameWorkers bounds concurrent scenario stress tests.
const wargameWorkers = 3

// scenarioSeedStride separates per-scenario seeds derived from one
// caller-supplied root seed.
const scenarioSeedStride = 7919

// Service builds decision packages on top of the engine components.
type Service struct {
	engine    *optimizer.Engine
	wargamer  *wargame.Engine
	allocator *horizons.Allocator
	detector  *orgcontext.Detector
	packages  *Repository
	simBudget time.Duration
	log       zerolog.Logger
}

// NewService wires the composer. packages may be nil when persistence
// is not wanted; simBudget caps each scenario's Monte Carlo pass.
func NewService(
	engine *optimizer.Engine,
	wargamer *wargame.Engine,
	allocator *horizons.Allocator,
	detector *orgcontext.Detector,
	packages *Repository,
	simBudget time.Duration,
	log zerolog.Logger,
) *Service {
	return &Service{
		engine:    engine,
		wargamer:  wargamer,
		allocator: allocator,
		detector:  detector,
		packages:  packages,
		simBudget: simBudget,
		log:       log.With().Str("component", "composer").Logger(),
	}
}

// Build assembles, ranks, and persists one decision package. A context
// deadline fails the whole build; packages are never half-rendered.
func (s *Service) Build(ctx context.Context, req Request) (DecisionPackage, error) {
	if err := s.validate(req); err != nil {
		return DecisionPackage{}, err
	}
	if req.Tolerance == "" {
		req.Tolerance = domain.ToleranceBalanced
	}

	var adaptation orgcontext.Adaptation
	if req.Signals != nil {
		adaptation = s.detector.Detect(*req.Signals)
		req.BudgetLimit *= adaptation.BudgetMultiplier
		if req.TimelineLimitDays > 0 {
			req.TimelineLimitDays = int(math.Round(float64(req.TimelineLimitDays) * adaptation.TimelineMultiplier))
		}
		if adaptation.ToleranceOverride != nil {
			req.Tolerance = *adaptation.ToleranceOverride
		}
	}

	scenarios, err := s.buildScenarios(ctx, req)
	if err != nil {
		return DecisionPackage{}, err
	}

	reports, err := s.stressTest(ctx, scenarios, req)
	if err != nil {
		return DecisionPackage{}, err
	}
	if ctx.Err() != nil {
		return DecisionPackage{}, fmt.Errorf("decision package build: %w", ctx.Err())
	}

	for i := range scenarios {
		scenarios[i].RobustnessScore = reports[i].RobustnessScore
		scenarios[i].Confidence = confidence(scenarios[i])
	}
	best := rankScenarios(scenarios)

	robustness := RobustnessSummary{
		Score:           reports[best].RobustnessScore,
		Rating:          reports[best].ResilienceRating,
		Seed:            reports[best].Seed,
		PartialSampling: reports[best].PartialSampling,
	}

	band := domain.BandFor(req.RiskScore)
	pkg := DecisionPackage{
		ID:               uuid.NewString(),
		Title:            fmt.Sprintf("Risk Mitigation Decision Package (%s exposure)", band.Label),
		RiskScore:        req.RiskScore,
		RiskBand:         band,
		Budget:           req.BudgetLimit,
		DecisionDeadline: decisionDeadline(band),
		Scenarios:        scenarios,
		Recommended:      scenarios[best].Name,
		Robustness:       robustness,
		Briefs:           buildBriefs(req.RiskScore, scenarios[best], robustness),
		ContextStates:    adaptation.States,
		ContextNotes:     adaptation.Notes,
		CreatedAt:        time.Now().UTC(),
	}
	if recommendedIsEmpty(scenarios[best]) {
		pkg.NegotiationOptions = negotiationOptions(req.BudgetLimit, req.TimelineLimitDays)
	}

	if s.packages != nil {
		if err := s.packages.Save(ctx, pkg); err != nil {
			return DecisionPackage{}, fmt.Errorf("persist decision package: %w", err)
		}
	}

	s.log.Info().
		Str("package_id", pkg.ID).
		Str("recommended", pkg.Recommended).
		Float64("robustness", robustness.Score).
		Msg("Decision package built")

	return pkg, nil
}

// stressTest war-games every scenario concurrently. Each run gets its
// own simulation deadline so a slow pass degrades to partial sampling
// instead of starving the others.
func (s *Service) stressTest(ctx context.Context, scenarios []Scenario, req Request) ([]wargame.Report, error) {
	reports := make([]wargame.Report, len(scenarios))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(wargameWorkers)
	for i := range scenarios {
		g.Go(func() error {
			var seed *int64
			if req.Seed != nil {
				derived := *req.Seed + int64(i)*scenarioSeedStride
				seed = &derived
			}
			simCtx, cancel := context.WithTimeout(gctx, s.simBudget)
			defer cancel()
			report, err := s.wargamer.Run(simCtx, scenarios[i].Portfolio, req.Catalog, wargame.Params{
				BudgetLimit:       scenarios[i].BudgetLimit,
				TimelineLimitDays: req.TimelineLimitDays,
				Tolerance:         req.Tolerance,
				Extra:             req.Extra,
				Trials:            req.Trials,
				Seed:              seed,
			})
			if err != nil {
				return err
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func (s *Service) validate(req Request) error {
	if len(req.Catalog) == 0 {
		return domain.Invalidf("catalog", "must not be empty")
	}
	if err := domain.ValidateCatalog(req.Catalog); err != nil {
		return err
	}
	if req.BudgetLimit < 0 {
		return domain.Invalidf("budget_limit", "must not be negative, got %.2f", req.BudgetLimit)
	}
	if req.RiskScore < 0 || req.RiskScore > 100 {
		return domain.Invalidf("risk_score", "must be in [0,100], got %.2f", req.RiskScore)
	}
	if req.Tolerance != "" && !req.Tolerance.Valid() {
		return domain.Invalidf("risk_tolerance", "unknown value %q", req.Tolerance)
	}
	return nil
}

// decisionDeadline maps exposure bands to decision urgency.
func decisionDeadline(band domain.RiskBand) string {
	switch band.Label {
	case "critical":
		return "within 7 days"
	case "high":
		return "within 30 days"
	case "moderate":
		return "within 60 days"
	default:
		return "within 90 days"
	}
}

func recommendedIsEmpty(sc Scenario) bool {
	return len(sc.Portfolio.Strategies) == 0 || !sc.Portfolio.Feasible
}

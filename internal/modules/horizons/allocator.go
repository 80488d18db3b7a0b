// Package horizons partitions the catalog into Immediate, Tactical, and
// Strategic execution windows and allocates budget shares across them,
// tilting spend toward faster-acting strategies when current risk is
// high.
package horizons

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/domain"
	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/modules/optimizer"
)

// Horizon window boundaries in days.
const (
	ImmediateMaxDays = 30
	TacticalMaxDays  = 180
)

// Budget share triples (immediate, tactical, strategic).
var (
	sharesEven       = [3]float64{1.0 / 3, 1.0 / 3, 1.0 / 3} // 50 <= risk_score < 75
	sharesHighRisk   = [3]float64{0.45, 0.35, 0.20}          // risk_score >= 75
	sharesLowRisk    = [3]float64{0.20, 0.35, 0.45}          // risk_score < 50
	horizonNames     = [3]string{"immediate", "tactical", "strategic"}
	horizonDeadlines = [3]string{"within 30 days", "within 6 months", "within 12-18 months"}
)

// Bucket is one horizon's allocation.
type Bucket struct {
	Horizon          string   `json:"horizon"`
	DecisionDeadline string   `json:"decision_deadline"`
	StrategyIDs      []string `json:"strategy_ids"`
	StrategyNames    []string `json:"strategies"`
	Cost             float64  `json:"cost"`
	RiskReduction    float64  `json:"risk_reduction"`
	BudgetShare      float64  `json:"budget_share"`
	ActionItems      []string `json:"action_items"`
}

// Tradeoff is the top-level posture recommendation.
type Tradeoff struct {
	Recommendation string `json:"recommendation"`
	RiskBand       string `json:"risk_band"`
}

// Plan is the full multi-horizon allocation.
type Plan struct {
	Immediate          Bucket   `json:"immediate"`
	Tactical           Bucket   `json:"tactical"`
	Strategic          Bucket   `json:"strategic"`
	TotalCost          float64  `json:"total_cost"`
	TotalRiskReduction float64  `json:"total_risk_reduction"`
	Tradeoff           Tradeoff `json:"tradeoff"`
}

// Allocator builds horizon plans on top of the optimizer engine.
type Allocator struct {
	engine *optimizer.Engine
	log    zerolog.Logger
}

// NewAllocator creates a horizon allocator.
func NewAllocator(engine *optimizer.Engine, log zerolog.Logger) *Allocator {
	return &Allocator{
		engine: engine,
		log:    log.With().Str("component", "horizon_allocator").Logger(),
	}
}

// Allocate partitions the catalog by time estimate, optimizes each
// bucket against its budget share concurrently, and aggregates across
// buckets with the residual-risk combination rule. Partitioning is
// strict: each strategy lands in exactly its earliest eligible bucket.
func (a *Allocator) Allocate(ctx context.Context, catalog []domain.Strategy, budget float64, riskScore float64, tolerance domain.RiskTolerance) (Plan, error) {
	if len(catalog) == 0 {
		return Plan{}, domain.Invalidf("catalog", "must not be empty")
	}
	if budget < 0 {
		return Plan{}, domain.Invalidf("budget", "must be non-negative, got %.2f", budget)
	}
	if riskScore < 0 || riskScore > 100 {
		return Plan{}, domain.Invalidf("risk_score", "must be within [0,100], got %.2f", riskScore)
	}
	if tolerance == "" {
		tolerance = domain.ToleranceBalanced
	}
	if !tolerance.Valid() {
		return Plan{}, domain.Invalidf("risk_tolerance", "unknown value %q", tolerance)
	}
	if err := domain.ValidateCatalog(catalog); err != nil {
		return Plan{}, err
	}

	partition := partitionByHorizon(catalog)
	shares := sharesFor(riskScore)

	var portfolios [3]domain.Portfolio
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < 3; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if len(partition[i]) == 0 {
				portfolios[i] = domain.NewPortfolio(nil, true)
				return nil
			}
			p, err := a.engine.Optimize(optimizer.Request{
				Catalog:           partition[i],
				BudgetLimit:       budget * shares[i],
				TimelineLimitDays: horizonCeiling(i),
				Tolerance:         tolerance,
			})
			if err != nil {
				return fmt.Errorf("horizon %s: %w", horizonNames[i], err)
			}
			portfolios[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Plan{}, err
	}

	var buckets [3]Bucket
	var union []domain.Strategy
	for i := 0; i < 3; i++ {
		buckets[i] = makeBucket(i, shares[i], portfolios[i])
		union = append(union, portfolios[i].Strategies...)
	}

	band := domain.BandFor(riskScore)
	plan := Plan{
		Immediate:          buckets[0],
		Tactical:           buckets[1],
		Strategic:          buckets[2],
		TotalCost:          domain.TotalCost(union),
		TotalRiskReduction: domain.CombinedRiskReduction(union),
		Tradeoff: Tradeoff{
			Recommendation: tradeoffRecommendation(riskScore),
			RiskBand:       band.Label,
		},
	}

	a.log.Debug().
		Float64("budget", budget).
		Float64("risk_score", riskScore).
		Int("immediate", len(buckets[0].StrategyIDs)).
		Int("tactical", len(buckets[1].StrategyIDs)).
		Int("strategic", len(buckets[2].StrategyIDs)).
		Float64("total_risk_reduction", plan.TotalRiskReduction).
		Msg("Horizon plan built")

	return plan, nil
}

// partitionByHorizon assigns every strategy to exactly one bucket by
// its time estimate. The boundaries make buckets disjoint, so the
// earliest-eligible rule is the boundary comparison itself.
func partitionByHorizon(catalog []domain.Strategy) [3][]domain.Strategy {
	var out [3][]domain.Strategy
	for _, s := range catalog {
		switch {
		case s.TimeEstimateDays <= ImmediateMaxDays:
			out[0] = append(out[0], s)
		case s.TimeEstimateDays <= TacticalMaxDays:
			out[1] = append(out[1], s)
		default:
			out[2] = append(out[2], s)
		}
	}
	return out
}

func sharesFor(riskScore float64) [3]float64 {
	switch {
	case riskScore >= 75:
		return sharesHighRisk
	case riskScore < 50:
		return sharesLowRisk
	default:
		return sharesEven
	}
}

// horizonCeiling is the per-bucket timeline ceiling: the window's upper
// boundary for the first two, unconstrained for strategic work.
func horizonCeiling(i int) int {
	switch i {
	case 0:
		return ImmediateMaxDays
	case 1:
		return TacticalMaxDays
	}
	return 0
}

func makeBucket(i int, share float64, p domain.Portfolio) Bucket {
	b := Bucket{
		Horizon:          horizonNames[i],
		DecisionDeadline: horizonDeadlines[i],
		StrategyIDs:      p.IDs(),
		StrategyNames:    make([]string, 0, len(p.Strategies)),
		Cost:             p.TotalCost,
		RiskReduction:    p.TotalRiskReduction,
		BudgetShare:      share,
		ActionItems:      make([]string, 0, len(p.Strategies)),
	}
	for _, s := range p.Strategies {
		b.StrategyNames = append(b.StrategyNames, s.Name)
		b.ActionItems = append(b.ActionItems, actionItem(i, s))
	}
	return b
}

// actionItem templates one line per selected strategy from its name and
// category, phrased for the bucket's urgency.
func actionItem(bucket int, s domain.Strategy) string {
	switch bucket {
	case 0:
		return fmt.Sprintf("Kick off %s (%s) immediately; target completion inside %d days.", s.Name, s.Category, s.TimeEstimateDays)
	case 1:
		return fmt.Sprintf("Schedule %s (%s) into the tactical window; plan %d days of execution.", s.Name, s.Category, s.TimeEstimateDays)
	}
	return fmt.Sprintf("Stage %s (%s) as a strategic program; budget %d days end to end.", s.Name, s.Category, s.TimeEstimateDays)
}

// tradeoffRecommendation is the single-sentence posture call by risk band.
func tradeoffRecommendation(riskScore float64) string {
	switch {
	case riskScore >= 75:
		return "Risk is critical: commit the immediate bucket first and compress approval cycles for fast-acting strategies."
	case riskScore >= 50:
		return "Risk is elevated: execute all three horizons in parallel and review allocation quarterly."
	default:
		return "Risk is manageable: favor strategic investments with the largest long-term reduction and keep immediate spend lean."
	}
}

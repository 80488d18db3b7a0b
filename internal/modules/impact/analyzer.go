// Package impact estimates the ripple effects of implementing one
// mitigation strategy: its direct effect, the second-order influence on
// related catalog entries, and a decayed third-order propagation one hop
// further. Reports never mutate the catalog.
package impact

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/domain"
)

// Cross-category substitution coefficients. Implementing a strategy of
// the row category reduces the marginal value of related strategies of
// the column category by this share of its own effect. Same-category
// pairs substitute hardest.
var crossCategoryCoeff = map[domain.Category]map[domain.Category]float64{
	domain.CategoryTraining:    {domain.CategoryProcess: 0.35},
	domain.CategoryTechnology:  {domain.CategoryProcess: 0.30},
	domain.CategoryMaintenance: {domain.CategoryTechnology: 0.25},
}

const (
	sameCategoryCoeff  = 0.50
	policyCoeff        = 0.20 // policy touches every category it overlaps with
	defaultCrossCoeff  = 0.15
	hopDecay           = 0.40 // per-hop attenuation, keeps third order strictly below second
	minReportInfluence = 0.01 // effects below this vanish from the report
)

// Effect is one estimated influence on another catalog strategy,
// expressed in risk-reduction points absorbed by the substitution.
type Effect struct {
	StrategyID string   `json:"strategy_id"`
	Name       string   `json:"name"`
	Category   string   `json:"category"`
	Influence  float64  `json:"influence"`
	Via        string   `json:"via,omitempty"` // second-order parent for third-order effects
	SharedTags []string `json:"shared_tags,omitempty"`
}

// Report is the full cascade for one strategy.
type Report struct {
	StrategyID  string   `json:"strategy_id"`
	Direct      float64  `json:"direct"`
	SecondOrder []Effect `json:"second_order"`
	ThirdOrder  []Effect `json:"third_order"`
	Notes       []string `json:"notes,omitempty"`
}

// Analyzer computes cascade reports.
type Analyzer struct {
	log zerolog.Logger
}

// NewAnalyzer creates an impact analyzer.
func NewAnalyzer(log zerolog.Logger) *Analyzer {
	return &Analyzer{log: log.With().Str("component", "impact_analyzer").Logger()}
}

// Analyze builds the cascade report for one strategy against a catalog.
func (a *Analyzer) Analyze(strategy domain.Strategy, catalog []domain.Strategy) (Report, error) {
	if err := strategy.Validate(); err != nil {
		return Report{}, err
	}
	if err := domain.ValidateCatalog(catalog); err != nil {
		return Report{}, err
	}

	report := Report{
		StrategyID:  strategy.ID,
		Direct:      strategy.RiskReductionPct,
		SecondOrder: []Effect{},
		ThirdOrder:  []Effect{},
		Notes:       playbookNotes(strategy),
	}

	visited := map[string]bool{strategy.ID: true}

	for _, other := range catalog {
		if other.ID == strategy.ID {
			continue
		}
		influence, shared, ok := influenceOn(strategy, other, strategy.RiskReductionPct)
		if !ok || influence < minReportInfluence {
			continue
		}
		visited[other.ID] = true
		report.SecondOrder = append(report.SecondOrder, Effect{
			StrategyID: other.ID,
			Name:       other.Name,
			Category:   string(other.Category),
			Influence:  influence,
			SharedTags: shared,
		})
	}
	sortEffects(report.SecondOrder)

	for _, second := range report.SecondOrder {
		parent := findStrategy(catalog, second.StrategyID)
		for _, other := range catalog {
			if visited[other.ID] {
				continue
			}
			influence, shared, ok := influenceOn(parent, other, second.Influence)
			if !ok {
				continue
			}
			influence *= hopDecay
			if influence < minReportInfluence {
				continue
			}
			visited[other.ID] = true
			report.ThirdOrder = append(report.ThirdOrder, Effect{
				StrategyID: other.ID,
				Name:       other.Name,
				Category:   string(other.Category),
				Influence:  influence,
				Via:        second.StrategyID,
				SharedTags: shared,
			})
		}
	}
	sortEffects(report.ThirdOrder)

	a.log.Debug().
		Str("strategy_id", strategy.ID).
		Int("second_order", len(report.SecondOrder)).
		Int("third_order", len(report.ThirdOrder)).
		Msg("Impact cascade computed")

	return report, nil
}

// influenceOn estimates how much of source's effect substitutes for
// target's value. Adjacency requires a shared category or at least one
// shared applicability tag; tag overlap scales the coefficient up
// toward its full value via Jaccard similarity.
func influenceOn(source, target domain.Strategy, sourceEffect float64) (float64, []string, bool) {
	shared := domain.SharedTags(source, target)
	sameCategory := source.Category == target.Category
	if !sameCategory && len(shared) == 0 {
		return 0, nil, false
	}

	coeff := coefficient(source.Category, target.Category)
	tagFactor := 0.5 + 0.5*jaccard(source.Applicability, target.Applicability)

	return sourceEffect * coeff * tagFactor, shared, true
}

func coefficient(from, to domain.Category) float64 {
	if from == to {
		return sameCategoryCoeff
	}
	if from == domain.CategoryPolicy || to == domain.CategoryPolicy {
		return policyCoeff
	}
	if row, ok := crossCategoryCoeff[from]; ok {
		if c, ok := row[to]; ok {
			return c
		}
	}
	// Substitution is symmetric enough for reporting purposes.
	if row, ok := crossCategoryCoeff[to]; ok {
		if c, ok := row[from]; ok {
			return c
		}
	}
	return defaultCrossCoeff
}

func jaccard(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(a))
	for _, tag := range a {
		set[tag] = struct{}{}
	}
	intersection := 0
	union := len(set)
	for _, tag := range b {
		if _, ok := set[tag]; ok {
			intersection++
		} else {
			union++
		}
	}
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func findStrategy(catalog []domain.Strategy, id string) domain.Strategy {
	for _, s := range catalog {
		if s.ID == id {
			return s
		}
	}
	return domain.Strategy{}
}

// sortEffects orders by descending influence, then id, for stable output.
func sortEffects(effects []Effect) {
	sort.Slice(effects, func(i, j int) bool {
		if effects[i].Influence != effects[j].Influence {
			return effects[i].Influence > effects[j].Influence
		}
		return effects[i].StrategyID < effects[j].StrategyID
	})
}

// playbookNotes carries the operational side effects large mitigations
// drag in: capacity, staffing, and change-management burdens that the
// numbers alone hide.
func playbookNotes(s domain.Strategy) []string {
	var notes []string
	switch s.Category {
	case domain.CategoryMaintenance:
		if s.RiskReductionPct > 15 {
			notes = append(notes,
				"Maintenance programs at this scale raise bay utilization; plan for roughly two additional technicians (~$300K) and a 60-day ramp.")
		}
	case domain.CategoryTraining:
		if s.RiskReductionPct > 10 {
			notes = append(notes,
				"Expect a short-term productivity dip while staff are in training; schedule sessions off peak load.")
		}
	case domain.CategoryTechnology:
		if s.CostEstimate > 200000 {
			notes = append(notes,
				"Technology rollouts above $200K typically need a change-management effort near 20% of project cost and add about 30 days.")
		}
	}
	return notes
}

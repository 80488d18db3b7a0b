package composer

import (
	"fmt"

	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/domain"
)

// Stakeholder roles each package briefs.
const (
	RoleCEO   = "ceo"
	RoleCFO   = "cfo"
	RoleCOO   = "coo"
	RoleCISO  = "ciso"
	RoleBoard = "board"
)

// valuePerPoint converts one percentage point of risk reduction into
// an annual avoided-loss figure for the financial framing.
const valuePerPoint = 100_000

// financials derives the CFO-facing figures from the recommended
// portfolio. Five-year value assumes roughly two incident cycles of
// avoided loss over the horizon.
type financials struct {
	avoidedAnnual float64
	roi           float64
	paybackMonths float64
	fiveYearNPV   float64
}

func computeFinancials(p domain.Portfolio) financials {
	f := financials{avoidedAnnual: p.TotalRiskReduction * valuePerPoint}
	if p.TotalCost > 0 && f.avoidedAnnual > 0 {
		f.roi = f.avoidedAnnual / p.TotalCost
		f.paybackMonths = p.TotalCost / (f.avoidedAnnual / 12)
	}
	f.fiveYearNPV = 2*f.avoidedAnnual - p.TotalCost
	return f
}

// buildBriefs renders one brief per stakeholder role from the
// recommended scenario.
func buildBriefs(riskScore float64, recommended Scenario, robustness RobustnessSummary) map[string]Brief {
	p := recommended.Portfolio
	band := domain.BandFor(riskScore)
	fin := computeFinancials(p)

	action := fmt.Sprintf("Approve the %q plan: %d strategies, $%.0f total, %.1f%% risk reduction.",
		recommended.Name, len(p.Strategies), p.TotalCost, p.TotalRiskReduction)
	if len(p.Strategies) == 0 {
		action = "No fundable plan fits the current constraints. Review the negotiation options before committing."
	}

	briefs := map[string]Brief{
		RoleCEO: {
			Role:    RoleCEO,
			Subject: fmt.Sprintf("Risk posture decision: %s exposure, action needed", band.Label),
			KeyPoints: []string{
				fmt.Sprintf("Current risk score %.0f/100 (%s band).", riskScore, band.Label),
				fmt.Sprintf("Recommended plan cuts exposure by %.1f%% for $%.0f.", p.TotalRiskReduction, p.TotalCost),
				fmt.Sprintf("Plan survives adversarial stress testing at %.0f/100 (%s).", robustness.Score, robustness.Rating),
			},
			RecommendedAction: action,
			Metrics: map[string]float64{
				"risk_score":       riskScore,
				"risk_reduction":   p.TotalRiskReduction,
				"total_cost":       p.TotalCost,
				"robustness_score": robustness.Score,
			},
		},
		RoleCFO: {
			Role:    RoleCFO,
			Subject: fmt.Sprintf("Risk mitigation investment case: $%.0f ask", p.TotalCost),
			KeyPoints: []string{
				fmt.Sprintf("Estimated avoided loss $%.0f per year against $%.0f invested.", fin.avoidedAnnual, p.TotalCost),
				fmt.Sprintf("First-year ROI %.1fx, payback in %.1f months.", fin.roi, fin.paybackMonths),
				fmt.Sprintf("Five-year NPV approximately $%.0f.", fin.fiveYearNPV),
			},
			RecommendedAction: action,
			Metrics: map[string]float64{
				"total_cost":     p.TotalCost,
				"avoided_annual": fin.avoidedAnnual,
				"roi":            fin.roi,
				"payback_months": fin.paybackMonths,
				"five_year_npv":  fin.fiveYearNPV,
			},
		},
		RoleCOO: {
			Role:    RoleCOO,
			Subject: "Operational impact of the recommended mitigation plan",
			KeyPoints: []string{
				fmt.Sprintf("Expected operational footprint: %s.", recommended.DisruptionLevel),
				fmt.Sprintf("Critical path %d days across %d workstreams.", p.TotalTimelineDays, len(p.Strategies)),
				"Sequencing follows the horizon plan; disruptive work avoids peak windows.",
			},
			RecommendedAction: action,
			Metrics: map[string]float64{
				"timeline_days": float64(p.TotalTimelineDays),
				"workstreams":   float64(len(p.Strategies)),
			},
		},
		RoleCISO: {
			Role:    RoleCISO,
			Subject: "Residual risk after the recommended plan",
			KeyPoints: []string{
				fmt.Sprintf("Combined risk reduction %.1f%% under the residual-risk rule.", p.TotalRiskReduction),
				fmt.Sprintf("Residual exposure %.1f%% of current levels.", 100-p.TotalRiskReduction),
				fmt.Sprintf("War-gamed against budget cuts, strategy failures, and timeline compression: resilience rating %s.", robustness.Rating),
			},
			RecommendedAction: action,
			Metrics: map[string]float64{
				"risk_reduction":   p.TotalRiskReduction,
				"residual_pct":     100 - p.TotalRiskReduction,
				"robustness_score": robustness.Score,
			},
		},
		RoleBoard: {
			Role:    RoleBoard,
			Subject: fmt.Sprintf("Board decision: risk mitigation funding (%s exposure)", band.Label),
			KeyPoints: []string{
				fmt.Sprintf("Management recommends the %q scenario out of %s.", recommended.Name, "six evaluated courses of action"),
				fmt.Sprintf("Ask: $%.0f. Expected exposure reduction: %.1f%%.", p.TotalCost, p.TotalRiskReduction),
				fmt.Sprintf("Planning confidence %.0f%%; stress-test rating %s.", recommended.Confidence*100, robustness.Rating),
			},
			RecommendedAction: action,
			Metrics: map[string]float64{
				"total_cost": p.TotalCost,
				"confidence": recommended.Confidence,
			},
		},
	}
	return briefs
}

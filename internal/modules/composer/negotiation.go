package composer

import "fmt"

// negotiationOptions frames five alternative asks when the stated
// constraints admit no funded plan. Figures are anchors for a budget
// conversation, not optimizer outputs.
func negotiationOptions(budget float64, timelineDays int) []NegotiationOption {
	timeline := timelineDays
	if timeline <= 0 {
		timeline = 365
	}

	return []NegotiationOption{
		{
			Name: "Phased Delivery",
			Description: fmt.Sprintf("Split the program into two phases: fund $%.0f now for the highest-efficiency strategies, defer the remainder to next cycle.",
				budget*0.5),
			AdjustedBudget:       budget * 0.5,
			AdjustedTimelineDays: timeline * 2,
			Rationale:            "Halves the immediate ask while keeping the end-state plan intact.",
		},
		{
			Name:                 "Risk-Adjusted Scope",
			Description:          "Keep the budget, shrink the scope: fund only strategies covering the highest-severity exposures and accept residual risk elsewhere.",
			AdjustedBudget:       budget,
			AdjustedTimelineDays: timeline,
			Rationale:            "Concentrates spend where each dollar removes the most exposure.",
		},
		{
			Name: "Cross-Functional Funding",
			Description: fmt.Sprintf("Raise the envelope to $%.0f by charging shared strategies to the business units they protect.",
				budget*1.25),
			AdjustedBudget:       budget * 1.25,
			AdjustedTimelineDays: timeline,
			Rationale:            "Strategies with broad applicability tags benefit several owners, so several budgets can carry them.",
		},
		{
			Name:                 "ROI Emergency Case",
			Description:          "Present the full ask as loss avoidance: each point of risk reduction offsets an estimated $100K of annual incident cost.",
			AdjustedBudget:       budget,
			AdjustedTimelineDays: timeline,
			Rationale:            "Reframes the spend as insurance with a quantified payback rather than discretionary cost.",
		},
		{
			Name: "Alternative Resourcing",
			Description: fmt.Sprintf("Cut cash spend to $%.0f by substituting internal staff time for contracted delivery, extending the schedule.",
				budget*0.85),
			AdjustedBudget:       budget * 0.85,
			AdjustedTimelineDays: timeline + timeline/2,
			Rationale:            "Trades calendar time for budget where in-house skills cover the work.",
		},
	}
}

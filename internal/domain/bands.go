package domain

// Risk score bands. Every consumer (scenario descriptions, briefs,
// tradeoff text, the UI) derives labels and colors from this one table
// instead of re-hardcoding thresholds per screen.

// RiskBand is a labelled score interval.
type RiskBand struct {
	Label string  `json:"label"`
	Floor float64 `json:"floor"` // inclusive lower bound of the band
	Color string  `json:"color"` // presentation hint
}

// riskBands in descending floor order; BandFor scans top down.
var riskBands = []RiskBand{
	{Label: "critical", Floor: 75, Color: "#dc2626"},
	{Label: "high", Floor: 50, Color: "#ea580c"},
	{Label: "moderate", Floor: 25, Color: "#d97706"},
	{Label: "low", Floor: 0, Color: "#16a34a"},
}

// BandFor maps a 0-100 risk score to its band. Scores below zero clamp
// to the low band; scores above 100 clamp to critical.
func BandFor(score float64) RiskBand {
	for _, band := range riskBands {
		if score >= band.Floor {
			return band
		}
	}
	return riskBands[len(riskBands)-1]
}

// DisruptionBands maps disruption ordinals to presentation labels.
var DisruptionBands = map[Disruption]string{
	DisruptionNone:   "no operational impact",
	DisruptionLow:    "minor operational impact",
	DisruptionMedium: "noticeable operational impact",
	DisruptionHigh:   "major operational impact",
}

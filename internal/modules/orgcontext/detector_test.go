package orgcontext

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/domain"
)

func intPtr(v int) *int { return &v }

func TestDetect_Normal(t *testing.T) {
	d := NewDetector(zerolog.Nop())

	adapt := d.Detect(Signals{})

	assert.Equal(t, []string{StateNormal}, adapt.States)
	assert.Equal(t, 1.0, adapt.BudgetMultiplier)
	assert.Equal(t, 1.0, adapt.TimelineMultiplier)
	assert.Nil(t, adapt.ToleranceOverride)
	assert.Empty(t, adapt.Notes)
}

func TestDetect_PostIncident(t *testing.T) {
	d := NewDetector(zerolog.Nop())

	adapt := d.Detect(Signals{LastIncidentDaysAgo: intPtr(10)})

	assert.Contains(t, adapt.States, StatePostIncident)
	assert.InDelta(t, 1.2, adapt.BudgetMultiplier, 1e-9)
	assert.InDelta(t, 0.8, adapt.TimelineMultiplier, 1e-9)
	require.NotNil(t, adapt.ToleranceOverride)
	assert.Equal(t, domain.ToleranceAggressive, *adapt.ToleranceOverride)
}

func TestDetect_IncidentOutsideWindow(t *testing.T) {
	d := NewDetector(zerolog.Nop())

	adapt := d.Detect(Signals{LastIncidentDaysAgo: intPtr(45)})

	assert.Equal(t, []string{StateNormal}, adapt.States)
	assert.Equal(t, 1.0, adapt.BudgetMultiplier)
}

func TestDetect_BudgetFreeze(t *testing.T) {
	d := NewDetector(zerolog.Nop())

	adapt := d.Detect(Signals{BudgetFrozen: true})

	assert.Contains(t, adapt.States, StateBudgetFrozen)
	assert.InDelta(t, 0.6, adapt.BudgetMultiplier, 1e-9)
	require.NotNil(t, adapt.ToleranceOverride)
	assert.Equal(t, domain.ToleranceConservative, *adapt.ToleranceOverride)
}

func TestDetect_CompoundStatesMultiply(t *testing.T) {
	d := NewDetector(zerolog.Nop())

	adapt := d.Detect(Signals{
		LastIncidentDaysAgo: intPtr(5),
		PeakSeason:          true,
		NextAuditDaysAhead:  intPtr(20),
	})

	assert.ElementsMatch(t,
		[]string{StatePostIncident, StatePeakSeason, StateAuditWindow},
		adapt.States)
	assert.InDelta(t, 1.2, adapt.BudgetMultiplier, 1e-9)
	// 0.8 * 1.25 * 0.9
	assert.InDelta(t, 0.9, adapt.TimelineMultiplier, 1e-9)
	assert.Len(t, adapt.Notes, 3)
}

func TestDetect_AuditWindow(t *testing.T) {
	d := NewDetector(zerolog.Nop())

	adapt := d.Detect(Signals{NextAuditDaysAhead: intPtr(59)})
	assert.Contains(t, adapt.States, StateAuditWindow)

	adapt = d.Detect(Signals{NextAuditDaysAhead: intPtr(60)})
	assert.Equal(t, []string{StateNormal}, adapt.States)
}

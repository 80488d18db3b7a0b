package domain

import "fmt"

// ConstraintKind separates rejecting rules from penalizing ones.
type ConstraintKind string

const (
	ConstraintHard ConstraintKind = "hard"
	ConstraintSoft ConstraintKind = "soft"
)

// ConstraintScope names the portfolio dimension a constraint measures.
type ConstraintScope string

const (
	ScopeBudget     ConstraintScope = "budget"     // total cost
	ScopeTimeline   ConstraintScope = "timeline"   // critical-path days
	ScopeResource   ConstraintScope = "resource"   // number of concurrent strategies
	ScopeRegulatory ConstraintScope = "regulatory" // strategies needing executive+ approval
)

// Constraint is one named rule. Hard constraints reject on a bounds
// violation; soft constraints add Penalty per unit over Target to the
// objective penalty and never reject.
type Constraint struct {
	Name    string          `json:"name"`
	Kind    ConstraintKind  `json:"kind"`
	Scope   ConstraintScope `json:"scope"`
	Min     *float64        `json:"min,omitempty"`
	Max     *float64        `json:"max,omitempty"`
	Target  float64         `json:"target,omitempty"`
	Penalty float64         `json:"penalty_per_unit,omitempty"`
}

// Validate checks the rule is well formed.
func (c Constraint) Validate() error {
	if c.Name == "" {
		return Invalidf("constraint.name", "must not be empty")
	}
	switch c.Kind {
	case ConstraintHard:
		if c.Min == nil && c.Max == nil {
			return Invalidf("constraint."+c.Name, "hard constraint needs min or max")
		}
		if c.Min != nil && c.Max != nil && *c.Min > *c.Max {
			return Invalidf("constraint."+c.Name, "min %.2f exceeds max %.2f", *c.Min, *c.Max)
		}
	case ConstraintSoft:
		if c.Penalty < 0 {
			return Invalidf("constraint."+c.Name, "negative penalty")
		}
	default:
		return Invalidf("constraint."+c.Name, "unknown kind %q", c.Kind)
	}
	switch c.Scope {
	case ScopeBudget, ScopeTimeline, ScopeResource, ScopeRegulatory:
	default:
		return Invalidf("constraint."+c.Name, "unknown scope %q", c.Scope)
	}
	return nil
}

// measure extracts the portfolio value the constraint's scope compares.
func (c Constraint) measure(p Portfolio) float64 {
	switch c.Scope {
	case ScopeBudget:
		return p.TotalCost
	case ScopeTimeline:
		return float64(p.TotalTimelineDays)
	case ScopeResource:
		return float64(len(p.Strategies))
	case ScopeRegulatory:
		count := 0
		for _, s := range p.Strategies {
			switch s.ApprovalLevel {
			case "executive", "board", "regulatory":
				count++
			}
		}
		return float64(count)
	}
	return 0
}

// Violation describes one failed hard rule or penalized soft rule.
type Violation struct {
	Constraint string  `json:"constraint"`
	Scope      string  `json:"scope"`
	Measured   float64 `json:"measured"`
	Limit      float64 `json:"limit"`
	Detail     string  `json:"detail"`
}

// Evaluation is the result of checking a portfolio against a rule set.
type Evaluation struct {
	Satisfied  bool        `json:"satisfied"`
	Penalty    float64     `json:"penalty"`
	Violations []Violation `json:"violations,omitempty"`
}

// ConstraintSet is an ordered collection of rules.
type ConstraintSet []Constraint

// Evaluate checks every rule. Hard violations flip Satisfied; soft
// overruns accumulate into Penalty. The portfolio is never mutated.
func (cs ConstraintSet) Evaluate(p Portfolio) Evaluation {
	eval := Evaluation{Satisfied: true}
	for _, c := range cs {
		value := c.measure(p)
		switch c.Kind {
		case ConstraintHard:
			if c.Max != nil && value > *c.Max {
				eval.Satisfied = false
				eval.Violations = append(eval.Violations, Violation{
					Constraint: c.Name,
					Scope:      string(c.Scope),
					Measured:   value,
					Limit:      *c.Max,
					Detail:     fmt.Sprintf("%.2f exceeds maximum %.2f", value, *c.Max),
				})
			}
			if c.Min != nil && value < *c.Min {
				eval.Satisfied = false
				eval.Violations = append(eval.Violations, Violation{
					Constraint: c.Name,
					Scope:      string(c.Scope),
					Measured:   value,
					Limit:      *c.Min,
					Detail:     fmt.Sprintf("%.2f below minimum %.2f", value, *c.Min),
				})
			}
		case ConstraintSoft:
			if over := value - c.Target; over > 0 {
				eval.Penalty += over * c.Penalty
				eval.Violations = append(eval.Violations, Violation{
					Constraint: c.Name,
					Scope:      string(c.Scope),
					Measured:   value,
					Limit:      c.Target,
					Detail:     fmt.Sprintf("%.2f over target %.2f, penalty %.2f", value, c.Target, over*c.Penalty),
				})
			}
		}
	}
	return eval
}

// Hardened returns a copy of the set in which soft rules of the given
// scope become hard rules (Max = Target). Used by the regulatory-shift
// attack to model a soft approval gate becoming binding.
func (cs ConstraintSet) Hardened(scope ConstraintScope) ConstraintSet {
	out := make(ConstraintSet, len(cs))
	copy(out, cs)
	for i, c := range out {
		if c.Kind == ConstraintSoft && c.Scope == scope {
			target := c.Target
			out[i].Kind = ConstraintHard
			out[i].Max = &target
			out[i].Penalty = 0
		}
	}
	return out
}

// BudgetTimelineSet builds the implicit hard constraints every
// optimization request carries: cost ceiling and critical-path ceiling.
func BudgetTimelineSet(budgetLimit float64, timelineLimitDays float64) ConstraintSet {
	set := ConstraintSet{
		{Name: "budget_ceiling", Kind: ConstraintHard, Scope: ScopeBudget, Max: &budgetLimit},
	}
	if timelineLimitDays > 0 {
		set = append(set, Constraint{
			Name: "timeline_ceiling", Kind: ConstraintHard, Scope: ScopeTimeline, Max: &timelineLimitDays,
		})
	}
	return set
}

package optimizer

import (
	"math/bits"
	"sort"

	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/domain"
)

// scoreEpsilon separates genuinely better objectives from float noise;
// anything closer falls through to the cost and id tie-breaks.
const scoreEpsilon = 1e-9

// exactSearch enumerates every subset of the (already pruned, id-sorted)
// candidates. Candidates is at most exactSearchLimit entries, so the
// mask fits in a uint32 range and the scan is cheap.
func (e *Engine) exactSearch(candidates []domain.Strategy, req Request) []domain.Strategy {
	n := len(candidates)

	var (
		best      []domain.Strategy
		bestScore float64
		bestCost  float64
	)

	selection := make([]domain.Strategy, 0, n)
	for mask := uint32(1); mask < uint32(1)<<n; mask++ {
		selection = selection[:0]
		var cost float64
		for m := mask; m != 0; m &= m - 1 {
			s := candidates[bits.TrailingZeros32(m)]
			selection = append(selection, s)
			cost += s.CostEstimate
		}
		if cost > req.BudgetLimit {
			continue
		}
		if !e.feasible(selection, req) {
			continue
		}

		score := e.score(selection, req)
		if score <= scoreEpsilon {
			continue // never worth more than selecting nothing
		}
		if better(score, cost, selection, bestScore, bestCost, best) {
			best = append(best[:0:0], selection...)
			bestScore = score
			bestCost = cost
		}
	}

	return best
}

// better orders candidate selections: higher score, then lower cost,
// then lexicographically smaller id sequence. Candidates arrive in id
// order, so the member sequence is already the lexicographic key.
func better(score, cost float64, sel []domain.Strategy, bestScore, bestCost float64, best []domain.Strategy) bool {
	if best == nil {
		return true
	}
	if score > bestScore+scoreEpsilon {
		return true
	}
	if score < bestScore-scoreEpsilon {
		return false
	}
	if cost != bestCost {
		return cost < bestCost
	}
	return lessIDs(sel, best)
}

func lessIDs(a, b []domain.Strategy) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i].ID != b[i].ID {
			return a[i].ID < b[i].ID
		}
	}
	return len(a) < len(b)
}

// greedySearch handles catalogs too large to enumerate: greedy fill by
// efficiency ratio, then a 2-opt pass swapping one selected strategy for
// one unselected as long as the objective improves. All iteration orders
// are fixed, so the result is deterministic for identical inputs.
func (e *Engine) greedySearch(candidates []domain.Strategy, req Request) []domain.Strategy {
	order := make([]domain.Strategy, len(candidates))
	copy(order, candidates)
	sort.SliceStable(order, func(i, j int) bool {
		ri := efficiency(order[i])
		rj := efficiency(order[j])
		if ri != rj {
			return ri > rj
		}
		if order[i].CostEstimate != order[j].CostEstimate {
			return order[i].CostEstimate < order[j].CostEstimate
		}
		return order[i].ID < order[j].ID
	})

	var selected []domain.Strategy
	score := 0.0
	for _, s := range order {
		trial := append(append([]domain.Strategy{}, selected...), s)
		if !e.feasible(trial, req) {
			continue
		}
		if trialScore := e.score(trial, req); trialScore > score+scoreEpsilon {
			selected = trial
			score = trialScore
		}
	}

	selected, score = e.twoOpt(selected, score, candidates, req)

	if score <= scoreEpsilon {
		return nil
	}
	domain.SortStrategies(selected)
	return selected
}

// twoOpt repeatedly applies the first improving single-pair swap, in
// fixed id order, until no swap improves. Bounded to keep worst-case
// runtime predictable; in practice it converges in a handful of rounds.
func (e *Engine) twoOpt(selected []domain.Strategy, score float64, candidates []domain.Strategy, req Request) ([]domain.Strategy, float64) {
	const maxRounds = 50

	inSelection := make(map[string]bool, len(selected))
	for _, s := range selected {
		inSelection[s.ID] = true
	}

	for round := 0; round < maxRounds; round++ {
		improved := false
		for i := 0; i < len(selected) && !improved; i++ {
			for _, candidate := range candidates {
				if inSelection[candidate.ID] {
					continue
				}
				trial := make([]domain.Strategy, 0, len(selected))
				trial = append(trial, selected[:i]...)
				trial = append(trial, selected[i+1:]...)
				trial = append(trial, candidate)
				if !e.feasible(trial, req) {
					continue
				}
				trialScore := e.score(trial, req)
				if trialScore > score+scoreEpsilon {
					delete(inSelection, selected[i].ID)
					inSelection[candidate.ID] = true
					selected = trial
					score = trialScore
					improved = true
					break
				}
			}
		}
		if !improved {
			break
		}
	}
	return selected, score
}

// efficiency is the greedy ordering key: risk reduction bought per unit
// cost. Free strategies rank by raw reduction scaled high.
func efficiency(s domain.Strategy) float64 {
	if s.CostEstimate <= 0 {
		return s.RiskReductionPct * 1e6
	}
	return s.RiskReductionPct / s.CostEstimate
}

// Package wargame stress-tests a chosen portfolio against a fixed
// library of shock scenarios plus randomized Monte Carlo degradations,
// and scores how often the portfolio survives.
//
// Randomized trials accept an explicit seed so results are exactly
// reproducible; without one, each call draws a fresh source. A context
// deadline degrades gracefully: the score is computed from completed
// trials and flagged as partial sampling instead of failing the call.
package wargame

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/umangkumarchaudhary/RiskAdvisor--ENTERPRISE-DECISION-INTELLIGENCE-PLATFORM/internal/domain"
)

const (
	// Trial bounds: requests outside this window are clamped.
	MinTrials = 100
	MaxTrials = 1000

	// trialBatch is the unit of parallelism and of deadline checking.
	trialBatch = 50

	// effectRetentionFloor: after a strategy failure the portfolio must
	// keep at least this share of its combined reduction to stay viable.
	effectRetentionFloor = 0.60

	// defaultTimelineBaseline stands in when the request carried no
	// timeline ceiling to compress.
	defaultTimelineBaseline = 365
)

// Params configures one war-gaming run.
type Params struct {
	BudgetLimit       float64
	TimelineLimitDays int
	Tolerance         domain.RiskTolerance
	Extra             domain.ConstraintSet
	Trials            int
	Seed              *int64
	OnProgress        func(completed, total int) // optional, called per finished batch
}

// AttackResult is the outcome of one attack scenario.
type AttackResult struct {
	Kind          string  `json:"kind"`
	Name          string  `json:"name"`
	Severity      float64 `json:"severity"`
	Viability     float64 `json:"viability"` // fraction of trials still viable, in [0,1]
	StillViable   bool    `json:"still_viable"`
	Trials        int     `json:"trials"`
	MagnitudeMean float64 `json:"magnitude_mean,omitempty"`
	MagnitudeP90  float64 `json:"magnitude_p90,omitempty"`
	Detail        string  `json:"detail"`
}

// Report is the full robustness assessment.
type Report struct {
	RobustnessScore  float64        `json:"robustness_score"` // 0-100
	ResilienceRating string         `json:"resilience_rating"`
	AttackResults    []AttackResult `json:"attack_results"`
	Recommendations  []string       `json:"recommendations"`
	Uncertainty      *Uncertainty   `json:"estimate_uncertainty,omitempty"`
	PartialSampling  bool           `json:"partial_sampling,omitempty"`
	Seed             int64          `json:"seed"`
	TrialsPerAttack  int            `json:"trials_per_attack"`
}

// Engine runs war games. Stateless between calls.
type Engine struct {
	log           zerolog.Logger
	defaultTrials int
}

// NewEngine creates a war-gaming engine. defaultTrials applies when the
// request leaves the trial count unset.
func NewEngine(defaultTrials int, log zerolog.Logger) *Engine {
	if defaultTrials < MinTrials || defaultTrials > MaxTrials {
		defaultTrials = 500
	}
	return &Engine{
		log:           log.With().Str("component", "wargame").Logger(),
		defaultTrials: defaultTrials,
	}
}

// Run subjects the portfolio to every attack in the library.
func (e *Engine) Run(ctx context.Context, portfolio domain.Portfolio, catalog []domain.Strategy, params Params) (Report, error) {
	if !params.Tolerance.Valid() {
		return Report{}, domain.Invalidf("risk_tolerance", "unknown value %q", params.Tolerance)
	}
	if err := domain.ValidateCatalog(catalog); err != nil {
		return Report{}, err
	}

	trials := params.Trials
	if trials == 0 {
		trials = e.defaultTrials
	}
	if trials < MinTrials {
		trials = MinTrials
	}
	if trials > MaxTrials {
		trials = MaxTrials
	}

	seed := time.Now().UnixNano()
	if params.Seed != nil {
		seed = *params.Seed
	}

	if len(portfolio.Strategies) == 0 {
		// Nothing to stress: by definition nothing survives.
		return Report{
			RobustnessScore:  0,
			ResilienceRating: "D",
			AttackResults:    []AttackResult{},
			Recommendations:  []string{"No strategies are funded; any shock leaves the organization fully exposed."},
			Seed:             seed,
			TrialsPerAttack:  trials,
		}, nil
	}

	attacks := library()
	results := make([]AttackResult, len(attacks))
	partial := false

	totalTrials := 0
	for _, atk := range attacks {
		if atk.randomized {
			totalTrials += trials
		} else {
			totalTrials++
		}
	}
	// Batches report from worker goroutines, so the counter is locked.
	var progressMu sync.Mutex
	completed := 0
	progress := func(n int) {
		progressMu.Lock()
		completed += n
		done := completed
		progressMu.Unlock()
		if params.OnProgress != nil {
			params.OnProgress(done, totalTrials)
		}
	}

	for i, atk := range attacks {
		var res AttackResult
		var trialsPartial bool
		if atk.randomized {
			// Per-attack seed derived from the root seed and the attack's
			// fixed position, so each attack's stream is independent yet
			// the whole run replays from one number.
			res, trialsPartial = e.runTrials(ctx, atk, portfolio, params, trials, seed+int64(i)*1_000_003, progress)
		} else {
			res = e.runOnce(atk, portfolio, params)
			progress(1)
		}
		partial = partial || trialsPartial
		results[i] = res
	}

	score := robustness(results)
	report := Report{
		RobustnessScore:  score,
		ResilienceRating: rating(score),
		AttackResults:    results,
		Recommendations:  e.recommend(results, portfolio, catalog),
		Uncertainty:      estimateUncertainty(portfolio, params, trials, seed),
		PartialSampling:  partial,
		Seed:             seed,
		TrialsPerAttack:  trials,
	}

	e.log.Debug().
		Float64("robustness_score", score).
		Str("rating", report.ResilienceRating).
		Bool("partial_sampling", partial).
		Int64("seed", seed).
		Msg("War game complete")

	return report, nil
}

// runOnce applies a deterministic attack a single time.
func (e *Engine) runOnce(atk attack, portfolio domain.Portfolio, params Params) AttackResult {
	viable := atk.viable(portfolio, params, atk.nominal)
	viability := 0.0
	if viable {
		viability = 1.0
	}
	return AttackResult{
		Kind:        string(atk.kind),
		Name:        atk.name,
		Severity:    atk.severity,
		Viability:   viability,
		StillViable: viable,
		Trials:      1,
		Detail:      atk.detail,
	}
}

// runTrials runs the Monte Carlo loop for a randomized attack. Batches
// execute concurrently; each batch owns a rand source derived from the
// attack seed and its batch index, so the aggregate is independent of
// scheduling order. The context deadline is honored at batch
// granularity.
func (e *Engine) runTrials(ctx context.Context, atk attack, portfolio domain.Portfolio, params Params, trials int, seed int64, progress func(int)) (AttackResult, bool) {
	type batchOut struct {
		viable     int
		ran        int
		magnitudes []float64
	}

	numBatches := (trials + trialBatch - 1) / trialBatch
	outs := make([]batchOut, numBatches)
	partial := false

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for b := 0; b < numBatches; b++ {
		b := b
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil // deadline hit: skip, count as not run
			}
			rng := rand.New(rand.NewSource(seed + int64(b)))
			size := trialBatch
			if b == numBatches-1 {
				size = trials - b*trialBatch
			}
			out := batchOut{magnitudes: make([]float64, 0, size)}
			for t := 0; t < size; t++ {
				m := atk.sample(rng)
				out.magnitudes = append(out.magnitudes, m)
				if atk.viable(portfolio, params, m) {
					out.viable++
				}
				out.ran++
			}
			outs[b] = out
			progress(out.ran)
			return nil
		})
	}
	_ = g.Wait()

	viable, ran := 0, 0
	var magnitudes []float64
	for _, out := range outs {
		viable += out.viable
		ran += out.ran
		magnitudes = append(magnitudes, out.magnitudes...)
	}
	if ran < trials {
		partial = true
	}

	viability := 0.0
	var magMean, magP90 float64
	if ran > 0 {
		viability = float64(viable) / float64(ran)
		sort.Float64s(magnitudes)
		magMean = stat.Mean(magnitudes, nil)
		magP90 = stat.Quantile(0.9, stat.Empirical, magnitudes, nil)
	}

	return AttackResult{
		Kind:          string(atk.kind),
		Name:          atk.name,
		Severity:      atk.severity,
		Viability:     viability,
		StillViable:   viability >= 0.5,
		Trials:        ran,
		MagnitudeMean: magMean,
		MagnitudeP90:  magP90,
		Detail:        atk.detail,
	}, partial
}

// robustness is the severity-weighted mean viability scaled to 0-100.
func robustness(results []AttackResult) float64 {
	var weighted, weights float64
	for _, r := range results {
		weighted += r.Viability * r.Severity
		weights += r.Severity
	}
	if weights == 0 {
		return 0
	}
	return 100 * weighted / weights
}

// rating maps the score to the letter thresholds A>=85, B>=70, C>=50.
func rating(score float64) string {
	switch {
	case score >= 85:
		return "A"
	case score >= 70:
		return "B"
	case score >= 50:
		return "C"
	default:
		return "D"
	}
}

package main

import (
	"math"
	"math/rand"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/poissondisk/config"
	"github.com/pthm-cable/poissondisk/sampler"
	"github.com/pthm-cable/poissondisk/telemetry"
)

// spacingSampleLimit caps the points measured per run for spacing stats.
const spacingSampleLimit = 500

// SweepResult aggregates every seed run at one sweep point. It is one row of sweep.csv.
type SweepResult struct {
	Radius     float64 `csv:"radius"`
	Candidates int     `csv:"candidates"`
	Seeds      int     `csv:"seeds"`
	Exhausted  int     `csv:"exhausted"`

	PointsMean float64 `csv:"points_mean"`
	PointsStd  float64 `csv:"points_std"`
	TicksMean  float64 `csv:"ticks_mean"`

	// Attempts spent per accepted point
	AttemptsPerPoint float64 `csv:"attempts_per_point"`
	// Fraction of the domain covered by disks of radius r/2 around each point
	PackingDensity float64 `csv:"packing_density"`
	SpacingRatio   float64 `csv:"spacing_ratio"`
	CoverageMean   float64 `csv:"coverage_mean"`
}

// runResult holds the outcome of one sampler run.
type runResult struct {
	points    int
	ticks     int
	attempts  int
	exhausted bool
	spacing   telemetry.SpacingStats
	coverage  float64
}

// Evaluator runs a sweep point across a fixed seed set.
type Evaluator struct {
	base     config.Config
	seeds    []int64
	maxTicks int
}

// NewEvaluator creates an evaluator. maxTicks caps each run (0 = run to exhaustion).
func NewEvaluator(base *config.Config, seeds []int64, maxTicks int) *Evaluator {
	return &Evaluator{base: *base, seeds: seeds, maxTicks: maxTicks}
}

// Evaluate runs every seed at sp in parallel and aggregates the results.
func (e *Evaluator) Evaluate(sp SweepPoint) (SweepResult, error) {
	cfg := e.base
	sp.ApplyToConfig(&cfg)

	results := make([]runResult, len(e.seeds))
	errs := make([]error, len(e.seeds))
	var wg sync.WaitGroup
	for i, seed := range e.seeds {
		wg.Add(1)
		go func(idx int, seed int64) {
			defer wg.Done()
			results[idx], errs[idx] = e.run(cfg.SamplerOptions(seed))
		}(i, seed)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return SweepResult{}, err
		}
	}
	return aggregate(sp, float64(cfg.Sampler.Width*cfg.Sampler.Height), results), nil
}

// run ticks one sampler until it is exhausted or maxTicks is reached.
func (e *Evaluator) run(opts sampler.Config) (runResult, error) {
	s, err := sampler.New(opts)
	if err != nil {
		return runResult{}, err
	}
	for e.maxTicks <= 0 || s.Counters().Ticks < e.maxTicks {
		if !s.Tick() {
			break
		}
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	return runResult{
		points:    s.NumPoints(),
		ticks:     s.Counters().Ticks,
		attempts:  s.Counters().Attempts,
		exhausted: s.State() == sampler.StateExhausted,
		spacing:   telemetry.ComputeSpacingStats(s.Points(), s.Index(), s.Radius(), spacingSampleLimit, rng),
		coverage:  s.Coverage(),
	}, nil
}

// aggregate summarises per-seed runs with gonum stat.
func aggregate(sp SweepPoint, area float64, runs []runResult) SweepResult {
	points := make([]float64, len(runs))
	ticks := make([]float64, len(runs))
	ratios := make([]float64, 0, len(runs))
	coverage := make([]float64, len(runs))
	var attempts, accepted float64

	out := SweepResult{Radius: sp.Radius, Candidates: sp.Candidates, Seeds: len(runs)}
	for i, r := range runs {
		points[i] = float64(r.points)
		ticks[i] = float64(r.ticks)
		coverage[i] = r.coverage
		if r.spacing.Samples > 0 {
			ratios = append(ratios, r.spacing.Ratio)
		}
		attempts += float64(r.attempts)
		accepted += float64(r.points - 1) // the seed point costs no attempts
		if r.exhausted {
			out.Exhausted++
		}
	}
	if len(runs) == 0 {
		return out
	}

	out.PointsMean, out.PointsStd = stat.MeanStdDev(points, nil)
	if len(runs) == 1 {
		out.PointsStd = 0
	}
	out.TicksMean = stat.Mean(ticks, nil)
	out.CoverageMean = stat.Mean(coverage, nil)
	if len(ratios) > 0 {
		out.SpacingRatio = stat.Mean(ratios, nil)
	}
	if accepted > 0 {
		out.AttemptsPerPoint = attempts / accepted
	}
	if area > 0 {
		half := sp.Radius / 2
		out.PackingDensity = out.PointsMean * math.Pi * half * half / area
	}
	return out
}

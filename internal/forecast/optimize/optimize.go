// FishCast - Fisheries Stock Forecasting and Optimization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fishcast

/*
Package optimize searches feature weight vectors that trade off total
predicted stock against prediction error.

A decision vector w holds one weight in [0, 1] per feature. For a feature
matrix X and target y, the prediction is p = X*w and the two objectives are:

  - total: sum(p), maximized
  - mse: mean((p - y)^2), minimized

The search is NSGA-III: a fixed-size population evolves through simulated
binary crossover and polynomial mutation, and survivors are chosen by
non-dominated rank and then by niche count around a set of reference
directions on the normalized objective simplex.

The best solution is picked from the final non-dominated front by a
BestSelector. The default RatioSelector maximizes total/(mse+epsilon); it
is a scalarization heuristic, not a Pareto optimality guarantee.

When the search cannot run (no rows, no features, or search disabled) Run
returns the fixed shape from Mock with Degraded set.
*/
package optimize

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
)

// Config configures the evolutionary search.
type Config struct {
	// PopulationSize is the number of individuals per generation.
	// Default: 40.
	PopulationSize int

	// Generations is the number of generations to evolve.
	// Default: 100.
	Generations int

	// CrossoverProb is the probability a mating pair is recombined.
	// Default: 1.0.
	CrossoverProb float64

	// CrossoverEta is the SBX distribution index.
	// Default: 30.
	CrossoverEta float64

	// MutationEta is the polynomial mutation distribution index.
	// Default: 20.
	MutationEta float64

	// MutationProb is the per-variable mutation probability.
	// Zero means 1/d for d decision variables.
	MutationProb float64

	// ReferencePoints is the number of reference directions.
	// Zero means PopulationSize.
	ReferencePoints int

	// Seed drives every random choice of the search.
	Seed int64

	// Disabled forces the degenerate result without searching.
	Disabled bool

	// Selector picks the best solution. Nil means RatioSelector(DefaultEpsilon).
	Selector BestSelector
}

// DefaultConfig returns a population of 40 evolved for 100 generations.
func DefaultConfig() Config {
	return Config{
		PopulationSize: 40,
		Generations:    100,
		CrossoverProb:  1.0,
		CrossoverEta:   30,
		MutationEta:    20,
		Seed:           42,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.PopulationSize < 2 {
		return fmt.Errorf("population size must be at least 2, got %d", c.PopulationSize)
	}
	if c.Generations < 1 {
		return fmt.Errorf("generations must be at least 1, got %d", c.Generations)
	}
	if c.CrossoverProb < 0 || c.CrossoverProb > 1 {
		return fmt.Errorf("crossover probability must be in [0, 1], got %v", c.CrossoverProb)
	}
	if c.MutationProb < 0 || c.MutationProb > 1 {
		return fmt.Errorf("mutation probability must be in [0, 1], got %v", c.MutationProb)
	}
	if c.CrossoverEta < 0 || c.MutationEta < 0 {
		return fmt.Errorf("distribution indices must be non-negative")
	}
	if c.ReferencePoints < 0 {
		return fmt.Errorf("reference points must be non-negative, got %d", c.ReferencePoints)
	}
	return nil
}

// Result is the outcome of a search. Objectives[i] is (total, mse) for
// Solutions[i].
type Result struct {
	Solutions     [][]float64 `json:"solutions"`
	Objectives    [][]float64 `json:"objectives"`
	BestSolution  []float64   `json:"best_solution"`
	BestTotalStok float64     `json:"best_total_stok"`
	BestMSE       float64     `json:"best_mse"`

	// Degraded holds the reason a fixed result was returned instead of a search.
	Degraded string `json:"degraded,omitempty"`
}

// Optimizer runs NSGA-III searches.
type Optimizer struct {
	cfg    Config
	logger zerolog.Logger
}

// New creates an optimizer.
func New(cfg Config, logger zerolog.Logger) *Optimizer {
	if cfg.Selector == nil {
		cfg.Selector = RatioSelector(DefaultEpsilon)
	}
	return &Optimizer{
		cfg:    cfg,
		logger: logger.With().Str("component", "optimizer").Logger(),
	}
}

// Config returns the optimizer's configuration.
func (o *Optimizer) Config() Config {
	return o.cfg
}

// Run searches weights for x against y. Inputs that cannot support a search
// produce the degenerate result; only cancellation and invalid configuration
// are returned as errors.
func (o *Optimizer) Run(ctx context.Context, x [][]float64, y []float64) (res Result, err error) {
	if err := o.cfg.Validate(); err != nil {
		return Result{}, fmt.Errorf("optimizer config: %w", err)
	}
	switch {
	case o.cfg.Disabled:
		return o.degrade("evolutionary search disabled"), nil
	case len(x) == 0:
		return o.degrade("no samples"), nil
	case len(x[0]) == 0:
		return o.degrade("no features"), nil
	case len(x) != len(y):
		return o.degrade(fmt.Sprintf("%d rows but %d targets", len(x), len(y))), nil
	}
	for i, row := range x {
		if len(row) != len(x[0]) {
			return o.degrade(fmt.Sprintf("row %d has %d features, want %d", i, len(row), len(x[0]))), nil
		}
	}

	defer func() {
		if r := recover(); r != nil {
			res, err = o.degrade(fmt.Sprintf("search panicked: %v", r)), nil
		}
	}()

	start := time.Now()
	p := newProblem(x, y)
	res, err = o.search(ctx, p)
	if err != nil {
		return Result{}, err
	}
	o.logger.Debug().
		Int("population", o.cfg.PopulationSize).
		Int("generations", o.cfg.Generations).
		Int("front_size", len(res.Solutions)).
		Dur("duration", time.Since(start)).
		Msg("Optimization complete")
	return res, nil
}

func (o *Optimizer) degrade(reason string) Result {
	o.logger.Warn().Str("reason", reason).Msg("Optimizer returning degenerate result")
	res := Mock()
	res.Degraded = reason
	return res
}

func (o *Optimizer) search(ctx context.Context, p *problem) (Result, error) {
	cfg := o.cfg
	//nolint:gosec // reproducible search, not security sensitive
	rng := rand.New(rand.NewSource(cfg.Seed))

	nRef := cfg.ReferencePoints
	if nRef == 0 {
		nRef = cfg.PopulationSize
	}
	s := &survival{refs: referenceDirections(nRef), rng: rng}
	ops := operators{
		crossoverProb: cfg.CrossoverProb,
		crossoverEta:  cfg.CrossoverEta,
		mutationEta:   cfg.MutationEta,
		mutationProb:  cfg.MutationProb,
		rng:           rng,
	}
	if ops.mutationProb == 0 {
		ops.mutationProb = 1 / float64(p.dim)
	}

	pop := make([]individual, cfg.PopulationSize)
	for i := range pop {
		w := make([]float64, p.dim)
		for j := range w {
			w[j] = rng.Float64()
		}
		pop[i] = p.evaluate(w)
	}

	for gen := 0; gen < cfg.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			return Result{}, fmt.Errorf("optimize generation %d: %w", gen, err)
		}
		offspring := ops.reproduce(pop, p)
		pop = s.survive(append(pop, offspring...), cfg.PopulationSize)
	}

	front := nonDominatedSort(pop)[0]
	res := Result{
		Solutions:  make([][]float64, len(front)),
		Objectives: make([][]float64, len(front)),
	}
	for i, idx := range front {
		ind := pop[idx]
		res.Solutions[i] = ind.x
		res.Objectives[i] = []float64{-ind.f[0], ind.f[1]}
	}
	best := cfg.Selector(res.Objectives)
	res.BestSolution = append([]float64(nil), res.Solutions[best]...)
	res.BestTotalStok = res.Objectives[best][0]
	res.BestMSE = res.Objectives[best][1]
	return res, nil
}

// individual is a decision vector and its minimization objectives
// (-total, mse).
type individual struct {
	x []float64
	f [2]float64
}

type problem struct {
	x   [][]float64
	y   []float64
	dim int
}

func newProblem(x [][]float64, y []float64) *problem {
	return &problem{x: x, y: y, dim: len(x[0])}
}

func (p *problem) evaluate(w []float64) individual {
	var total, sq float64
	for i, row := range p.x {
		var pred float64
		for j, v := range row {
			pred += w[j] * v
		}
		total += pred
		d := pred - p.y[i]
		sq += d * d
	}
	return individual{x: w, f: [2]float64{-total, sq / float64(len(p.x))}}
}

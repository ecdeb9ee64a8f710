// FishCast - Fisheries Stock Forecasting and Optimization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fishcast

package preprocess

import (
	"fmt"
	"math"
	"math/rand"
)

// SplitOptions configures TrainTestSplit.
type SplitOptions struct {
	// TestFraction is the share of samples held out for evaluation.
	// Default: 0.2.
	TestFraction float64

	// Seed drives the shuffle. Identical inputs and seed give identical splits.
	// Default: 42.
	Seed int64

	// MinSamples is the sample count below which the split is degenerate.
	// Default: 10.
	MinSamples int
}

// DefaultSplitOptions returns the standard 80/20 split seeded with 42.
func DefaultSplitOptions() SplitOptions {
	return SplitOptions{
		TestFraction: 0.2,
		Seed:         42,
		MinSamples:   10,
	}
}

// Split is a train/test partition. When Degenerate is set the train and
// test sets both equal the full input.
type Split struct {
	XTrain     [][]float64
	YTrain     []float64
	XTest      [][]float64
	YTest      []float64
	TrainIndex []int
	TestIndex  []int
	Degenerate bool
}

// TrainTestSplit partitions x and y. With fewer than MinSamples rows the
// split is degenerate; otherwise ceil(n*TestFraction) shuffled rows form
// the test set.
func TrainTestSplit(x [][]float64, y []float64, opts SplitOptions) (Split, error) {
	if len(x) != len(y) {
		return Split{}, fmt.Errorf("%w: %d rows in x, %d in y", ErrShape, len(x), len(y))
	}
	if opts.TestFraction <= 0 || opts.TestFraction >= 1 {
		return Split{}, fmt.Errorf("test fraction %v must be in (0, 1)", opts.TestFraction)
	}
	if opts.MinSamples <= 0 {
		opts.MinSamples = DefaultSplitOptions().MinSamples
	}

	n := len(x)
	if n < opts.MinSamples {
		all := make([]int, n)
		for i := range all {
			all[i] = i
		}
		return Split{
			XTrain:     x,
			YTrain:     y,
			XTest:      x,
			YTest:      y,
			TrainIndex: all,
			TestIndex:  all,
			Degenerate: true,
		}, nil
	}

	nTest := int(math.Ceil(float64(n) * opts.TestFraction))
	if nTest < 1 {
		nTest = 1
	}
	if nTest > n-1 {
		nTest = n - 1
	}

	//nolint:gosec // deterministic shuffle, not security sensitive
	perm := rand.New(rand.NewSource(opts.Seed)).Perm(n)

	s := Split{
		TestIndex:  perm[:nTest],
		TrainIndex: perm[nTest:],
	}
	s.XTest, s.YTest = gather(x, y, s.TestIndex)
	s.XTrain, s.YTrain = gather(x, y, s.TrainIndex)
	return s, nil
}

func gather(x [][]float64, y []float64, idx []int) ([][]float64, []float64) {
	xs := make([][]float64, len(idx))
	ys := make([]float64, len(idx))
	for i, j := range idx {
		xs[i] = x[j]
		ys[i] = y[j]
	}
	return xs, ys
}

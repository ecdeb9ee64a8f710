// FishCast - Fisheries Stock Forecasting and Optimization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fishcast

package optimize

// DefaultEpsilon keeps the ratio finite when mse is zero.
const DefaultEpsilon = 1e-6

// BestSelector returns the index of the preferred entry in objectives,
// where each entry is (total, mse). objectives is never empty.
type BestSelector func(objectives [][]float64) int

// RatioSelector picks the entry maximizing total/(mse+eps).
// Ties keep the earliest entry.
func RatioSelector(eps float64) BestSelector {
	return func(objectives [][]float64) int {
		best := 0
		bestScore := objectives[0][0] / (objectives[0][1] + eps)
		for i := 1; i < len(objectives); i++ {
			score := objectives[i][0] / (objectives[i][1] + eps)
			if score > bestScore {
				best, bestScore = i, score
			}
		}
		return best
	}
}

// referenceDirections returns n evenly spaced points on the two-objective
// unit simplex, from (0, 1) to (1, 0).
func referenceDirections(n int) [][]float64 {
	if n < 2 {
		return [][]float64{{0.5, 0.5}}
	}
	out := make([][]float64, n)
	for i := range out {
		a := float64(i) / float64(n-1)
		out[i] = []float64{a, 1 - a}
	}
	return out
}

// Mock returns the fixed result used when no search can run. The shape
// matches a real result so callers need no special case.
func Mock() Result {
	return Result{
		Solutions:     [][]float64{{0.1, 0.2, 0.3}, {0.4, 0.5, 0.6}},
		Objectives:    [][]float64{{10, 0.01}, {15, 0.02}},
		BestSolution:  []float64{0.1, 0.2, 0.3},
		BestTotalStok: 10,
		BestMSE:       0.01,
	}
}

// FishCast - Fisheries Stock Forecasting and Optimization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fishcast

// Package correlation computes pairwise Pearson correlation over the numeric
// columns of a dataset.
package correlation

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/tomtom215/fishcast/internal/forecast/dataset"
)

// Matrix maps column name to column name to coefficient in [-1, 1].
// It is symmetric with a diagonal of exactly 1.
type Matrix map[string]map[string]float64

// Result is the outcome of Analyze.
type Result struct {
	Matrix  Matrix   `json:"correlation_matrix"`
	Columns []string `json:"columns"`
	// Insufficient is set when fewer than two numeric columns or fewer
	// than two rows were available. Matrix still holds the diagonal.
	Insufficient bool `json:"insufficient_data"`
}

// Analyze correlates every pair of numeric columns. Non-numeric columns are
// dropped. Undefined coefficients (a constant column) are reported as 0.
func Analyze(ds *dataset.Dataset) Result {
	names := ds.NumericColumns()
	cols := make([][]float64, len(names))
	for i, name := range names {
		cols[i], _ = ds.Numeric(name)
	}
	return compute(names, cols, ds.Rows())
}

func compute(names []string, cols [][]float64, rows int) Result {
	res := Result{
		Matrix:       make(Matrix, len(names)),
		Columns:      append([]string{}, names...),
		Insufficient: len(names) < 2 || rows < 2,
	}
	for _, a := range names {
		res.Matrix[a] = make(map[string]float64, len(names))
		res.Matrix[a][a] = 1
	}
	if rows < 2 {
		for i, a := range names {
			for _, b := range names[i+1:] {
				res.Matrix[a][b] = 0
				res.Matrix[b][a] = 0
			}
		}
		return res
	}

	for i, a := range names {
		for j := i + 1; j < len(names); j++ {
			b := names[j]
			r := stat.Correlation(cols[i], cols[j], nil)
			if math.IsNaN(r) || math.IsInf(r, 0) {
				r = 0
			}
			r = math.Max(-1, math.Min(1, r))
			res.Matrix[a][b] = r
			res.Matrix[b][a] = r
		}
	}
	return res
}

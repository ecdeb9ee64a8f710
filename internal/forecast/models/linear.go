// FishCast - Fisheries Stock Forecasting and Optimization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fishcast

package models

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// rankTolerance is the relative singular value cutoff used to determine the
// effective rank of the design matrix.
const rankTolerance = 1e-12

// LinearEstimator fits ordinary least squares with an intercept.
// Rank-deficient designs yield the minimum-norm solution.
type LinearEstimator struct{}

// NewLinear returns a linear estimator.
func NewLinear() *LinearEstimator {
	return &LinearEstimator{}
}

// LinearModel holds fitted OLS coefficients.
type LinearModel struct {
	Intercept    float64
	Coefficients []float64
}

// Fit solves min ||A*beta - y|| where A is x with a leading column of ones.
func (LinearEstimator) Fit(ctx context.Context, x [][]float64, y []float64) (Predictor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n := len(x)
	if n == 0 {
		return nil, ErrNoSamples
	}
	if len(y) != n {
		return nil, fmt.Errorf("linear fit: %d rows but %d targets", n, len(y))
	}
	d := len(x[0])

	a := mat.NewDense(n, d+1, nil)
	for i, row := range x {
		if len(row) != d {
			return nil, fmt.Errorf("linear fit: row %d has %d features, want %d", i, len(row), d)
		}
		a.Set(i, 0, 1)
		for j, v := range row {
			a.Set(i, j+1, v)
		}
	}
	b := mat.NewVecDense(n, append([]float64(nil), y...))

	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil, ErrSingular
	}
	var beta mat.VecDense
	svd.SolveVecTo(&beta, b, svd.Rank(rankTolerance))

	m := &LinearModel{
		Intercept:    beta.AtVec(0),
		Coefficients: make([]float64, d),
	}
	for j := range m.Coefficients {
		m.Coefficients[j] = beta.AtVec(j + 1)
	}
	return m, nil
}

// Predict returns intercept + coefficients . row for every row.
func (m *LinearModel) Predict(x [][]float64) ([]float64, error) {
	out := make([]float64, len(x))
	for i, row := range x {
		if len(row) != len(m.Coefficients) {
			return nil, fmt.Errorf("linear predict: row %d has %d features, want %d", i, len(row), len(m.Coefficients))
		}
		v := m.Intercept
		for j, c := range m.Coefficients {
			v += c * row[j]
		}
		out[i] = v
	}
	return out, nil
}

// FishCast - Fisheries Stock Forecasting and Optimization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fishcast

package models

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// MSE returns mean((pred - actual)^2). Empty or mismatched inputs yield 0.
func MSE(pred, actual []float64) float64 {
	if len(pred) == 0 || len(pred) != len(actual) {
		return 0
	}
	d := floats.Distance(pred, actual, 2)
	return d * d / float64(len(pred))
}

// MAE returns mean(|pred - actual|). Empty or mismatched inputs yield 0.
func MAE(pred, actual []float64) float64 {
	if len(pred) == 0 || len(pred) != len(actual) {
		return 0
	}
	return floats.Distance(pred, actual, 1) / float64(len(pred))
}

// Finite reports whether every value is neither NaN nor infinite.
func Finite(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// FishCast - Fisheries Stock Forecasting and Optimization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fishcast

// Package preprocess holds the numeric transforms applied between loading
// a dataset and training: scaling, missing-value sanitising and the
// train/test split.
package preprocess

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ScalerKind selects the scaling transform.
type ScalerKind string

const (
	// MinMax maps each column onto [0, 1].
	MinMax ScalerKind = "minmax"
	// Standard centres each column and divides by its population standard deviation.
	Standard ScalerKind = "standard"
)

var (
	// ErrNotFitted is returned by Transform before Fit.
	ErrNotFitted = errors.New("scaler not fitted")

	// ErrShape is returned when a matrix does not match the fitted width.
	ErrShape = errors.New("matrix shape mismatch")
)

// Scaler is a per-column affine transform x' = (x - offset) / scale.
// Constant columns get scale 1 so they map to 0 instead of NaN.
type Scaler struct {
	kind   ScalerKind
	offset []float64
	scale  []float64
}

// NewScaler returns an unfitted scaler of the given kind.
func NewScaler(kind ScalerKind) (*Scaler, error) {
	switch kind {
	case MinMax, Standard:
		return &Scaler{kind: kind}, nil
	default:
		return nil, fmt.Errorf("unknown scaler %q", kind)
	}
}

// Kind returns the scaler's transform kind.
func (s *Scaler) Kind() ScalerKind {
	return s.kind
}

// Fit computes per-column statistics from x.
func (s *Scaler) Fit(x [][]float64) error {
	if len(x) == 0 {
		return fmt.Errorf("fit scaler: %w: no rows", ErrShape)
	}
	width := len(x[0])
	s.offset = make([]float64, width)
	s.scale = make([]float64, width)

	col := make([]float64, len(x))
	for j := 0; j < width; j++ {
		for i, row := range x {
			if len(row) != width {
				return fmt.Errorf("fit scaler: %w: row %d has %d columns, want %d", ErrShape, i, len(row), width)
			}
			col[i] = row[j]
		}

		var offset, scale float64
		switch s.kind {
		case MinMax:
			offset = floats.Min(col)
			scale = floats.Max(col) - offset
		case Standard:
			offset, scale = stat.PopMeanStdDev(col, nil)
		}
		if scale == 0 || math.IsNaN(scale) {
			scale = 1
		}
		s.offset[j] = offset
		s.scale[j] = scale
	}
	return nil
}

// Transform applies the fitted transform and returns a new matrix.
func (s *Scaler) Transform(x [][]float64) ([][]float64, error) {
	return s.apply(x, func(v, offset, scale float64) float64 {
		return (v - offset) / scale
	})
}

// InverseTransform maps scaled values back to original units.
func (s *Scaler) InverseTransform(x [][]float64) ([][]float64, error) {
	return s.apply(x, func(v, offset, scale float64) float64 {
		return v*scale + offset
	})
}

// FitTransform fits on x and returns the transformed copy.
func (s *Scaler) FitTransform(x [][]float64) ([][]float64, error) {
	if err := s.Fit(x); err != nil {
		return nil, err
	}
	return s.Transform(x)
}

func (s *Scaler) apply(x [][]float64, fn func(v, offset, scale float64) float64) ([][]float64, error) {
	if s.offset == nil {
		return nil, ErrNotFitted
	}
	out := make([][]float64, len(x))
	for i, row := range x {
		if len(row) != len(s.offset) {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrShape, i, len(row), len(s.offset))
		}
		scaled := make([]float64, len(row))
		for j, v := range row {
			scaled[j] = fn(v, s.offset[j], s.scale[j])
		}
		out[i] = scaled
	}
	return out, nil
}

// Column converts a vector into a single-column matrix.
func Column(v []float64) [][]float64 {
	out := make([][]float64, len(v))
	for i, x := range v {
		out[i] = []float64{x}
	}
	return out
}

// Flatten converts a single-column matrix back into a vector.
func Flatten(m [][]float64) []float64 {
	out := make([]float64, len(m))
	for i, row := range m {
		if len(row) > 0 {
			out[i] = row[0]
		}
	}
	return out
}

// Sanitize replaces NaN and infinite entries with fill, in place.
// It returns the number of replaced values.
func Sanitize(x [][]float64, fill float64) int {
	n := 0
	for _, row := range x {
		n += SanitizeVector(row, fill)
	}
	return n
}

// SanitizeVector replaces NaN and infinite entries with fill, in place.
func SanitizeVector(v []float64, fill float64) int {
	n := 0
	for i, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			v[i] = fill
			n++
		}
	}
	return n
}

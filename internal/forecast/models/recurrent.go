// FishCast - Fisheries Stock Forecasting and Optimization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fishcast

package models

import (
	"context"
	"fmt"
	"math"
	"math/rand"
)

// RecurrentEstimator trains a recurrent cell (or a forward/backward pair for
// BiLSTM) followed by a linear head.
type RecurrentEstimator struct {
	kind Kind
	opts TrainingOptions
}

func newRecurrent(kind Kind, opts TrainingOptions) *RecurrentEstimator {
	return &RecurrentEstimator{kind: kind, opts: opts}
}

// Kind returns the recurrent variant this estimator trains.
func (e *RecurrentEstimator) Kind() Kind {
	return e.kind
}

// RecurrentModel is a fitted recurrent predictor.
type RecurrentModel struct {
	kind  Kind
	in    int
	cells []cell
	head  *affine
}

func (e *RecurrentEstimator) build(in int) *RecurrentModel {
	//nolint:gosec // reproducible weight init, not security sensitive
	rng := rand.New(rand.NewSource(e.opts.Seed))
	h := e.opts.HiddenSize

	m := &RecurrentModel{kind: e.kind, in: in}
	switch e.kind {
	case RNN:
		m.cells = []cell{newRNNCell(in, h, rng)}
	case LSTM:
		m.cells = []cell{newLSTMCell(in, h, rng)}
	case GRU:
		m.cells = []cell{newGRUCell(in, h, rng)}
	case BiLSTM:
		m.cells = []cell{newLSTMCell(in, h, rng), newLSTMCell(in, h, rng)}
	}
	headIn := h * len(m.cells)
	m.head = newAffine(headIn, 1, 1/math.Sqrt(float64(headIn)), rng)
	return m
}

func (m *RecurrentModel) params() []*param {
	var ps []*param
	for _, c := range m.cells {
		ps = append(ps, c.params()...)
	}
	return append(ps, m.head.params()...)
}

// Fit trains full-batch with Adam on mean squared error for the configured
// number of epochs. Cancellation is checked between epochs.
func (e *RecurrentEstimator) Fit(ctx context.Context, x [][]float64, y []float64) (Predictor, error) {
	if err := e.opts.Validate(); err != nil {
		return nil, err
	}
	n := len(x)
	if n == 0 {
		return nil, ErrNoSamples
	}
	if len(y) != n {
		return nil, fmt.Errorf("%s fit: %d rows but %d targets", e.kind, n, len(y))
	}
	in := len(x[0])
	for i, row := range x {
		if len(row) != in {
			return nil, fmt.Errorf("%s fit: row %d has %d features, want %d", e.kind, i, len(row), in)
		}
	}

	m := e.build(in)
	opt := newAdam(m.params(), e.opts.LearningRate)

	for epoch := 0; epoch < e.opts.Epochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		opt.zeroGrad()
		loss := m.backprop(x, y)
		if math.IsNaN(loss) || math.IsInf(loss, 0) {
			return nil, fmt.Errorf("%s fit: %w at epoch %d", e.kind, ErrDiverged, epoch)
		}
		opt.step()
	}
	return m, nil
}

// backprop returns the mean squared error over x and accumulates its
// gradient into every parameter.
func (m *RecurrentModel) backprop(x [][]float64, y []float64) float64 {
	scale := 2 / float64(len(x))
	hidden := m.head.in / len(m.cells)
	caches := make([]any, len(m.cells))

	var loss float64
	for i, row := range x {
		feat := make([]float64, 0, m.head.in)
		for c, cl := range m.cells {
			h, cache := cl.forward(row)
			caches[c] = cache
			feat = append(feat, h...)
		}
		diff := m.head.forward(feat)[0] - y[i]
		loss += diff * diff

		dfeat := m.head.backward(feat, []float64{scale * diff})
		for c, cl := range m.cells {
			cl.backward(caches[c], dfeat[c*hidden:(c+1)*hidden])
		}
	}
	return loss / float64(len(x))
}

// Predict runs the forward pass for each row.
func (m *RecurrentModel) Predict(x [][]float64) ([]float64, error) {
	out := make([]float64, len(x))
	for i, row := range x {
		if len(row) != m.in {
			return nil, fmt.Errorf("%s predict: row %d has %d features, want %d", m.kind, i, len(row), m.in)
		}
		feat := make([]float64, 0, m.head.in)
		for _, c := range m.cells {
			h, _ := c.forward(row)
			feat = append(feat, h...)
		}
		out[i] = m.head.forward(feat)[0]
	}
	if !Finite(out) {
		return nil, fmt.Errorf("%s predict: %w", m.kind, ErrDiverged)
	}
	return out, nil
}

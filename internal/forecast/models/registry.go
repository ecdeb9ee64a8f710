// FishCast - Fisheries Stock Forecasting and Optimization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fishcast

package models

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNoSamples is returned when fitting on an empty training set.
	ErrNoSamples = errors.New("no training samples")

	// ErrDiverged is returned when training produces a non-finite loss.
	ErrDiverged = errors.New("training diverged")

	// ErrSingular is returned when the least squares system cannot be factorized.
	ErrSingular = errors.New("least squares factorization failed")
)

// Estimator fits a predictor to training data.
type Estimator interface {
	Fit(ctx context.Context, x [][]float64, y []float64) (Predictor, error)
}

// Predictor produces one scalar prediction per feature row.
type Predictor interface {
	Predict(x [][]float64) ([]float64, error)
}

// Capabilities describes which predictor families this process can train.
// It is fixed when the Registry is built.
type Capabilities struct {
	SequenceModels bool `json:"sequence_models"`
}

// TrainingOptions configures the recurrent predictors.
type TrainingOptions struct {
	Epochs       int
	LearningRate float64
	HiddenSize   int
	Seed         int64
}

// DefaultTrainingOptions returns 200 epochs at learning rate 0.001 with
// 32 hidden units.
func DefaultTrainingOptions() TrainingOptions {
	return TrainingOptions{
		Epochs:       200,
		LearningRate: 0.001,
		HiddenSize:   32,
		Seed:         42,
	}
}

// Validate checks the options are usable.
func (o TrainingOptions) Validate() error {
	if o.Epochs < 1 {
		return fmt.Errorf("epochs must be at least 1, got %d", o.Epochs)
	}
	if o.LearningRate <= 0 {
		return fmt.Errorf("learning rate must be positive, got %v", o.LearningRate)
	}
	if o.HiddenSize < 1 {
		return fmt.Errorf("hidden size must be at least 1, got %d", o.HiddenSize)
	}
	return nil
}

// Resolution is the outcome of mapping a requested model name onto a kind.
type Resolution struct {
	Requested string
	Kind      Kind
	// Fallback is set when Kind is Linear because the requested name is
	// unknown or its kind is not available.
	Fallback bool
	Reason   string
}

// Registry resolves model names and constructs estimators.
type Registry struct {
	caps Capabilities
	opts TrainingOptions
}

// NewRegistry creates a registry for the given capabilities.
func NewRegistry(caps Capabilities, opts TrainingOptions) *Registry {
	return &Registry{caps: caps, opts: opts}
}

// Capabilities returns the registry's fixed capabilities.
func (r *Registry) Capabilities() Capabilities {
	return r.caps
}

// Available reports whether kind can be trained by this registry.
func (r *Registry) Available(kind Kind) bool {
	if kind == Linear {
		return true
	}
	return r.caps.SequenceModels && kind >= RNN && kind <= BiLSTM
}

// AvailableKinds returns the trainable kinds in declaration order.
func (r *Registry) AvailableKinds() []Kind {
	var out []Kind
	for _, k := range AllKinds() {
		if r.Available(k) {
			out = append(out, k)
		}
	}
	return out
}

// Resolve maps a requested name onto a trainable kind. Unknown names and
// unavailable kinds resolve to Linear with Fallback set.
func (r *Registry) Resolve(name string) Resolution {
	res := Resolution{Requested: name}
	kind, ok := ParseKind(name)
	switch {
	case !ok:
		res.Kind = Linear
		res.Fallback = true
		res.Reason = "unknown model"
	case !r.Available(kind):
		res.Kind = Linear
		res.Fallback = true
		res.Reason = "sequence models unavailable"
	default:
		res.Kind = kind
	}
	return res
}

// Estimator returns a fresh estimator for kind. Kinds the registry cannot
// train yield the Linear estimator.
func (r *Registry) Estimator(kind Kind) Estimator {
	if !r.Available(kind) {
		return NewLinear()
	}
	switch kind {
	case RNN, LSTM, GRU, BiLSTM:
		return newRecurrent(kind, r.opts)
	default:
		return NewLinear()
	}
}

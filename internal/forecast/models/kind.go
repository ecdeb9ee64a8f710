// FishCast - Fisheries Stock Forecasting and Optimization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fishcast

/*
Package models provides the trainable predictors used by the forecast engine.

The set of predictors is closed: every supported algorithm is a Kind, and
names that do not parse to a Kind are resolved to Linear by the Registry.

# Predictors

  - Linear: ordinary least squares with intercept, solved through a thin SVD
  - RNN, LSTM, GRU: single-layer recurrent cell followed by a linear head
  - BiLSTM: forward and backward LSTM cells whose hidden states are concatenated

Recurrent predictors treat each feature vector as a sequence of length one
and are trained full-batch with Adam on mean squared error.

# Capabilities

A Registry is built with a Capabilities value that fixes, for the life of the
process, which kinds can be trained. With SequenceModels disabled only Linear
is available and every other request resolves to it.
*/
package models

import (
	"strings"
)

// Kind identifies a predictor algorithm.
type Kind int

const (
	Linear Kind = iota
	RNN
	LSTM
	GRU
	BiLSTM
)

var kindNames = [...]string{
	Linear: "Linear",
	RNN:    "RNN",
	LSTM:   "LSTM",
	GRU:    "GRU",
	BiLSTM: "BiLSTM",
}

// String returns the canonical model name.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Unknown"
	}
	return kindNames[k]
}

// Sequence reports whether the kind is a recurrent predictor.
func (k Kind) Sequence() bool {
	return k != Linear
}

// AllKinds returns every supported kind in declaration order.
func AllKinds() []Kind {
	return []Kind{Linear, RNN, LSTM, GRU, BiLSTM}
}

// ParseKind maps a model name onto a Kind. Matching ignores case and
// surrounding whitespace.
func ParseKind(name string) (Kind, bool) {
	name = strings.TrimSpace(name)
	for i, n := range kindNames {
		if strings.EqualFold(n, name) {
			return Kind(i), true
		}
	}
	return Linear, false
}

// FishCast - Fisheries Stock Forecasting and Optimization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fishcast

package models

import (
	"math"
	"math/rand"
)

// param is a trainable tensor with its gradient and Adam moment estimates.
type param struct {
	w, g, m, v []float64
}

func newParam(n int, bound float64, rng *rand.Rand) *param {
	p := &param{
		w: make([]float64, n),
		g: make([]float64, n),
		m: make([]float64, n),
		v: make([]float64, n),
	}
	for i := range p.w {
		p.w[i] = (2*rng.Float64() - 1) * bound
	}
	return p
}

// adam implements the Adam update with bias correction.
type adam struct {
	params []*param
	lr     float64
	beta1  float64
	beta2  float64
	eps    float64
	t      int
}

func newAdam(params []*param, lr float64) *adam {
	return &adam{params: params, lr: lr, beta1: 0.9, beta2: 0.999, eps: 1e-8}
}

func (a *adam) zeroGrad() {
	for _, p := range a.params {
		for i := range p.g {
			p.g[i] = 0
		}
	}
}

func (a *adam) step() {
	a.t++
	c1 := 1 - math.Pow(a.beta1, float64(a.t))
	c2 := 1 - math.Pow(a.beta2, float64(a.t))
	for _, p := range a.params {
		for i, g := range p.g {
			p.m[i] = a.beta1*p.m[i] + (1-a.beta1)*g
			p.v[i] = a.beta2*p.v[i] + (1-a.beta2)*g*g
			mHat := p.m[i] / c1
			vHat := p.v[i] / c2
			p.w[i] -= a.lr * mHat / (math.Sqrt(vHat) + a.eps)
		}
	}
}

// affine computes W*x + b with W stored row-major as out x in.
type affine struct {
	in, out int
	weight  *param
	bias    *param
}

func newAffine(in, out int, bound float64, rng *rand.Rand) *affine {
	return &affine{
		in:     in,
		out:    out,
		weight: newParam(in*out, bound, rng),
		bias:   newParam(out, bound, rng),
	}
}

func (l *affine) params() []*param {
	return []*param{l.weight, l.bias}
}

func (l *affine) forward(x []float64) []float64 {
	y := make([]float64, l.out)
	for o := 0; o < l.out; o++ {
		s := l.bias.w[o]
		row := l.weight.w[o*l.in : (o+1)*l.in]
		for i, xi := range x {
			s += row[i] * xi
		}
		y[o] = s
	}
	return y
}

// backward accumulates parameter gradients for upstream gradient dy and
// returns the gradient with respect to x.
func (l *affine) backward(x, dy []float64) []float64 {
	dx := make([]float64, l.in)
	for o, g := range dy {
		if g == 0 {
			continue
		}
		l.bias.g[o] += g
		base := o * l.in
		for i, xi := range x {
			l.weight.g[base+i] += g * xi
			dx[i] += g * l.weight.w[base+i]
		}
	}
	return dx
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

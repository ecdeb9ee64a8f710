// FishCast - Fisheries Stock Forecasting and Optimization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fishcast

package models

import (
	"math"
	"math/rand"
)

// cell is one recurrent step from a zero initial state. Every sample is a
// sequence of length one, so a single step is the whole forward pass.
type cell interface {
	forward(x []float64) (h []float64, cache any)
	backward(cache any, dh []float64)
	params() []*param
}

// gated holds the input and hidden projections shared by every cell type.
// Gate pre-activations are stacked as gates*hidden rows.
type gated struct {
	hidden int
	input  *affine
	state  *affine
	h0     []float64
}

func newGated(in, hidden, gates int, rng *rand.Rand) gated {
	bound := 1 / math.Sqrt(float64(hidden))
	return gated{
		hidden: hidden,
		input:  newAffine(in, gates*hidden, bound, rng),
		state:  newAffine(hidden, gates*hidden, bound, rng),
		h0:     make([]float64, hidden),
	}
}

func (g *gated) params() []*param {
	return append(g.input.params(), g.state.params()...)
}

func (g *gated) project(x []float64) (ix, hh []float64) {
	return g.input.forward(x), g.state.forward(g.h0)
}

func (g *gated) backprop(x, dix, dhh []float64) {
	g.input.backward(x, dix)
	g.state.backward(g.h0, dhh)
}

// rnnCell is an Elman cell: h = tanh(W_ih x + b_ih + W_hh h0 + b_hh).
type rnnCell struct{ gated }

type rnnCache struct {
	x, h []float64
}

func newRNNCell(in, hidden int, rng *rand.Rand) *rnnCell {
	return &rnnCell{newGated(in, hidden, 1, rng)}
}

func (c *rnnCell) forward(x []float64) ([]float64, any) {
	ix, hh := c.project(x)
	h := make([]float64, c.hidden)
	for k := range h {
		h[k] = math.Tanh(ix[k] + hh[k])
	}
	return h, &rnnCache{x: x, h: h}
}

func (c *rnnCell) backward(cache any, dh []float64) {
	cc := cache.(*rnnCache)
	dpre := make([]float64, c.hidden)
	for k := range dpre {
		dpre[k] = dh[k] * (1 - cc.h[k]*cc.h[k])
	}
	c.backprop(cc.x, dpre, dpre)
}

// lstmCell uses gate order input, forget, cell, output.
type lstmCell struct{ gated }

type lstmCache struct {
	x          []float64
	i, f, g, o []float64
	tc         []float64
}

func newLSTMCell(in, hidden int, rng *rand.Rand) *lstmCell {
	return &lstmCell{newGated(in, hidden, 4, rng)}
}

func (c *lstmCell) forward(x []float64) ([]float64, any) {
	ix, hh := c.project(x)
	n := c.hidden
	cc := &lstmCache{
		x:  x,
		i:  make([]float64, n),
		f:  make([]float64, n),
		g:  make([]float64, n),
		o:  make([]float64, n),
		tc: make([]float64, n),
	}
	h := make([]float64, n)
	for k := 0; k < n; k++ {
		cc.i[k] = sigmoid(ix[k] + hh[k])
		cc.f[k] = sigmoid(ix[n+k] + hh[n+k])
		cc.g[k] = math.Tanh(ix[2*n+k] + hh[2*n+k])
		cc.o[k] = sigmoid(ix[3*n+k] + hh[3*n+k])
		// c0 is zero, so the forget gate does not contribute to the cell state.
		cc.tc[k] = math.Tanh(cc.i[k] * cc.g[k])
		h[k] = cc.o[k] * cc.tc[k]
	}
	return h, cc
}

func (c *lstmCell) backward(cache any, dh []float64) {
	cc := cache.(*lstmCache)
	n := c.hidden
	dpre := make([]float64, 4*n)
	for k := 0; k < n; k++ {
		do := dh[k] * cc.tc[k]
		dc := dh[k] * cc.o[k] * (1 - cc.tc[k]*cc.tc[k])
		di := dc * cc.g[k]
		dg := dc * cc.i[k]
		dpre[k] = di * cc.i[k] * (1 - cc.i[k])
		dpre[n+k] = 0
		dpre[2*n+k] = dg * (1 - cc.g[k]*cc.g[k])
		dpre[3*n+k] = do * cc.o[k] * (1 - cc.o[k])
	}
	c.backprop(cc.x, dpre, dpre)
}

// gruCell uses gate order reset, update, new. The reset gate scales the
// hidden projection of the new gate including its bias.
type gruCell struct{ gated }

type gruCache struct {
	x       []float64
	r, z, n []float64
	hn      []float64
}

func newGRUCell(in, hidden int, rng *rand.Rand) *gruCell {
	return &gruCell{newGated(in, hidden, 3, rng)}
}

func (c *gruCell) forward(x []float64) ([]float64, any) {
	ix, hh := c.project(x)
	size := c.hidden
	cc := &gruCache{
		x:  x,
		r:  make([]float64, size),
		z:  make([]float64, size),
		n:  make([]float64, size),
		hn: make([]float64, size),
	}
	h := make([]float64, size)
	for k := 0; k < size; k++ {
		cc.r[k] = sigmoid(ix[k] + hh[k])
		cc.z[k] = sigmoid(ix[size+k] + hh[size+k])
		cc.hn[k] = hh[2*size+k]
		cc.n[k] = math.Tanh(ix[2*size+k] + cc.r[k]*cc.hn[k])
		h[k] = (1-cc.z[k])*cc.n[k] + cc.z[k]*c.h0[k]
	}
	return h, cc
}

func (c *gruCell) backward(cache any, dh []float64) {
	cc := cache.(*gruCache)
	size := c.hidden
	dix := make([]float64, 3*size)
	dhh := make([]float64, 3*size)
	for k := 0; k < size; k++ {
		dn := dh[k] * (1 - cc.z[k])
		dz := dh[k] * (c.h0[k] - cc.n[k])
		dpreN := dn * (1 - cc.n[k]*cc.n[k])
		dr := dpreN * cc.hn[k]
		dpreR := dr * cc.r[k] * (1 - cc.r[k])
		dpreZ := dz * cc.z[k] * (1 - cc.z[k])

		dix[k], dhh[k] = dpreR, dpreR
		dix[size+k], dhh[size+k] = dpreZ, dpreZ
		dix[2*size+k] = dpreN
		dhh[2*size+k] = dpreN * cc.r[k]
	}
	c.backprop(cc.x, dix, dhh)
}

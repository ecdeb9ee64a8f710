// FishCast - Fisheries Stock Forecasting and Optimization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fishcast

package optimize

import (
	"math"
	"math/rand"
)

// operators produces offspring by simulated binary crossover followed by
// polynomial mutation. Variables are bounded to [0, 1].
type operators struct {
	crossoverProb float64
	crossoverEta  float64
	mutationEta   float64
	mutationProb  float64
	rng           *rand.Rand
}

// reproduce returns len(pop) evaluated offspring from randomly paired parents.
func (o operators) reproduce(pop []individual, p *problem) []individual {
	out := make([]individual, 0, len(pop))
	for len(out) < len(pop) {
		a := pop[o.rng.Intn(len(pop))].x
		b := pop[o.rng.Intn(len(pop))].x
		c1, c2 := o.crossover(a, b)
		o.mutate(c1)
		out = append(out, p.evaluate(c1))
		if len(out) < len(pop) {
			o.mutate(c2)
			out = append(out, p.evaluate(c2))
		}
	}
	return out
}

func (o operators) crossover(a, b []float64) ([]float64, []float64) {
	c1 := append([]float64(nil), a...)
	c2 := append([]float64(nil), b...)
	if o.rng.Float64() > o.crossoverProb {
		return c1, c2
	}
	for j := range c1 {
		if o.rng.Float64() > 0.5 || math.Abs(a[j]-b[j]) <= 1e-14 {
			continue
		}
		c1[j], c2[j] = sbx(a[j], b[j], o.crossoverEta, o.rng.Float64())
		if o.rng.Float64() < 0.5 {
			c1[j], c2[j] = c2[j], c1[j]
		}
	}
	return c1, c2
}

// sbx recombines one variable pair within [0, 1] using spread factor u.
func sbx(a, b, eta, u float64) (float64, float64) {
	y1, y2 := math.Min(a, b), math.Max(a, b)
	span := y2 - y1
	exp := 1 / (eta + 1)

	betaq := func(beta float64) float64 {
		alpha := 2 - math.Pow(beta, -(eta+1))
		if u <= 1/alpha {
			return math.Pow(u*alpha, exp)
		}
		return math.Pow(1/(2-u*alpha), exp)
	}

	c1 := 0.5 * ((y1 + y2) - betaq(1+2*y1/span)*span)
	c2 := 0.5 * ((y1 + y2) + betaq(1+2*(1-y2)/span)*span)
	return clamp01(c1), clamp01(c2)
}

func (o operators) mutate(x []float64) {
	exp := 1 / (o.mutationEta + 1)
	for j, v := range x {
		if o.rng.Float64() >= o.mutationProb {
			continue
		}
		u := o.rng.Float64()
		var dq float64
		if u < 0.5 {
			val := 2*u + (1-2*u)*math.Pow(1-v, o.mutationEta+1)
			dq = math.Pow(val, exp) - 1
		} else {
			val := 2*(1-u) + 2*(u-0.5)*math.Pow(v, o.mutationEta+1)
			dq = 1 - math.Pow(val, exp)
		}
		x[j] = clamp01(v + dq)
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

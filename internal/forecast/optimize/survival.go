// FishCast - Fisheries Stock Forecasting and Optimization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fishcast

package optimize

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

const nObjectives = 2

// survival selects the next generation by non-dominated rank, then by
// reference-direction niching within the last admitted front.
type survival struct {
	refs [][]float64
	rng  *rand.Rand
}

func (s *survival) survive(pop []individual, n int) []individual {
	fronts := nonDominatedSort(pop)

	var chosen []int
	var last []int
	for _, front := range fronts {
		if len(chosen)+len(front) > n {
			last = front
			break
		}
		chosen = append(chosen, front...)
		if len(chosen) == n {
			break
		}
	}

	if len(last) > 0 {
		candidates := append(append([]int(nil), chosen...), last...)
		norm := normalize(pop, candidates)
		ref, dist := s.associate(norm)
		chosen = s.niche(chosen, last, ref, dist, n-len(chosen))
	}

	next := make([]individual, len(chosen))
	for i, idx := range chosen {
		next[i] = pop[idx]
	}
	return next
}

// dominates reports whether a is no worse than b everywhere and strictly
// better somewhere.
func dominates(a, b [2]float64) bool {
	better := false
	for k := 0; k < nObjectives; k++ {
		if a[k] > b[k] {
			return false
		}
		if a[k] < b[k] {
			better = true
		}
	}
	return better
}

// nonDominatedSort returns indices of pop grouped into Pareto fronts,
// best front first.
func nonDominatedSort(pop []individual) [][]int {
	n := len(pop)
	dominatedBy := make([]int, n)
	dominating := make([][]int, n)

	var fronts [][]int
	var current []int
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			switch {
			case dominates(pop[i].f, pop[j].f):
				dominating[i] = append(dominating[i], j)
				dominatedBy[j]++
			case dominates(pop[j].f, pop[i].f):
				dominating[j] = append(dominating[j], i)
				dominatedBy[i]++
			}
		}
	}
	for i := 0; i < n; i++ {
		if dominatedBy[i] == 0 {
			current = append(current, i)
		}
	}
	for len(current) > 0 {
		fronts = append(fronts, current)
		var next []int
		for _, i := range current {
			for _, j := range dominating[i] {
				dominatedBy[j]--
				if dominatedBy[j] == 0 {
					next = append(next, j)
				}
			}
		}
		current = next
	}
	return fronts
}

// normalize maps the objectives of idx onto the unit simplex using the ideal
// point and the intercepts of the hyperplane through the extreme points.
// The nadir of idx replaces the intercepts when the hyperplane is degenerate.
// The returned map is keyed by population index.
func normalize(pop []individual, idx []int) map[int][2]float64 {
	var ideal, nadir [2]float64
	for k := 0; k < nObjectives; k++ {
		ideal[k] = math.Inf(1)
		nadir[k] = math.Inf(-1)
	}
	for _, i := range idx {
		for k := 0; k < nObjectives; k++ {
			ideal[k] = math.Min(ideal[k], pop[i].f[k])
			nadir[k] = math.Max(nadir[k], pop[i].f[k])
		}
	}

	translated := make(map[int][2]float64, len(idx))
	for _, i := range idx {
		var t [2]float64
		for k := 0; k < nObjectives; k++ {
			t[k] = pop[i].f[k] - ideal[k]
		}
		translated[i] = t
	}

	extremes := mat.NewDense(nObjectives, nObjectives, nil)
	for axis := 0; axis < nObjectives; axis++ {
		best, bestASF := -1, math.Inf(1)
		for _, i := range idx {
			asf := 0.0
			for k, v := range translated[i] {
				w := 1e-6
				if k == axis {
					w = 1
				}
				asf = math.Max(asf, v/w)
			}
			if asf < bestASF {
				best, bestASF = i, asf
			}
		}
		row := translated[best]
		extremes.SetRow(axis, row[:])
	}

	intercepts := hyperplaneIntercepts(extremes)
	for k := range intercepts {
		if intercepts[k] <= 1e-6 || math.IsNaN(intercepts[k]) || math.IsInf(intercepts[k], 0) {
			intercepts = []float64{nadir[0] - ideal[0], nadir[1] - ideal[1]}
			break
		}
	}
	for k := range intercepts {
		if intercepts[k] <= 1e-10 {
			intercepts[k] = 1
		}
	}

	out := make(map[int][2]float64, len(idx))
	for i, t := range translated {
		out[i] = [2]float64{t[0] / intercepts[0], t[1] / intercepts[1]}
	}
	return out
}

// hyperplaneIntercepts solves E*a = 1 and returns 1/a per axis, or nil when
// E is singular.
func hyperplaneIntercepts(extremes *mat.Dense) []float64 {
	ones := mat.NewVecDense(nObjectives, []float64{1, 1})
	var a mat.VecDense
	if err := a.SolveVec(extremes, ones); err != nil {
		return []float64{math.NaN(), math.NaN()}
	}
	out := make([]float64, nObjectives)
	for k := range out {
		out[k] = 1 / a.AtVec(k)
	}
	return out
}

// associate links every normalized point to its nearest reference direction
// by perpendicular distance.
func (s *survival) associate(norm map[int][2]float64) (map[int]int, map[int]float64) {
	ref := make(map[int]int, len(norm))
	dist := make(map[int]float64, len(norm))
	for i, p := range norm {
		best, bestD := 0, math.Inf(1)
		for j, w := range s.refs {
			if d := perpendicularDistance(p, w); d < bestD {
				best, bestD = j, d
			}
		}
		ref[i] = best
		dist[i] = bestD
	}
	return ref, dist
}

func perpendicularDistance(p [2]float64, w []float64) float64 {
	wn := w[0]*w[0] + w[1]*w[1]
	if wn == 0 {
		return math.Hypot(p[0], p[1])
	}
	t := (p[0]*w[0] + p[1]*w[1]) / wn
	return math.Hypot(p[0]-t*w[0], p[1]-t*w[1])
}

// niche admits k members of last, preferring reference directions with the
// fewest already-chosen members.
func (s *survival) niche(chosen, last []int, ref map[int]int, dist map[int]float64, k int) []int {
	count := make([]int, len(s.refs))
	for _, i := range chosen {
		count[ref[i]]++
	}

	pool := make(map[int][]int)
	for _, i := range last {
		pool[ref[i]] = append(pool[ref[i]], i)
	}
	excluded := make([]bool, len(s.refs))

	for ; k > 0; k-- {
		var ties []int
		minCount := math.MaxInt
		for j := range s.refs {
			if excluded[j] {
				continue
			}
			if len(pool[j]) == 0 {
				excluded[j] = true
				continue
			}
			switch {
			case count[j] < minCount:
				minCount = count[j]
				ties = []int{j}
			case count[j] == minCount:
				ties = append(ties, j)
			}
		}
		if len(ties) == 0 {
			break
		}
		j := ties[s.rng.Intn(len(ties))]

		members := pool[j]
		pick := s.rng.Intn(len(members))
		if count[j] == 0 {
			for m, i := range members {
				if dist[i] < dist[members[pick]] {
					pick = m
				}
			}
		}
		chosen = append(chosen, members[pick])
		pool[j] = append(members[:pick], members[pick+1:]...)
		count[j]++
	}
	return chosen
}

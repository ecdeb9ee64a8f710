// FishCast - Fisheries Stock Forecasting and Optimization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fishcast

package preprocess

import (
	"errors"
	"math"
	"reflect"
	"sort"
	"testing"
)

func sampleMatrix(n int) ([][]float64, []float64) {
	x := make([][]float64, n)
	y := make([]float64, n)
	for i := range x {
		x[i] = []float64{float64(i), float64(i*i) - 3, 7}
		y[i] = float64(100 + 10*i)
	}
	return x, y
}

func TestScalerRoundTrip(t *testing.T) {
	t.Parallel()

	x, _ := sampleMatrix(15)
	for _, kind := range []ScalerKind{MinMax, Standard} {
		t.Run(string(kind), func(t *testing.T) {
			t.Parallel()
			s, err := NewScaler(kind)
			if err != nil {
				t.Fatalf("NewScaler() error = %v", err)
			}
			scaled, err := s.FitTransform(x)
			if err != nil {
				t.Fatalf("FitTransform() error = %v", err)
			}
			back, err := s.InverseTransform(scaled)
			if err != nil {
				t.Fatalf("InverseTransform() error = %v", err)
			}
			for i := range x {
				for j := range x[i] {
					if math.Abs(back[i][j]-x[i][j]) > 1e-9 {
						t.Errorf("round trip [%d][%d] = %v, want %v", i, j, back[i][j], x[i][j])
					}
				}
			}
			for i := range scaled {
				if scaled[i][2] != 0 {
					t.Errorf("constant column scaled to %v, want 0", scaled[i][2])
				}
			}
		})
	}
}

func TestMinMaxRange(t *testing.T) {
	t.Parallel()

	x, _ := sampleMatrix(12)
	s, _ := NewScaler(MinMax)
	scaled, err := s.FitTransform(x)
	if err != nil {
		t.Fatalf("FitTransform() error = %v", err)
	}
	for j := 0; j < 2; j++ {
		lo, hi := math.Inf(1), math.Inf(-1)
		for i := range scaled {
			lo = math.Min(lo, scaled[i][j])
			hi = math.Max(hi, scaled[i][j])
		}
		if lo != 0 || hi != 1 {
			t.Errorf("column %d range = [%v, %v], want [0, 1]", j, lo, hi)
		}
	}
}

func TestScalerErrors(t *testing.T) {
	t.Parallel()

	if _, err := NewScaler("robust"); err == nil {
		t.Error("NewScaler(robust) should fail")
	}

	s, _ := NewScaler(MinMax)
	if _, err := s.Transform([][]float64{{1}}); !errors.Is(err, ErrNotFitted) {
		t.Errorf("Transform() before Fit error = %v, want ErrNotFitted", err)
	}
	if err := s.Fit(nil); !errors.Is(err, ErrShape) {
		t.Errorf("Fit(nil) error = %v, want ErrShape", err)
	}
	if err := s.Fit([][]float64{{1, 2}, {3}}); !errors.Is(err, ErrShape) {
		t.Errorf("Fit(ragged) error = %v, want ErrShape", err)
	}
	if err := s.Fit([][]float64{{1, 2}, {3, 4}}); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	if _, err := s.Transform([][]float64{{1}}); !errors.Is(err, ErrShape) {
		t.Errorf("Transform(narrow) error = %v, want ErrShape", err)
	}
}

func TestSanitize(t *testing.T) {
	t.Parallel()

	x := [][]float64{{1, math.NaN()}, {math.Inf(1), 4}, {math.Inf(-1), 6}}
	if n := Sanitize(x, 0); n != 3 {
		t.Errorf("Sanitize() replaced %d, want 3", n)
	}
	want := [][]float64{{1, 0}, {0, 4}, {0, 6}}
	if !reflect.DeepEqual(x, want) {
		t.Errorf("Sanitize() = %v, want %v", x, want)
	}
}

func TestColumnFlatten(t *testing.T) {
	t.Parallel()

	v := []float64{1, 2, 3}
	if got := Flatten(Column(v)); !reflect.DeepEqual(got, v) {
		t.Errorf("Flatten(Column(v)) = %v, want %v", got, v)
	}
}

func TestTrainTestSplit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		rows           int
		wantTest       int
		wantDegenerate bool
	}{
		{name: "empty", rows: 0, wantTest: 0, wantDegenerate: true},
		{name: "below threshold", rows: 9, wantTest: 9, wantDegenerate: true},
		{name: "at threshold", rows: 10, wantTest: 2},
		{name: "twelve rows", rows: 12, wantTest: 3},
		{name: "hundred rows", rows: 100, wantTest: 20},
		{name: "odd count", rows: 37, wantTest: 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			x, y := sampleMatrix(tt.rows)
			s, err := TrainTestSplit(x, y, DefaultSplitOptions())
			if err != nil {
				t.Fatalf("TrainTestSplit() error = %v", err)
			}
			if s.Degenerate != tt.wantDegenerate {
				t.Errorf("Degenerate = %v, want %v", s.Degenerate, tt.wantDegenerate)
			}
			if len(s.XTest) != tt.wantTest || len(s.YTest) != tt.wantTest {
				t.Errorf("test size = (%d, %d), want %d", len(s.XTest), len(s.YTest), tt.wantTest)
			}
			if len(s.XTrain) != len(s.YTrain) {
				t.Errorf("train size mismatch: %d vs %d", len(s.XTrain), len(s.YTrain))
			}
			if tt.wantDegenerate {
				if len(s.XTrain) != tt.rows {
					t.Errorf("degenerate train size = %d, want %d", len(s.XTrain), tt.rows)
				}
				return
			}
			if math.Abs(float64(len(s.XTest))-0.2*float64(tt.rows)) > 1 {
				t.Errorf("test size %d not within 1 of %v", len(s.XTest), 0.2*float64(tt.rows))
			}

			all := append(append([]int(nil), s.TrainIndex...), s.TestIndex...)
			sort.Ints(all)
			for i, v := range all {
				if v != i {
					t.Fatalf("split indices do not partition the input: %v", all)
				}
			}
			for i, idx := range s.TestIndex {
				if s.YTest[i] != y[idx] {
					t.Errorf("YTest[%d] = %v, want y[%d] = %v", i, s.YTest[i], idx, y[idx])
				}
			}
		})
	}
}

func TestTrainTestSplitDeterministic(t *testing.T) {
	t.Parallel()

	x, y := sampleMatrix(50)
	a, err := TrainTestSplit(x, y, DefaultSplitOptions())
	if err != nil {
		t.Fatalf("TrainTestSplit() error = %v", err)
	}
	b, _ := TrainTestSplit(x, y, DefaultSplitOptions())
	if !reflect.DeepEqual(a.TestIndex, b.TestIndex) {
		t.Errorf("same seed produced different splits: %v vs %v", a.TestIndex, b.TestIndex)
	}

	opts := DefaultSplitOptions()
	opts.Seed = 7
	c, _ := TrainTestSplit(x, y, opts)
	if reflect.DeepEqual(a.TestIndex, c.TestIndex) {
		t.Error("different seeds should produce different splits")
	}
}

func TestTrainTestSplitErrors(t *testing.T) {
	t.Parallel()

	x, y := sampleMatrix(12)
	if _, err := TrainTestSplit(x, y[:5], DefaultSplitOptions()); !errors.Is(err, ErrShape) {
		t.Errorf("mismatched lengths error = %v, want ErrShape", err)
	}
	opts := DefaultSplitOptions()
	opts.TestFraction = 1.5
	if _, err := TrainTestSplit(x, y, opts); err == nil {
		t.Error("test fraction outside (0, 1) should fail")
	}
}

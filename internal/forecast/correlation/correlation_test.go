// FishCast - Fisheries Stock Forecasting and Optimization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fishcast

package correlation

import (
	"math"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/fishcast/internal/forecast/dataset"
)

func load(content string) *dataset.Dataset {
	return dataset.NewLoader(dataset.LoaderOptions{}, zerolog.Nop()).Parse([]byte(content))
}

func TestAnalyze(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		content          string
		wantColumns      int
		wantInsufficient bool
		check            func(t *testing.T, m Matrix)
	}{
		{
			name:        "perfect correlations",
			content:     "a,b,c,label\n1,2,9,x\n2,4,8,y\n3,6,7,z\n4,8,6,w\n",
			wantColumns: 3,
			check: func(t *testing.T, m Matrix) {
				if math.Abs(m["a"]["b"]-1) > 1e-12 {
					t.Errorf("corr(a, b) = %v, want 1", m["a"]["b"])
				}
				if math.Abs(m["a"]["c"]+1) > 1e-12 {
					t.Errorf("corr(a, c) = %v, want -1", m["a"]["c"])
				}
				if _, ok := m["label"]; ok {
					t.Error("text column must be dropped")
				}
			},
		},
		{
			name:        "constant column reports zero",
			content:     "a,k\n1,5\n2,5\n3,5\n",
			wantColumns: 2,
			check: func(t *testing.T, m Matrix) {
				if m["a"]["k"] != 0 {
					t.Errorf("corr(a, k) = %v, want 0", m["a"]["k"])
				}
			},
		},
		{
			name:             "single numeric column",
			content:          "species,stok_ikan\ntuna,1\ncod,2\n",
			wantColumns:      1,
			wantInsufficient: true,
		},
		{
			name:             "single row",
			content:          "a,b\n1,2\n",
			wantColumns:      2,
			wantInsufficient: true,
			check: func(t *testing.T, m Matrix) {
				if m["a"]["b"] != 0 {
					t.Errorf("corr(a, b) = %v, want 0", m["a"]["b"])
				}
			},
		},
		{
			name:             "no numeric columns",
			content:          "name\nalpha\nbeta\n",
			wantColumns:      0,
			wantInsufficient: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res := Analyze(load(tt.content))
			if len(res.Matrix) != tt.wantColumns || len(res.Columns) != tt.wantColumns {
				t.Fatalf("matrix has %d columns, want %d", len(res.Matrix), tt.wantColumns)
			}
			if res.Insufficient != tt.wantInsufficient {
				t.Errorf("Insufficient = %v, want %v", res.Insufficient, tt.wantInsufficient)
			}
			for a, row := range res.Matrix {
				if row[a] != 1.0 {
					t.Errorf("diagonal [%s][%s] = %v, want 1", a, a, row[a])
				}
				if len(row) != tt.wantColumns {
					t.Errorf("row %s has %d entries, want %d", a, len(row), tt.wantColumns)
				}
				for b, v := range row {
					if res.Matrix[b][a] != v {
						t.Errorf("matrix not symmetric at (%s, %s)", a, b)
					}
					if v < -1 || v > 1 {
						t.Errorf("[%s][%s] = %v out of range", a, b, v)
					}
				}
			}
			if tt.check != nil {
				tt.check(t, res.Matrix)
			}
		})
	}
}

// FishCast - Fisheries Stock Forecasting and Optimization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fishcast

package forecast

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/fishcast/internal/forecast/models"
	"github.com/tomtom215/fishcast/internal/forecast/optimize"
)

// stockCSV builds a bulan,jenis_ikan,stok_ikan dataset with n monthly rows.
func stockCSV(n int) string {
	var b strings.Builder
	b.WriteString("bulan,jenis_ikan,stok_ikan\n")
	stock := []int{100, 110, 118, 131, 140, 152, 160, 171, 180, 188, 197, 205}
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "%d,tuna,%d\n", i%12+1, stock[i%12]+(i/12)*3)
	}
	return b.String()
}

func writeDataset(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
	return path
}

func testConfig(t *testing.T) Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.DatasetDir = t.TempDir()
	cfg.Training.Epochs = 20
	cfg.Training.HiddenSize = 8
	cfg.Optimizer.PopulationSize = 10
	cfg.Optimizer.Generations = 5
	return cfg
}

func newTestEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	e, err := NewEngine(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

func TestPredictSplitSizes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		rows           int
		minSamples     int
		wantActual     int
		wantDegenerate bool
	}{
		{name: "nine rows use every row", rows: 9, wantActual: 9, wantDegenerate: true},
		{name: "twelve rows hold out a fifth", rows: 12, wantActual: 3},
		{name: "twelve rows below a raised threshold", rows: 12, minSamples: 13, wantActual: 12, wantDegenerate: true},
		{name: "forty rows", rows: 40, wantActual: 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := testConfig(t)
			if tt.minSamples > 0 {
				cfg.Split.MinSamples = tt.minSamples
			}
			path := writeDataset(t, cfg.DatasetDir, "stock.csv", stockCSV(tt.rows))

			out, err := newTestEngine(t, cfg).Predict(context.Background(), path, []string{"Linear"})
			if err != nil {
				t.Fatalf("Predict() error = %v", err)
			}
			res, ok := out.Results["Linear"]
			if !ok {
				t.Fatalf("missing Linear result: %v", out.Results)
			}
			if len(res.ActualValues) != tt.wantActual || len(res.Predictions) != tt.wantActual {
				t.Errorf("actual/predictions length = %d/%d, want %d", len(res.ActualValues), len(res.Predictions), tt.wantActual)
			}
			if out.Degenerate != tt.wantDegenerate {
				t.Errorf("Degenerate = %v, want %v", out.Degenerate, tt.wantDegenerate)
			}
			if res.MSE < 0 || res.MAE < 0 || math.IsNaN(res.MSE) {
				t.Errorf("metrics = (%v, %v), want non-negative", res.MSE, res.MAE)
			}
			if out.Spec.Target != "stok_ikan" || out.Spec.Features[0] != "bulan" {
				t.Errorf("spec = %+v, want stok_ikan from bulan", out.Spec)
			}
		})
	}
}

func TestPredictIdempotent(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	path := writeDataset(t, cfg.DatasetDir, "stock.csv", stockCSV(30))
	e := newTestEngine(t, cfg)

	a, err := e.Predict(context.Background(), path, []string{"Linear"})
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	b, _ := e.Predict(context.Background(), path, []string{"Linear"})
	if a.Results["Linear"].MSE != b.Results["Linear"].MSE || a.Results["Linear"].MAE != b.Results["Linear"].MAE {
		t.Errorf("repeated predict differs: %+v vs %+v", a.Results["Linear"], b.Results["Linear"])
	}
}

func TestPredictUnknownModelMatchesLinear(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	path := writeDataset(t, cfg.DatasetDir, "stock.csv", stockCSV(24))
	e := newTestEngine(t, cfg)

	linear, err := e.Predict(context.Background(), path, []string{"Linear"})
	if err != nil {
		t.Fatalf("Predict(Linear) error = %v", err)
	}
	unknown, err := e.Predict(context.Background(), path, []string{"UnknownModelName"})
	if err != nil {
		t.Fatalf("Predict(UnknownModelName) error = %v", err)
	}

	got, ok := unknown.Results["UnknownModelName"]
	if !ok {
		t.Fatalf("result not keyed by requested name: %v", unknown.Results)
	}
	want := linear.Results["Linear"]
	if got.MSE != want.MSE || got.MAE != want.MAE {
		t.Errorf("fallback metrics = (%v, %v), want (%v, %v)", got.MSE, got.MAE, want.MSE, want.MAE)
	}
	if got.ModelName != "UnknownModelName" {
		t.Errorf("ModelName = %q", got.ModelName)
	}
	if got.Fallback == "" || got.TrainedWith != models.Linear {
		t.Errorf("fallback not recorded: %+v", got)
	}
}

func TestPredictMultipleModels(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	path := writeDataset(t, cfg.DatasetDir, "stock.csv", stockCSV(20))

	out, err := newTestEngine(t, cfg).Predict(context.Background(), path,
		[]string{"Linear", "RNN", "LSTM", "GRU", "BiLSTM", "Transformer", "LSTM", ""})
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	wantOrder := []string{"Linear", "RNN", "LSTM", "GRU", "BiLSTM", "Transformer"}
	if strings.Join(out.Models, ",") != strings.Join(wantOrder, ",") {
		t.Errorf("Models = %v, want %v", out.Models, wantOrder)
	}
	for _, name := range wantOrder {
		res, ok := out.Results[name]
		if !ok {
			t.Errorf("missing result for %s", name)
			continue
		}
		if len(res.Predictions) != 4 || len(res.ActualValues) != 4 {
			t.Errorf("%s: lengths = %d/%d, want 4", name, len(res.Predictions), len(res.ActualValues))
		}
		if !models.Finite(res.Predictions) {
			t.Errorf("%s: non-finite predictions %v", name, res.Predictions)
		}
	}
	if out.Results["GRU"].TrainedWith != models.GRU {
		t.Errorf("GRU trained with %v", out.Results["GRU"].TrainedWith)
	}
	if out.Results["Transformer"].TrainedWith != models.Linear {
		t.Errorf("Transformer trained with %v, want Linear", out.Results["Transformer"].TrainedWith)
	}
}

func TestPredictReducedCapabilities(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.Capabilities.SequenceModels = false
	path := writeDataset(t, cfg.DatasetDir, "stock.csv", stockCSV(15))

	out, err := newTestEngine(t, cfg).Predict(context.Background(), path, []string{"LSTM", "Linear"})
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	lstm := out.Results["LSTM"]
	if lstm.TrainedWith != models.Linear || lstm.Fallback == "" {
		t.Errorf("LSTM result = %+v, want Linear fallback", lstm)
	}
	if lstm.MSE != out.Results["Linear"].MSE {
		t.Errorf("fallback MSE %v differs from Linear %v", lstm.MSE, out.Results["Linear"].MSE)
	}
}

func TestPredictDefaultModels(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	path := writeDataset(t, cfg.DatasetDir, "stock.csv", stockCSV(12))

	out, err := newTestEngine(t, cfg).Predict(context.Background(), path, nil)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if len(out.Results) != 1 {
		t.Fatalf("Results = %v, want only Linear", out.Results)
	}
	if _, ok := out.Results["Linear"]; !ok {
		t.Error("default model should be Linear")
	}
}

func TestPredictScaleScopeTrain(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.ScaleScope = ScaleTrain
	path := writeDataset(t, cfg.DatasetDir, "stock.csv", stockCSV(25))

	out, err := newTestEngine(t, cfg).Predict(context.Background(), path, []string{"Linear"})
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if got := len(out.Results["Linear"].ActualValues); got != 5 {
		t.Errorf("test size = %d, want 5", got)
	}
}

func TestPredictErrors(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	e := newTestEngine(t, cfg)

	_, err := e.Predict(context.Background(), filepath.Join(cfg.DatasetDir, "missing.csv"), nil)
	if !errors.Is(err, ErrIO) {
		t.Errorf("missing file error = %v, want ErrIO", err)
	}

	path := writeDataset(t, cfg.DatasetDir, "text.csv", "name,species\nalpha,tuna\nbeta,cod\n")
	_, err = e.Predict(context.Background(), path, nil)
	if !errors.Is(err, ErrSchemaResolution) {
		t.Errorf("text-only dataset error = %v, want ErrSchemaResolution", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	path = writeDataset(t, cfg.DatasetDir, "stock.csv", stockCSV(12))
	if _, err := e.Predict(ctx, path, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled predict error = %v, want context.Canceled", err)
	}
}

func TestPredictWithEnrichment(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.Enrich.DeriveMonthNormalized = true
	cfg.Enrich.OneHotColumns = []string{"jenis_ikan"}
	var b strings.Builder
	b.WriteString("Tahun,Bulan,jenis_ikan,stok_ikan\n")
	for i := 0; i < 14; i++ {
		species := "tuna"
		if i%2 == 1 {
			species = "cakalang"
		}
		fmt.Fprintf(&b, "2024,%d,%s,%d\n", i%12+1, species, 100+i*7)
	}
	path := writeDataset(t, cfg.DatasetDir, "enriched.csv", b.String())

	e := newTestEngine(t, cfg)
	out, err := e.Predict(context.Background(), path, nil)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	wantFeatures := []string{"bulan_normalized", "jenis_ikan_cakalang", "jenis_ikan_tuna"}
	if strings.Join(out.Spec.Features, ",") != strings.Join(wantFeatures, ",") {
		t.Errorf("features = %v, want %v", out.Spec.Features, wantFeatures)
	}

	res, err := e.Correlate(context.Background(), path)
	if err != nil {
		t.Fatalf("Correlate() error = %v", err)
	}
	wantColumns := []string{"jenis_ikan_cakalang", "jenis_ikan_tuna", "stok_ikan", "bulan_normalized"}
	if strings.Join(res.Columns, ",") != strings.Join(wantColumns, ",") {
		t.Errorf("correlation columns = %v, want %v", res.Columns, wantColumns)
	}
	if _, ok := res.Matrix["Tahun"]; ok {
		t.Error("correlation should not include columns dropped by enrichment")
	}
}

func TestCorrelate(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	e := newTestEngine(t, cfg)

	path := writeDataset(t, cfg.DatasetDir, "stock.csv", stockCSV(12))
	res, err := e.Correlate(context.Background(), path)
	if err != nil {
		t.Fatalf("Correlate() error = %v", err)
	}
	if res.Insufficient {
		t.Error("two numeric columns should be sufficient")
	}
	if res.Matrix["bulan"]["bulan"] != 1 || res.Matrix["stok_ikan"]["stok_ikan"] != 1 {
		t.Errorf("diagonal not 1: %v", res.Matrix)
	}
	if res.Matrix["bulan"]["stok_ikan"] != res.Matrix["stok_ikan"]["bulan"] {
		t.Error("matrix not symmetric")
	}
	if res.Matrix["bulan"]["stok_ikan"] < 0.9 {
		t.Errorf("corr(bulan, stok_ikan) = %v, want strongly positive", res.Matrix["bulan"]["stok_ikan"])
	}

	single := writeDataset(t, cfg.DatasetDir, "single.csv", "stok_ikan\n1\n2\n")
	res, err = e.Correlate(context.Background(), single)
	if err != nil {
		t.Fatalf("Correlate() error = %v", err)
	}
	if !res.Insufficient || res.Matrix["stok_ikan"]["stok_ikan"] != 1 {
		t.Errorf("single column result = %+v", res)
	}

	if _, err := e.Correlate(context.Background(), filepath.Join(cfg.DatasetDir, "nope.csv")); !errors.Is(err, ErrIO) {
		t.Errorf("missing file error = %v, want ErrIO", err)
	}
}

func TestOptimize(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	e := newTestEngine(t, cfg)
	path := writeDataset(t, cfg.DatasetDir, "stock.csv", stockCSV(12))

	res, err := e.Optimize(context.Background(), path, OptimizeOptions{PopulationSize: 10, Generations: 5})
	if err != nil {
		t.Fatalf("Optimize() error = %v", err)
	}
	if len(res.Solutions) != len(res.Objectives) {
		t.Errorf("len(solutions) = %d, len(objectives) = %d", len(res.Solutions), len(res.Objectives))
	}
	for i, obj := range res.Objectives {
		if len(obj) != 2 {
			t.Errorf("objectives[%d] = %v, want a pair", i, obj)
		}
	}
	if res.Degraded != "" {
		t.Errorf("unexpected degraded result: %s", res.Degraded)
	}
}

func TestOptimizeOverrides(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	e := newTestEngine(t, cfg)
	path := writeDataset(t, cfg.DatasetDir, "stock.csv", stockCSV(12))

	tests := []OptimizeOptions{
		{PopulationSize: 1},
		{PopulationSize: cfg.MaxPopulation + 1},
		{Generations: -1},
		{Generations: cfg.MaxGenerations + 1},
	}
	for _, opts := range tests {
		if _, err := e.Optimize(context.Background(), path, opts); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("Optimize(%+v) error = %v, want ErrInvalidParameter", opts, err)
		}
	}
}

func TestOptimizeDisabled(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	cfg.Optimizer.Disabled = true
	path := writeDataset(t, cfg.DatasetDir, "stock.csv", stockCSV(12))

	res, err := newTestEngine(t, cfg).Optimize(context.Background(), path, OptimizeOptions{})
	if err != nil {
		t.Fatalf("Optimize() error = %v", err)
	}
	mock := optimize.Mock()
	if res.BestTotalStok != mock.BestTotalStok || len(res.Solutions) != len(mock.Solutions) || res.Degraded == "" {
		t.Errorf("Optimize() = %+v, want mock result", res)
	}
}

func TestDatasetPath(t *testing.T) {
	t.Parallel()

	cfg := testConfig(t)
	e := newTestEngine(t, cfg)
	writeDataset(t, cfg.DatasetDir, "stock.csv", stockCSV(3))
	if err := os.Mkdir(filepath.Join(cfg.DatasetDir, "sub"), 0o700); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"existing file", "stock.csv", nil},
		{"missing file", "other.csv", ErrDatasetNotFound},
		{"directory", "sub", ErrDatasetNotFound},
		{"parent traversal", "../stock.csv", ErrInvalidDatasetName},
		{"nested path", "sub/stock.csv", ErrInvalidDatasetName},
		{"dot dot", "..", ErrInvalidDatasetName},
		{"empty", "", ErrInvalidDatasetName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := e.DatasetPath(tt.input)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("DatasetPath() error = %v", err)
				}
				if filepath.Dir(path) != filepath.Clean(cfg.DatasetDir) {
					t.Errorf("path %s escapes %s", path, cfg.DatasetDir)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("DatasetPath(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"empty dataset dir", func(c *Config) { c.DatasetDir = "" }},
		{"test fraction zero", func(c *Config) { c.Split.TestFraction = 0 }},
		{"min samples one", func(c *Config) { c.Split.MinSamples = 1 }},
		{"unknown scaler", func(c *Config) { c.Scaler = "robust" }},
		{"unknown scope", func(c *Config) { c.ScaleScope = "test" }},
		{"zero epochs", func(c *Config) { c.Training.Epochs = 0 }},
		{"zero population", func(c *Config) { c.Optimizer.PopulationSize = 0 }},
		{"max below default", func(c *Config) { c.MaxGenerations = 10 }},
	}
	base := DefaultConfig()
	if err := base.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() error = %v", err)
	}
	for _, tt := range tests {
		cfg := base.Clone()
		tt.modify(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: Validate() should fail", tt.name)
		}
	}
}

func TestConfigClone(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Enrich.OneHotColumns = []string{"jenis_ikan"}
	clone := cfg.Clone()
	clone.DefaultModels[0] = "LSTM"
	clone.Enrich.OneHotColumns[0] = "other"
	if cfg.DefaultModels[0] != "Linear" || cfg.Enrich.OneHotColumns[0] != "jenis_ikan" {
		t.Error("Clone() shares slices with the original")
	}
}

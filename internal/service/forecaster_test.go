// FishCast - Fisheries Stock Forecasting and Optimization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fishcast

package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/tomtom215/fishcast/internal/forecast"
	"github.com/tomtom215/fishcast/internal/jobs"
	"github.com/tomtom215/fishcast/internal/storage"
)

func stockCSV(n int) string {
	var b strings.Builder
	b.WriteString("bulan,jenis_ikan,stok_ikan\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "%d,tuna,%d\n", i%12+1, 100+i*7)
	}
	return b.String()
}

func newTestForecaster(t *testing.T) (*Forecaster, *storage.Store) {
	t.Helper()
	cfg := forecast.DefaultConfig()
	cfg.DatasetDir = t.TempDir()
	cfg.Training.Epochs = 10
	cfg.Training.HiddenSize = 4
	cfg.Optimizer.PopulationSize = 8
	cfg.Optimizer.Generations = 3
	if err := os.WriteFile(filepath.Join(cfg.DatasetDir, "stock.csv"), []byte(stockCSV(20)), 0o600); err != nil {
		t.Fatal(err)
	}

	engine, err := forecast.NewEngine(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	store, err := storage.Open(storage.Config{InMemory: true}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return NewForecaster(engine, store, zerolog.Nop()), store
}

func TestForecasterPredict(t *testing.T) {
	t.Parallel()
	f, store := newTestForecaster(t)
	ctx := context.Background()

	resp, err := f.Predict(ctx, "stock.csv", []string{"Linear", "LSTM", "Linear"})
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if resp.PredictionsCreated != 2 || len(resp.ModelsTrained) != 2 {
		t.Errorf("created %d, trained %v; want 2 of each", resp.PredictionsCreated, resp.ModelsTrained)
	}
	if resp.Message != "Successfully ran predictions for 2 models" {
		t.Errorf("Message = %q", resp.Message)
	}
	if resp.TargetColumn != "stok_ikan" {
		t.Errorf("TargetColumn = %q, want stok_ikan", resp.TargetColumn)
	}
	if _, ok := resp.Results["LSTM"]; !ok {
		t.Errorf("Results missing LSTM: %v", resp.Results)
	}

	stored, err := store.BatchPredictions(ctx, resp.BatchID)
	if err != nil {
		t.Fatalf("BatchPredictions() error = %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("stored %d records, want 2", len(stored))
	}
	if stored[0].Dataset != "stock.csv" || stored[0].ModelType != "Linear" {
		t.Errorf("first record = %+v", stored[0])
	}
}

func TestForecasterCorrelate(t *testing.T) {
	t.Parallel()
	f, store := newTestForecaster(t)
	ctx := context.Background()

	resp, err := f.Correlate(ctx, "stock.csv")
	if err != nil {
		t.Fatalf("Correlate() error = %v", err)
	}
	if resp.Insufficient || len(resp.Columns) != 2 {
		t.Errorf("result = %+v, want two numeric columns", resp.Result)
	}
	rec, err := store.GetCorrelation(ctx, resp.ID)
	if err != nil {
		t.Fatalf("GetCorrelation() error = %v", err)
	}
	if rec.Dataset != "stock.csv" {
		t.Errorf("Dataset = %q", rec.Dataset)
	}
}

func TestForecasterOptimize(t *testing.T) {
	t.Parallel()
	f, store := newTestForecaster(t)
	ctx := context.Background()

	resp, err := f.Optimize(ctx, "stock.csv", forecast.OptimizeOptions{Generations: 2})
	if err != nil {
		t.Fatalf("Optimize() error = %v", err)
	}
	if len(resp.BestSolution) != 1 || len(resp.Solutions) == 0 {
		t.Errorf("result = %+v", resp.Result)
	}
	if _, err := store.GetOptimization(ctx, resp.ID); err != nil {
		t.Errorf("GetOptimization() error = %v", err)
	}

	_, err = f.Optimize(ctx, "stock.csv", forecast.OptimizeOptions{PopulationSize: 1})
	if !errors.Is(err, forecast.ErrInvalidParameter) {
		t.Errorf("Optimize(population 1) error = %v, want ErrInvalidParameter", err)
	}
}

func TestForecasterOptimizeDegradedWarnsOnce(t *testing.T) {
	t.Parallel()

	cfg := forecast.DefaultConfig()
	cfg.DatasetDir = t.TempDir()
	cfg.Optimizer.Disabled = true
	if err := os.WriteFile(filepath.Join(cfg.DatasetDir, "stock.csv"), []byte(stockCSV(12)), 0o600); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	engine, err := forecast.NewEngine(cfg, logger)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	store, err := storage.Open(storage.Config{InMemory: true}, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	f := NewForecaster(engine, store, logger)

	ctx := context.Background()
	resp, err := f.Optimize(ctx, "stock.csv", forecast.OptimizeOptions{})
	if err != nil {
		t.Fatalf("Optimize() error = %v", err)
	}
	if resp.Degraded == "" {
		t.Fatalf("Degraded = %q, want a reason", resp.Degraded)
	}
	rec, err := store.GetOptimization(ctx, resp.ID)
	if err != nil {
		t.Fatalf("GetOptimization() error = %v", err)
	}
	if rec.Result.Degraded != resp.Degraded {
		t.Errorf("stored Degraded = %q, want %q", rec.Result.Degraded, resp.Degraded)
	}
	if got := strings.Count(buf.String(), `"level":"warn"`); got != 1 {
		t.Errorf("warn events = %d, want 1\n%s", got, buf.String())
	}
}

func TestForecasterDatasetErrors(t *testing.T) {
	t.Parallel()
	f, _ := newTestForecaster(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		dataset string
		want    error
	}{
		{name: "missing", dataset: "absent.csv", want: forecast.ErrDatasetNotFound},
		{name: "traversal", dataset: "../stock.csv", want: forecast.ErrInvalidDatasetName},
		{name: "empty", dataset: "", want: forecast.ErrInvalidDatasetName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.Predict(ctx, tt.dataset, nil); !errors.Is(err, tt.want) {
				t.Errorf("Predict(%q) error = %v, want %v", tt.dataset, err, tt.want)
			}
			if _, err := f.Correlate(ctx, tt.dataset); !errors.Is(err, tt.want) {
				t.Errorf("Correlate(%q) error = %v, want %v", tt.dataset, err, tt.want)
			}
		})
	}
}

func TestForecasterExecute(t *testing.T) {
	t.Parallel()
	f, _ := newTestForecaster(t)
	ctx := context.Background()

	out, err := f.Execute(ctx, jobs.Request{Operation: jobs.OpPredict, Dataset: "stock.csv", Models: []string{"Linear"}})
	if err != nil {
		t.Fatalf("Execute(predict) error = %v", err)
	}
	if _, ok := out.(*PredictResponse); !ok {
		t.Errorf("Execute(predict) returned %T", out)
	}

	out, err = f.Execute(ctx, jobs.Request{Operation: jobs.OpCorrelate, Dataset: "stock.csv"})
	if err != nil {
		t.Fatalf("Execute(correlate) error = %v", err)
	}
	if _, ok := out.(*CorrelateResponse); !ok {
		t.Errorf("Execute(correlate) returned %T", out)
	}

	if _, err := f.Execute(ctx, jobs.Request{Operation: "train", Dataset: "stock.csv"}); !errors.Is(err, jobs.ErrUnknownOperation) {
		t.Errorf("Execute(train) error = %v, want ErrUnknownOperation", err)
	}
}

func TestForecasterAvailableModels(t *testing.T) {
	t.Parallel()
	f, _ := newTestForecaster(t)

	got := f.AvailableModels()
	if len(got) == 0 || got[0] != "Linear" {
		t.Errorf("AvailableModels() = %v, want Linear first", got)
	}
}

// FishCast - Fisheries Stock Forecasting and Optimization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fishcast

package forecast

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/fishcast/internal/forecast/correlation"
	"github.com/tomtom215/fishcast/internal/forecast/dataset"
	"github.com/tomtom215/fishcast/internal/forecast/models"
	"github.com/tomtom215/fishcast/internal/forecast/optimize"
	"github.com/tomtom215/fishcast/internal/forecast/preprocess"
	"github.com/tomtom215/fishcast/internal/metrics"
)

// Engine composes loading, resolution, scaling, training, correlation and
// optimization into the three public operations. It holds no per-call
// state and is safe for concurrent use.
type Engine struct {
	cfg      Config
	loader   *dataset.Loader
	registry *models.Registry
	trainer  *Trainer
	base     zerolog.Logger
	logger   zerolog.Logger
}

// NewEngine validates cfg and builds an engine.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewEngine(cfg Config, logger zerolog.Logger) (*Engine, error) {
	cfg = cfg.Clone()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid forecast config: %w", err)
	}
	cfg.Training.Seed = cfg.Split.Seed

	registry := models.NewRegistry(cfg.Capabilities, cfg.Training)
	loader := dataset.NewLoader(dataset.LoaderOptions{
		FillValue: cfg.FillValue,
		CacheSize: cfg.DatasetCacheSize,
		CacheTTL:  cfg.DatasetCacheTTL,
	}, logger)
	return &Engine{
		cfg:      cfg,
		loader:   loader,
		registry: registry,
		trainer:  NewTrainer(registry, logger),
		base:     logger,
		logger:   logger.With().Str("component", "forecast_engine").Logger(),
	}, nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg.Clone()
}

// Registry returns the model registry.
func (e *Engine) Registry() *models.Registry {
	return e.registry
}

// DatasetPath resolves a dataset name inside the dataset directory.
// Names containing path separators or parent references are rejected.
func (e *Engine) DatasetPath(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidDatasetName, name)
	}
	path := filepath.Join(e.cfg.DatasetDir, name)
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrDatasetNotFound, name)
		}
		return "", &dataset.IOError{Path: path, Err: err}
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ErrDatasetNotFound, name)
	}
	return path, nil
}

// Predictions is the outcome of Predict.
type Predictions struct {
	// Results is keyed by the requested model names.
	Results map[string]PredictionResult
	// Models lists the requested names in request order without duplicates.
	Models     []string
	Spec       dataset.FeatureSpec
	Rows       int
	Degenerate bool
}

// Predict trains each named model on the dataset at path and returns one
// result per name. An empty list uses the configured default models.
// Unreadable files and datasets without numeric columns return an error;
// per-model failures degrade to Linear and never fail the call.
func (e *Engine) Predict(ctx context.Context, path string, modelNames []string) (*Predictions, error) {
	start := time.Now()
	names := dedupe(modelNames)
	if len(names) == 0 {
		names = append([]string(nil), e.cfg.DefaultModels...)
	}

	ds, spec, err := e.prepare(ctx, path)
	if err != nil {
		return nil, err
	}
	x, y := ds.Matrix(spec)
	preprocess.Sanitize(x, e.cfg.FillValue)
	preprocess.SanitizeVector(y, e.cfg.FillValue)

	data, err := e.trainingData(x, y)
	if err != nil {
		return nil, fmt.Errorf("prepare training data: %w", err)
	}

	out := &Predictions{
		Results:    make(map[string]PredictionResult, len(names)),
		Models:     names,
		Spec:       spec,
		Rows:       ds.Rows(),
		Degenerate: data.Split.Degenerate,
	}
	for _, name := range names {
		res, err := e.trainer.Train(ctx, name, data)
		if err != nil {
			return nil, err
		}
		out.Results[name] = res
	}

	e.logger.Info().
		Str("dataset", filepath.Base(path)).
		Strs("models", names).
		Str("target", spec.Target).
		Strs("features", spec.Features).
		Int("rows", ds.Rows()).
		Bool("degenerate_split", data.Split.Degenerate).
		Dur("duration", time.Since(start)).
		Msg("Prediction complete")
	return out, nil
}

// trainingData scales and splits the feature matrix and fits the target scaler.
func (e *Engine) trainingData(x [][]float64, y []float64) (TrainingData, error) {
	scaler, err := preprocess.NewScaler(e.cfg.Scaler)
	if err != nil {
		return TrainingData{}, err
	}

	var split preprocess.Split
	switch e.cfg.ScaleScope {
	case ScaleTrain:
		split, err = preprocess.TrainTestSplit(x, y, e.cfg.Split)
		if err != nil {
			return TrainingData{}, err
		}
		if len(split.XTrain) > 0 {
			if split.XTrain, err = scaler.FitTransform(split.XTrain); err != nil {
				return TrainingData{}, err
			}
			if split.XTest, err = scaler.Transform(split.XTest); err != nil {
				return TrainingData{}, err
			}
		}
	default:
		scaled := x
		if len(x) > 0 {
			if scaled, err = scaler.FitTransform(x); err != nil {
				return TrainingData{}, err
			}
		}
		split, err = preprocess.TrainTestSplit(scaled, y, e.cfg.Split)
		if err != nil {
			return TrainingData{}, err
		}
	}

	data := TrainingData{Split: split}
	if len(y) > 0 {
		target, _ := preprocess.NewScaler(preprocess.MinMax)
		if err := target.Fit(preprocess.Column(y)); err != nil {
			return TrainingData{}, err
		}
		data.TargetScaler = target
	}
	return data, nil
}

// Correlate computes the Pearson correlation matrix over the numeric
// columns of the enriched dataset at path. Too few numeric columns or rows
// yield a result with Insufficient set rather than an error.
func (e *Engine) Correlate(ctx context.Context, path string) (correlation.Result, error) {
	ds, err := e.load(ctx, path)
	if err != nil {
		metrics.RecordCorrelation(false, err)
		return correlation.Result{}, fmt.Errorf("correlate: %w", err)
	}
	res := correlation.Analyze(ds)
	metrics.RecordCorrelation(res.Insufficient, nil)
	if res.Insufficient {
		e.logger.Warn().
			Str("dataset", filepath.Base(path)).
			Int("numeric_columns", len(res.Columns)).
			Int("rows", ds.Rows()).
			Msg("Insufficient data for correlation")
	}
	return res, nil
}

// OptimizeOptions overrides the search size for one call. Zero values use
// the configured defaults.
type OptimizeOptions struct {
	PopulationSize int
	Generations    int
}

// Optimize runs the evolutionary weight search on the dataset at path.
// The search uses the sanitised, unscaled feature matrix.
func (e *Engine) Optimize(ctx context.Context, path string, opts OptimizeOptions) (optimize.Result, error) {
	cfg, err := e.optimizerConfig(opts)
	if err != nil {
		return optimize.Result{}, err
	}

	ds, spec, err := e.prepare(ctx, path)
	if err != nil {
		return optimize.Result{}, err
	}
	x, y := ds.Matrix(spec)
	preprocess.Sanitize(x, e.cfg.FillValue)
	preprocess.SanitizeVector(y, e.cfg.FillValue)

	start := time.Now()
	res, err := optimize.New(cfg, e.base).Run(ctx, x, y)
	if err != nil {
		return optimize.Result{}, fmt.Errorf("optimize: %w", err)
	}
	metrics.RecordOptimization(time.Since(start), res.Degraded != "")

	e.logger.Info().
		Str("dataset", filepath.Base(path)).
		Int("population", cfg.PopulationSize).
		Int("generations", cfg.Generations).
		Int("solutions", len(res.Solutions)).
		Float64("best_total_stok", res.BestTotalStok).
		Float64("best_mse", res.BestMSE).
		Dur("duration", time.Since(start)).
		Msg("Optimization complete")
	return res, nil
}

func (e *Engine) optimizerConfig(opts OptimizeOptions) (optimize.Config, error) {
	cfg := e.cfg.Optimizer
	if opts.PopulationSize != 0 {
		if opts.PopulationSize < 2 || opts.PopulationSize > e.cfg.MaxPopulation {
			return cfg, fmt.Errorf("%w: population size %d outside [2, %d]", ErrInvalidParameter, opts.PopulationSize, e.cfg.MaxPopulation)
		}
		cfg.PopulationSize = opts.PopulationSize
		if cfg.ReferencePoints > cfg.PopulationSize {
			cfg.ReferencePoints = 0
		}
	}
	if opts.Generations != 0 {
		if opts.Generations < 1 || opts.Generations > e.cfg.MaxGenerations {
			return cfg, fmt.Errorf("%w: generations %d outside [1, %d]", ErrInvalidParameter, opts.Generations, e.cfg.MaxGenerations)
		}
		cfg.Generations = opts.Generations
	}
	return cfg, nil
}

// load reads the dataset at path and applies the configured enrichment.
func (e *Engine) load(ctx context.Context, path string) (*dataset.Dataset, error) {
	ds, err := e.loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	return dataset.Enrich(ds, e.cfg.Enrich), nil
}

// prepare loads, enriches and resolves the dataset at path.
func (e *Engine) prepare(ctx context.Context, path string) (*dataset.Dataset, dataset.FeatureSpec, error) {
	ds, err := e.load(ctx, path)
	if err != nil {
		return nil, dataset.FeatureSpec{}, fmt.Errorf("load dataset: %w", err)
	}
	spec, err := dataset.Resolve(ds)
	if err != nil {
		return nil, dataset.FeatureSpec{}, fmt.Errorf("resolve columns: %w", err)
	}
	e.logger.Debug().
		Str("target", spec.Target).
		Str("target_rule", string(spec.TargetRule)).
		Strs("features", spec.Features).
		Str("feature_rule", string(spec.FeatureRule)).
		Msg("Columns resolved")
	return ds, spec, nil
}

// dedupe drops blank and repeated names, keeping first occurrence order.
func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	var out []string
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

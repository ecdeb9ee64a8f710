// FishCast - Fisheries Stock Forecasting and Optimization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fishcast

package forecast

import (
	"fmt"
	"time"

	"github.com/tomtom215/fishcast/internal/forecast/dataset"
	"github.com/tomtom215/fishcast/internal/forecast/models"
	"github.com/tomtom215/fishcast/internal/forecast/optimize"
	"github.com/tomtom215/fishcast/internal/forecast/preprocess"
)

// ScaleScope selects which rows the feature scaler is fitted on.
type ScaleScope string

const (
	// ScaleFull fits the scaler on every row before splitting. Test-set
	// statistics leak into the scaling; this reproduces historical results.
	ScaleFull ScaleScope = "full"

	// ScaleTrain fits the scaler on the training partition only.
	ScaleTrain ScaleScope = "train"
)

// Config holds engine configuration.
type Config struct {
	// DatasetDir is the directory dataset names are resolved in.
	DatasetDir string

	// FillValue replaces missing and non-finite numeric values.
	// Default: 0.
	FillValue float64

	// DatasetCacheSize is the number of parsed files the loader keeps.
	// Zero disables the cache. Default: 32.
	DatasetCacheSize int

	// DatasetCacheTTL bounds how long a parsed file is reused. Default: 5m.
	DatasetCacheTTL time.Duration

	// Enrich selects optional derived columns applied before resolution.
	Enrich dataset.EnrichOptions

	// Split controls the train/test partition.
	Split preprocess.SplitOptions

	// Scaler is the feature transform applied before training.
	// Default: minmax.
	Scaler preprocess.ScalerKind

	// ScaleScope selects the rows the scaler is fitted on.
	// Default: full.
	ScaleScope ScaleScope

	// Training configures the recurrent models. Its Seed mirrors Split.Seed.
	Training models.TrainingOptions

	// Capabilities fixes which model kinds can be trained.
	Capabilities models.Capabilities

	// DefaultModels is used when a predict call names no models.
	// Default: [Linear].
	DefaultModels []string

	// Optimizer holds the default search configuration.
	Optimizer optimize.Config

	// MaxPopulation and MaxGenerations bound per-request overrides.
	MaxPopulation  int
	MaxGenerations int
}

// DefaultConfig returns the engine defaults: seed 42, 80/20 split with a
// 10-sample minimum, min-max scaling fitted on every row, Linear only.
func DefaultConfig() Config {
	split := preprocess.DefaultSplitOptions()
	training := models.DefaultTrainingOptions()
	training.Seed = split.Seed
	opt := optimize.DefaultConfig()
	opt.Seed = split.Seed

	return Config{
		DatasetDir:       "./data",
		DatasetCacheSize: 32,
		DatasetCacheTTL:  5 * time.Minute,
		Split:            split,
		Scaler:           preprocess.MinMax,
		ScaleScope:       ScaleFull,
		Training:         training,
		Capabilities:     models.Capabilities{SequenceModels: true},
		DefaultModels:    []string{models.Linear.String()},
		Optimizer:        opt,
		MaxPopulation:    500,
		MaxGenerations:   1000,
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.DatasetDir == "" {
		return fmt.Errorf("dataset directory is required")
	}
	if c.DatasetCacheSize < 0 {
		return fmt.Errorf("dataset cache size must be non-negative, got %d", c.DatasetCacheSize)
	}
	if c.Split.TestFraction <= 0 || c.Split.TestFraction >= 1 {
		return fmt.Errorf("test fraction must be in (0, 1), got %v", c.Split.TestFraction)
	}
	if c.Split.MinSamples < 2 {
		return fmt.Errorf("min samples must be at least 2, got %d", c.Split.MinSamples)
	}
	if _, err := preprocess.NewScaler(c.Scaler); err != nil {
		return err
	}
	if c.ScaleScope != ScaleFull && c.ScaleScope != ScaleTrain {
		return fmt.Errorf("scale scope must be %q or %q, got %q", ScaleFull, ScaleTrain, c.ScaleScope)
	}
	if err := c.Training.Validate(); err != nil {
		return fmt.Errorf("training: %w", err)
	}
	if err := c.Optimizer.Validate(); err != nil {
		return fmt.Errorf("optimizer: %w", err)
	}
	if c.MaxPopulation < c.Optimizer.PopulationSize {
		return fmt.Errorf("max population %d is below the default population %d", c.MaxPopulation, c.Optimizer.PopulationSize)
	}
	if c.MaxGenerations < c.Optimizer.Generations {
		return fmt.Errorf("max generations %d is below the default generations %d", c.MaxGenerations, c.Optimizer.Generations)
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() Config {
	out := *c
	out.DefaultModels = append([]string(nil), c.DefaultModels...)
	out.Enrich.OneHotColumns = append([]string(nil), c.Enrich.OneHotColumns...)
	return out
}

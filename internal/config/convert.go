// FishCast - Fisheries Stock Forecasting and Optimization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fishcast

package config

import (
	"os"

	"github.com/tomtom215/fishcast/internal/forecast"
	"github.com/tomtom215/fishcast/internal/forecast/preprocess"
	"github.com/tomtom215/fishcast/internal/logging"
)

// ToForecastConfig maps the forecast, optimizer and dataset sections onto
// the engine configuration.
func (c *Config) ToForecastConfig() forecast.Config {
	out := forecast.DefaultConfig()

	out.DatasetDir = c.Dataset.Dir
	out.FillValue = c.Dataset.FillValue
	out.Enrich.DeriveMonthNormalized = c.Dataset.DeriveMonthNormalized
	out.Enrich.OneHotColumns = append([]string(nil), c.Dataset.OneHotColumns...)
	out.DatasetCacheSize = c.Dataset.CacheSize
	out.DatasetCacheTTL = c.Dataset.CacheTTL

	out.Split.Seed = c.Forecast.Seed
	out.Split.TestFraction = c.Forecast.TestFraction
	out.Split.MinSamples = c.Forecast.MinSamples
	out.Scaler = preprocess.ScalerKind(c.Forecast.Scaler)
	out.ScaleScope = forecast.ScaleScope(c.Forecast.ScaleScope)
	out.Training.Seed = c.Forecast.Seed
	out.Training.Epochs = c.Forecast.Epochs
	out.Training.LearningRate = c.Forecast.LearningRate
	out.Training.HiddenSize = c.Forecast.HiddenSize
	out.Capabilities.SequenceModels = c.Forecast.SequenceModels
	if len(c.Forecast.DefaultModels) > 0 {
		out.DefaultModels = append([]string(nil), c.Forecast.DefaultModels...)
	}

	out.Optimizer.Seed = c.Forecast.Seed
	out.Optimizer.Disabled = c.Optimizer.Disabled
	out.Optimizer.PopulationSize = c.Optimizer.PopulationSize
	out.Optimizer.Generations = c.Optimizer.Generations
	out.Optimizer.CrossoverProb = c.Optimizer.CrossoverProb
	out.Optimizer.CrossoverEta = c.Optimizer.CrossoverEta
	out.Optimizer.MutationEta = c.Optimizer.MutationEta
	out.Optimizer.MutationProb = c.Optimizer.MutationProb
	out.Optimizer.ReferencePoints = c.Optimizer.ReferencePoints
	out.MaxPopulation = c.Optimizer.MaxPopulation
	out.MaxGenerations = c.Optimizer.MaxGenerations

	return out
}

// ToLoggingConfig maps the logging section onto logging.Init's input.
func (c *Config) ToLoggingConfig() logging.Config {
	return logging.Config{
		Level:     c.Logging.Level,
		Format:    c.Logging.Format,
		Caller:    c.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	}
}

// FishCast - Fisheries Stock Forecasting and Optimization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fishcast

// Package config loads FishCast configuration with Koanf v2.
//
// Sources are layered, later ones winning:
//  1. Built-in defaults (defaultConfig)
//  2. An optional YAML file (CONFIG_PATH, config.yaml, config.yml,
//     /etc/fishcast/config.yaml)
//  3. Environment variables from an explicit name table; anything else in
//     the environment is ignored
//
// Example config.yaml:
//
//	server:
//	  port: 8080
//	forecast:
//	  default_models: [Linear, LSTM]
//	  sequence_models: true
//	optimizer:
//	  population_size: 40
//	  generations: 100
//	dataset:
//	  dir: /data/datasets
//	  one_hot_columns: [jenis_ikan]
//	  cache_ttl: 10m
package config

import (
	"time"
)

// Config is the complete application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	API       APIConfig       `koanf:"api"`
	Forecast  ForecastConfig  `koanf:"forecast"`
	Optimizer OptimizerConfig `koanf:"optimizer"`
	Dataset   DatasetConfig   `koanf:"dataset"`
	Storage   StorageConfig   `koanf:"storage"`
	Jobs      JobsConfig      `koanf:"jobs"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`
	// RequestTimeout bounds a synchronous forecast call. Longer work
	// belongs on the job queue.
	RequestTimeout time.Duration `koanf:"request_timeout"`
}

// APIConfig holds list pagination limits.
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// ForecastConfig holds preprocessing and model training settings.
type ForecastConfig struct {
	Seed           int64    `koanf:"seed"`
	TestFraction   float64  `koanf:"test_fraction"`
	MinSamples     int      `koanf:"min_samples"`
	Scaler         string   `koanf:"scaler"`
	ScaleScope     string   `koanf:"scale_scope"`
	Epochs         int      `koanf:"epochs"`
	LearningRate   float64  `koanf:"learning_rate"`
	HiddenSize     int      `koanf:"hidden_size"`
	SequenceModels bool     `koanf:"sequence_models"`
	DefaultModels  []string `koanf:"default_models"`
}

// OptimizerConfig holds the evolutionary search defaults and the bounds on
// per-request overrides.
type OptimizerConfig struct {
	Disabled        bool    `koanf:"disabled"`
	PopulationSize  int     `koanf:"population_size"`
	Generations     int     `koanf:"generations"`
	CrossoverProb   float64 `koanf:"crossover_prob"`
	CrossoverEta    float64 `koanf:"crossover_eta"`
	MutationEta     float64 `koanf:"mutation_eta"`
	MutationProb    float64 `koanf:"mutation_prob"` // 0 = 1/dimensions
	ReferencePoints int     `koanf:"reference_points"` // 0 = population size
	MaxPopulation   int     `koanf:"max_population"`
	MaxGenerations  int     `koanf:"max_generations"`
}

// DatasetConfig holds dataset location and enrichment settings.
type DatasetConfig struct {
	Dir                   string   `koanf:"dir"`
	FillValue             float64  `koanf:"fill_value"`
	DeriveMonthNormalized bool     `koanf:"derive_month_normalized"`
	OneHotColumns         []string `koanf:"one_hot_columns"`

	// CacheSize is the number of parsed files kept in memory. Zero disables the cache.
	CacheSize int           `koanf:"cache_size"`
	CacheTTL  time.Duration `koanf:"cache_ttl"`
}

// StorageConfig holds the result store location.
type StorageConfig struct {
	Path     string `koanf:"path"`
	InMemory bool   `koanf:"in_memory"`

	// GCInterval is how often the value log is compacted. Zero disables it.
	GCInterval time.Duration `koanf:"gc_interval"`
	GCRatio    float64       `koanf:"gc_ratio"`
}

// JobsConfig holds the asynchronous job queue settings.
type JobsConfig struct {
	Enabled      bool          `koanf:"enabled"`
	Buffer       int64         `koanf:"buffer"`
	CloseTimeout time.Duration `koanf:"close_timeout"`
}

// SecurityConfig holds CORS and rate limiting settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

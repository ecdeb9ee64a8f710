// FishCast - Fisheries Stock Forecasting and Optimization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fishcast

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/fishcast/internal/forecast"
)

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset or
// points at a missing file.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/fishcast/config.yaml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig derives the forecast and optimizer defaults from the
// engine's own defaults so the two never drift.
func defaultConfig() *Config {
	engine := forecast.DefaultConfig()

	return &Config{
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           8080,
			Timeout:        30 * time.Second,
			RequestTimeout: 2 * time.Minute,
		},
		API: APIConfig{
			DefaultPageSize: 20,
			MaxPageSize:     100,
		},
		Forecast: ForecastConfig{
			Seed:           engine.Split.Seed,
			TestFraction:   engine.Split.TestFraction,
			MinSamples:     engine.Split.MinSamples,
			Scaler:         string(engine.Scaler),
			ScaleScope:     string(engine.ScaleScope),
			Epochs:         engine.Training.Epochs,
			LearningRate:   engine.Training.LearningRate,
			HiddenSize:     engine.Training.HiddenSize,
			SequenceModels: engine.Capabilities.SequenceModels,
			DefaultModels:  engine.DefaultModels,
		},
		Optimizer: OptimizerConfig{
			PopulationSize:  engine.Optimizer.PopulationSize,
			Generations:     engine.Optimizer.Generations,
			CrossoverProb:   engine.Optimizer.CrossoverProb,
			CrossoverEta:    engine.Optimizer.CrossoverEta,
			MutationEta:     engine.Optimizer.MutationEta,
			MutationProb:    engine.Optimizer.MutationProb,
			ReferencePoints: engine.Optimizer.ReferencePoints,
			MaxPopulation:   engine.MaxPopulation,
			MaxGenerations:  engine.MaxGenerations,
		},
		Dataset: DatasetConfig{
			Dir:           engine.DatasetDir,
			OneHotColumns: []string{},
			CacheSize:     engine.DatasetCacheSize,
			CacheTTL:      engine.DatasetCacheTTL,
		},
		Storage: StorageConfig{
			Path:       "./data/results",
			GCInterval: 10 * time.Minute,
			GCRatio:    0.5,
		},
		Jobs: JobsConfig{
			Enabled:      true,
			Buffer:       64,
			CloseTimeout: 30 * time.Second,
		},
		Security: SecurityConfig{
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration from defaults, the optional config file
// and the environment, then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// sliceConfigPaths arrive from the environment as comma-separated strings.
var sliceConfigPaths = []string{
	"forecast.default_models",
	"dataset.one_hot_columns",
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok || strings.TrimSpace(s) == "" {
			continue
		}
		var parts []string
		for _, p := range strings.Split(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if err := k.Set(path, parts); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
var envMappings = map[string]string{
	"http_host":       "server.host",
	"http_port":       "server.port",
	"server_timeout":  "server.timeout",
	"request_timeout": "server.request_timeout",

	"api_default_page_size": "api.default_page_size",
	"api_max_page_size":     "api.max_page_size",

	"forecast_seed":            "forecast.seed",
	"forecast_test_fraction":   "forecast.test_fraction",
	"forecast_min_samples":     "forecast.min_samples",
	"forecast_scaler":          "forecast.scaler",
	"forecast_scale_scope":     "forecast.scale_scope",
	"forecast_epochs":          "forecast.epochs",
	"forecast_learning_rate":   "forecast.learning_rate",
	"forecast_hidden_size":     "forecast.hidden_size",
	"forecast_sequence_models": "forecast.sequence_models",
	"forecast_default_models":  "forecast.default_models",

	"optimizer_disabled":         "optimizer.disabled",
	"optimizer_population_size":  "optimizer.population_size",
	"optimizer_generations":      "optimizer.generations",
	"optimizer_crossover_prob":   "optimizer.crossover_prob",
	"optimizer_crossover_eta":    "optimizer.crossover_eta",
	"optimizer_mutation_eta":     "optimizer.mutation_eta",
	"optimizer_mutation_prob":    "optimizer.mutation_prob",
	"optimizer_reference_points": "optimizer.reference_points",
	"optimizer_max_population":   "optimizer.max_population",
	"optimizer_max_generations":  "optimizer.max_generations",

	"dataset_dir":                     "dataset.dir",
	"dataset_fill_value":              "dataset.fill_value",
	"dataset_derive_month_normalized": "dataset.derive_month_normalized",
	"dataset_one_hot_columns":         "dataset.one_hot_columns",
	"dataset_cache_size":              "dataset.cache_size",
	"dataset_cache_ttl":               "dataset.cache_ttl",

	"storage_path":        "storage.path",
	"storage_in_memory":   "storage.in_memory",
	"storage_gc_interval": "storage.gc_interval",
	"storage_gc_ratio":    "storage.gc_ratio",

	"jobs_enabled":       "jobs.enabled",
	"jobs_buffer":        "jobs.buffer",
	"jobs_close_timeout": "jobs.close_timeout",

	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc returns "" for unmapped names so stray variables never
// reach the config.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// FishCast - Fisheries Stock Forecasting and Optimization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fishcast

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tomtom215/fishcast/internal/forecast"
)

// TestDefaultConfig verifies the defaults mirror the engine defaults.
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Forecast.Seed != 42 {
		t.Errorf("Forecast.Seed = %d, want 42", cfg.Forecast.Seed)
	}
	if cfg.Forecast.TestFraction != 0.2 || cfg.Forecast.MinSamples != 10 {
		t.Errorf("split defaults = (%v, %d), want (0.2, 10)", cfg.Forecast.TestFraction, cfg.Forecast.MinSamples)
	}
	if cfg.Forecast.Scaler != "minmax" || cfg.Forecast.ScaleScope != "full" {
		t.Errorf("scaler defaults = (%s, %s)", cfg.Forecast.Scaler, cfg.Forecast.ScaleScope)
	}
	if cfg.Optimizer.PopulationSize != 40 || cfg.Optimizer.Generations != 100 {
		t.Errorf("optimizer defaults = (%d, %d), want (40, 100)", cfg.Optimizer.PopulationSize, cfg.Optimizer.Generations)
	}
	if len(cfg.Forecast.DefaultModels) != 1 || cfg.Forecast.DefaultModels[0] != "Linear" {
		t.Errorf("DefaultModels = %v, want [Linear]", cfg.Forecast.DefaultModels)
	}
	if !cfg.Jobs.Enabled || cfg.Security.RateLimitReqs != 100 {
		t.Errorf("jobs/security defaults = %+v / %+v", cfg.Jobs, cfg.Security)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults fail validation: %v", err)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"HTTP_PORT", "server.port"},
		{"REQUEST_TIMEOUT", "server.request_timeout"},
		{"FORECAST_SEED", "forecast.seed"},
		{"FORECAST_SEQUENCE_MODELS", "forecast.sequence_models"},
		{"FORECAST_DEFAULT_MODELS", "forecast.default_models"},
		{"OPTIMIZER_POPULATION_SIZE", "optimizer.population_size"},
		{"OPTIMIZER_MAX_GENERATIONS", "optimizer.max_generations"},
		{"DATASET_DIR", "dataset.dir"},
		{"DATASET_ONE_HOT_COLUMNS", "dataset.one_hot_columns"},
		{"STORAGE_IN_MEMORY", "storage.in_memory"},
		{"JOBS_BUFFER", "jobs.buffer"},
		{"RATE_LIMIT_REQUESTS", "security.rate_limit_reqs"},
		{"DISABLE_RATE_LIMIT", "security.rate_limit_disabled"},
		{"LOG_LEVEL", "logging.level"},
		{"PATH", ""},
		{"HOME", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := envTransformFunc(tt.input); got != tt.expected {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("REQUEST_TIMEOUT", "45s")
	t.Setenv("FORECAST_SEED", "7")
	t.Setenv("FORECAST_SEQUENCE_MODELS", "false")
	t.Setenv("FORECAST_DEFAULT_MODELS", "Linear, LSTM ,GRU")
	t.Setenv("OPTIMIZER_POPULATION_SIZE", "20")
	t.Setenv("DATASET_ONE_HOT_COLUMNS", "jenis_ikan")
	t.Setenv("CORS_ORIGINS", "http://a.example,http://b.example")
	t.Setenv("STORAGE_IN_MEMORY", "true")
	t.Setenv("DATASET_CACHE_TTL", "90s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Server.RequestTimeout != 45*time.Second {
		t.Errorf("RequestTimeout = %v, want 45s", cfg.Server.RequestTimeout)
	}
	if cfg.Forecast.Seed != 7 || cfg.Forecast.SequenceModels {
		t.Errorf("forecast = %+v", cfg.Forecast)
	}
	if got := cfg.Forecast.DefaultModels; len(got) != 3 || got[1] != "LSTM" {
		t.Errorf("DefaultModels = %v, want [Linear LSTM GRU]", got)
	}
	if cfg.Optimizer.PopulationSize != 20 {
		t.Errorf("PopulationSize = %d, want 20", cfg.Optimizer.PopulationSize)
	}
	if len(cfg.Dataset.OneHotColumns) != 1 || cfg.Dataset.OneHotColumns[0] != "jenis_ikan" {
		t.Errorf("OneHotColumns = %v", cfg.Dataset.OneHotColumns)
	}
	if len(cfg.Security.CORSOrigins) != 2 {
		t.Errorf("CORSOrigins = %v", cfg.Security.CORSOrigins)
	}
	if !cfg.Storage.InMemory {
		t.Error("Storage.InMemory should be true")
	}
	if cfg.Dataset.CacheTTL != 90*time.Second || cfg.Dataset.CacheSize != 32 {
		t.Errorf("dataset cache = (%d, %v), want (32, 1m30s)", cfg.Dataset.CacheSize, cfg.Dataset.CacheTTL)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  port: 7000
forecast:
  scaler: standard
  scale_scope: train
  default_models: [GRU]
optimizer:
  generations: 10
dataset:
  dir: /srv/datasets
  derive_month_normalized: true
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "7100")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 7100 {
		t.Errorf("env should override file: port = %d", cfg.Server.Port)
	}
	if cfg.Forecast.Scaler != "standard" || cfg.Forecast.ScaleScope != "train" {
		t.Errorf("forecast = %+v", cfg.Forecast)
	}
	if len(cfg.Forecast.DefaultModels) != 1 || cfg.Forecast.DefaultModels[0] != "GRU" {
		t.Errorf("DefaultModels = %v", cfg.Forecast.DefaultModels)
	}
	if cfg.Optimizer.Generations != 10 || cfg.Optimizer.PopulationSize != 40 {
		t.Errorf("optimizer = %+v", cfg.Optimizer)
	}
	if cfg.Dataset.Dir != "/srv/datasets" || !cfg.Dataset.DeriveMonthNormalized {
		t.Errorf("dataset = %+v", cfg.Dataset)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q", cfg.Logging.Level)
	}
}

func TestLoadInvalid(t *testing.T) {
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "absent.yaml"))
	t.Setenv("FORECAST_SCALER", "robust")

	if _, err := Load(); err == nil {
		t.Error("Load() should reject an unknown scaler")
	}
}

func TestToForecastConfig(t *testing.T) {
	cfg := defaultConfig()
	cfg.Forecast.Seed = 99
	cfg.Forecast.Scaler = "standard"
	cfg.Forecast.ScaleScope = "train"
	cfg.Dataset.OneHotColumns = []string{"jenis_ikan"}
	cfg.Optimizer.MaxPopulation = 80

	fc := cfg.ToForecastConfig()
	if fc.Split.Seed != 99 || fc.Training.Seed != 99 || fc.Optimizer.Seed != 99 {
		t.Errorf("seed not propagated: split=%d training=%d optimizer=%d", fc.Split.Seed, fc.Training.Seed, fc.Optimizer.Seed)
	}
	if fc.ScaleScope != forecast.ScaleTrain || string(fc.Scaler) != "standard" {
		t.Errorf("scaling = (%s, %s)", fc.Scaler, fc.ScaleScope)
	}
	if fc.MaxPopulation != 80 {
		t.Errorf("MaxPopulation = %d", fc.MaxPopulation)
	}
	cfg.Dataset.OneHotColumns[0] = "changed"
	if fc.Enrich.OneHotColumns[0] != "jenis_ikan" {
		t.Error("ToForecastConfig shares slices with the source config")
	}
	if err := fc.Validate(); err != nil {
		t.Errorf("mapped config invalid: %v", err)
	}
}

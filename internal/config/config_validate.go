// FishCast - Fisheries Stock Forecasting and Optimization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fishcast

package config

import (
	"fmt"
	"strings"

	"github.com/tomtom215/fishcast/internal/logging"
)

// Validate checks the configuration. Forecast and optimizer settings are
// checked by the engine's own validation through ToForecastConfig.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateAPI(); err != nil {
		return err
	}
	engine := c.ToForecastConfig()
	if err := engine.Validate(); err != nil {
		return fmt.Errorf("forecast: %w", err)
	}
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateJobs(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("SERVER_TIMEOUT must be positive, got %v", c.Server.Timeout)
	}
	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive, got %v", c.Server.RequestTimeout)
	}
	return nil
}

func (c *Config) validateAPI() error {
	if c.API.DefaultPageSize < 1 || c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("API page sizes must satisfy 1 <= default (%d) <= max (%d)", c.API.DefaultPageSize, c.API.MaxPageSize)
	}
	return nil
}

func (c *Config) validateStorage() error {
	if !c.Storage.InMemory && strings.TrimSpace(c.Storage.Path) == "" {
		return fmt.Errorf("STORAGE_PATH is required unless STORAGE_IN_MEMORY=true")
	}
	if c.Dataset.CacheSize < 0 {
		return fmt.Errorf("DATASET_CACHE_SIZE must be non-negative, got %d", c.Dataset.CacheSize)
	}
	if c.Dataset.CacheSize > 0 && c.Dataset.CacheTTL <= 0 {
		return fmt.Errorf("DATASET_CACHE_TTL must be positive when the cache is enabled, got %v", c.Dataset.CacheTTL)
	}
	if c.Storage.GCInterval < 0 {
		return fmt.Errorf("STORAGE_GC_INTERVAL must be non-negative, got %v", c.Storage.GCInterval)
	}
	if c.Storage.GCRatio <= 0 || c.Storage.GCRatio >= 1 {
		return fmt.Errorf("STORAGE_GC_RATIO must be in (0, 1), got %v", c.Storage.GCRatio)
	}
	return nil
}

func (c *Config) validateJobs() error {
	if !c.Jobs.Enabled {
		return nil
	}
	if c.Jobs.Buffer < 0 {
		return fmt.Errorf("JOBS_BUFFER must not be negative, got %d", c.Jobs.Buffer)
	}
	if c.Jobs.CloseTimeout <= 0 {
		return fmt.Errorf("JOBS_CLOSE_TIMEOUT must be positive, got %v", c.Jobs.CloseTimeout)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %v", c.Security.RateLimitWindow)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
		return nil
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
}

// FishCast - Fisheries Stock Forecasting and Optimization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fishcast

package api

import (
	"context"
	"time"

	"github.com/tomtom215/fishcast/internal/forecast"
	"github.com/tomtom215/fishcast/internal/jobs"
	"github.com/tomtom215/fishcast/internal/service"
	"github.com/tomtom215/fishcast/internal/storage"
)

// Forecaster runs forecast operations by dataset name.
type Forecaster interface {
	Predict(ctx context.Context, dataset string, modelNames []string) (*service.PredictResponse, error)
	Correlate(ctx context.Context, dataset string) (*service.CorrelateResponse, error)
	Optimize(ctx context.Context, dataset string, opts forecast.OptimizeOptions) (*service.OptimizeResponse, error)
	AvailableModels() []string
}

// ResultStore reads stored results.
type ResultStore interface {
	Ping(ctx context.Context) error
	GetPrediction(ctx context.Context, id string) (*storage.PredictionRecord, error)
	ListPredictions(ctx context.Context, offset, limit int) ([]storage.PredictionRecord, int, error)
	BatchPredictions(ctx context.Context, batchID string) ([]storage.PredictionRecord, error)
	DeletePrediction(ctx context.Context, id string) error
	GetCorrelation(ctx context.Context, id string) (*storage.CorrelationRecord, error)
	GetOptimization(ctx context.Context, id string) (*storage.OptimizationRecord, error)
}

// JobQueue accepts asynchronous forecast jobs.
type JobQueue interface {
	Submit(ctx context.Context, req jobs.Request) (*storage.JobRecord, error)
	Get(ctx context.Context, id string) (*storage.JobRecord, error)
	IsRunning() bool
}

// HandlerConfig holds handler settings.
type HandlerConfig struct {
	DefaultPageSize int
	MaxPageSize     int
	Version         string
}

// Handler serves the REST endpoints.
type Handler struct {
	forecaster Forecaster
	store      ResultStore
	jobs       JobQueue
	config     HandlerConfig
	startTime  time.Time
}

// NewHandler creates a handler. queue may be nil when jobs are disabled.
func NewHandler(forecaster Forecaster, store ResultStore, queue JobQueue, config HandlerConfig) *Handler {
	if config.DefaultPageSize <= 0 {
		config.DefaultPageSize = 20
	}
	if config.MaxPageSize < config.DefaultPageSize {
		config.MaxPageSize = config.DefaultPageSize
	}
	return &Handler{
		forecaster: forecaster,
		store:      store,
		jobs:       queue,
		config:     config,
		startTime:  time.Now(),
	}
}

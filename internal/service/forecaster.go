// FishCast - Fisheries Stock Forecasting and Optimization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fishcast

// Package service runs forecast operations by dataset name and persists
// their results. The HTTP handlers call it directly; the job queue calls it
// through Execute.
package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/fishcast/internal/forecast"
	"github.com/tomtom215/fishcast/internal/forecast/correlation"
	"github.com/tomtom215/fishcast/internal/forecast/models"
	"github.com/tomtom215/fishcast/internal/forecast/optimize"
	"github.com/tomtom215/fishcast/internal/jobs"
	"github.com/tomtom215/fishcast/internal/storage"
)

// Engine is the subset of *forecast.Engine the service uses.
type Engine interface {
	DatasetPath(name string) (string, error)
	Predict(ctx context.Context, path string, modelNames []string) (*forecast.Predictions, error)
	Correlate(ctx context.Context, path string) (correlation.Result, error)
	Optimize(ctx context.Context, path string, opts forecast.OptimizeOptions) (optimize.Result, error)
	Registry() *models.Registry
}

// Store is the subset of *storage.Store the service uses.
type Store interface {
	SavePredictions(ctx context.Context, dataset string, out *forecast.Predictions) (string, []storage.PredictionRecord, error)
	SaveCorrelation(ctx context.Context, dataset string, res correlation.Result) (*storage.CorrelationRecord, error)
	SaveOptimization(ctx context.Context, dataset string, res optimize.Result) (*storage.OptimizationRecord, error)
}

// PredictResponse is the predict body: the per-model map under results,
// plus the batch the records were stored under.
type PredictResponse struct {
	Message            string                               `json:"message"`
	BatchID            string                               `json:"batch_id"`
	PredictionsCreated int                                  `json:"predictions_created"`
	ModelsTrained      []string                             `json:"models_trained"`
	TargetColumn       string                               `json:"target_column"`
	FeatureColumns     []string                             `json:"feature_columns"`
	Results            map[string]forecast.PredictionResult `json:"results"`
}

// CorrelateResponse is the correlate body.
type CorrelateResponse struct {
	ID string `json:"id"`
	correlation.Result
}

// OptimizeResponse is the optimize body.
type OptimizeResponse struct {
	ID string `json:"id"`
	optimize.Result
}

// Forecaster resolves dataset names, runs the engine and stores results.
type Forecaster struct {
	engine Engine
	store  Store
	logger zerolog.Logger
}

// NewForecaster creates a forecaster.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewForecaster(engine Engine, store Store, logger zerolog.Logger) *Forecaster {
	return &Forecaster{
		engine: engine,
		store:  store,
		logger: logger.With().Str("component", "forecaster").Logger(),
	}
}

// AvailableModels lists the model kinds this deployment can train.
func (f *Forecaster) AvailableModels() []string {
	kinds := f.engine.Registry().AvailableKinds()
	out := make([]string, len(kinds))
	for i, k := range kinds {
		out[i] = k.String()
	}
	return out
}

// Predict trains the named models on dataset and stores one record per model.
func (f *Forecaster) Predict(ctx context.Context, dataset string, modelNames []string) (*PredictResponse, error) {
	path, err := f.engine.DatasetPath(dataset)
	if err != nil {
		return nil, err
	}
	out, err := f.engine.Predict(ctx, path, modelNames)
	if err != nil {
		return nil, err
	}
	batchID, records, err := f.store.SavePredictions(ctx, dataset, out)
	if err != nil {
		return nil, fmt.Errorf("store predictions: %w", err)
	}
	return &PredictResponse{
		Message:            fmt.Sprintf("Successfully ran predictions for %d models", len(records)),
		BatchID:            batchID,
		PredictionsCreated: len(records),
		ModelsTrained:      out.Models,
		TargetColumn:       out.Spec.Target,
		FeatureColumns:     out.Spec.Features,
		Results:            out.Results,
	}, nil
}

// Correlate computes and stores the correlation matrix of dataset.
func (f *Forecaster) Correlate(ctx context.Context, dataset string) (*CorrelateResponse, error) {
	path, err := f.engine.DatasetPath(dataset)
	if err != nil {
		return nil, err
	}
	res, err := f.engine.Correlate(ctx, path)
	if err != nil {
		return nil, err
	}
	rec, err := f.store.SaveCorrelation(ctx, dataset, res)
	if err != nil {
		return nil, fmt.Errorf("store correlation: %w", err)
	}
	return &CorrelateResponse{ID: rec.ID, Result: res}, nil
}

// Optimize runs the weight search on dataset and stores the result.
func (f *Forecaster) Optimize(ctx context.Context, dataset string, opts forecast.OptimizeOptions) (*OptimizeResponse, error) {
	path, err := f.engine.DatasetPath(dataset)
	if err != nil {
		return nil, err
	}
	res, err := f.engine.Optimize(ctx, path, opts)
	if err != nil {
		return nil, err
	}
	rec, err := f.store.SaveOptimization(ctx, dataset, res)
	if err != nil {
		return nil, fmt.Errorf("store optimization: %w", err)
	}
	if res.Degraded != "" {
		f.logger.Debug().Str("dataset", dataset).Str("id", rec.ID).Msg("Stored degraded optimization")
	}
	return &OptimizeResponse{ID: rec.ID, Result: res}, nil
}

// Execute implements jobs.Executor.
func (f *Forecaster) Execute(ctx context.Context, req jobs.Request) (interface{}, error) {
	switch req.Operation {
	case jobs.OpPredict:
		return f.Predict(ctx, req.Dataset, req.Models)
	case jobs.OpCorrelate:
		return f.Correlate(ctx, req.Dataset)
	case jobs.OpOptimize:
		return f.Optimize(ctx, req.Dataset, forecast.OptimizeOptions{
			PopulationSize: req.PopulationSize,
			Generations:    req.Generations,
		})
	default:
		return nil, fmt.Errorf("%w: %q", jobs.ErrUnknownOperation, req.Operation)
	}
}

// FishCast - Fisheries Stock Forecasting and Optimization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fishcast

package forecast

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"github.com/tomtom215/fishcast/internal/forecast/models"
	"github.com/tomtom215/fishcast/internal/forecast/preprocess"
	"github.com/tomtom215/fishcast/internal/metrics"
)

// PredictionResult is one model's test-set predictions and error metrics,
// reported in the target's original units.
type PredictionResult struct {
	ModelName    string    `json:"model_name"`
	Predictions  []float64 `json:"predictions"`
	ActualValues []float64 `json:"actual_values"`
	MSE          float64   `json:"mse"`
	MAE          float64   `json:"mae"`

	// TrainedWith is the kind that actually produced the predictions.
	TrainedWith models.Kind `json:"-"`
	// Fallback is the reason TrainedWith differs from the requested model.
	Fallback string `json:"-"`
}

// TrainingData is the prepared input for one Train call.
type TrainingData struct {
	Split preprocess.Split

	// TargetScaler is a min-max scaler fitted on the full target vector.
	// Recurrent models train on scaled targets and report inverse-transformed
	// predictions.
	TargetScaler *preprocess.Scaler
}

// Trainer fits one model per call and absorbs per-model failures by
// substituting the Linear model.
type Trainer struct {
	registry *models.Registry
	logger   zerolog.Logger
}

// NewTrainer creates a trainer backed by registry.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewTrainer(registry *models.Registry, logger zerolog.Logger) *Trainer {
	return &Trainer{
		registry: registry,
		logger:   logger.With().Str("component", "trainer").Logger(),
	}
}

// Train fits the named model and scores it on the test partition. Unknown
// names, unavailable kinds and failed fits all fall back to Linear, and the
// result is still reported under name. Only context cancellation is returned
// as an error.
func (t *Trainer) Train(ctx context.Context, name string, data TrainingData) (PredictionResult, error) {
	res := t.registry.Resolve(name)
	if res.Fallback {
		t.degrade(name, res.Reason)
	}

	result, err := t.fit(ctx, res.Kind, data)
	if err != nil && ctx.Err() == nil && res.Kind != models.Linear {
		res.Fallback = true
		res.Reason = err.Error()
		t.degrade(name, res.Reason)
		result, err = t.fit(ctx, models.Linear, data)
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return PredictionResult{}, fmt.Errorf("train %s: %w", name, ctxErr)
		}
		t.logger.Warn().Err(err).Str("requested_model", name).Msg("Linear fit failed, using mean baseline")
		result = meanBaseline(data.Split)
		res.Fallback = true
		res.Reason = err.Error()
	}

	result.ModelName = name
	if res.Fallback {
		result.Fallback = res.Reason
	}
	return result, nil
}

func (t *Trainer) degrade(requested, reason string) {
	t.logger.Warn().
		Str("requested_model", requested).
		Str("fallback_model", models.Linear.String()).
		Str("reason", reason).
		Msg("Model unavailable, falling back")
	metrics.RecordModelFallback(requested)
}

func (t *Trainer) fit(ctx context.Context, kind models.Kind, data TrainingData) (PredictionResult, error) {
	start := time.Now()
	s := data.Split

	scaleTarget := kind.Sequence() && data.TargetScaler != nil
	yTrain := s.YTrain
	if scaleTarget {
		scaled, err := data.TargetScaler.Transform(preprocess.Column(yTrain))
		if err != nil {
			return PredictionResult{}, fmt.Errorf("scale target: %w", err)
		}
		yTrain = preprocess.Flatten(scaled)
	}

	model, err := t.registry.Estimator(kind).Fit(ctx, s.XTrain, yTrain)
	if err != nil {
		return PredictionResult{}, fmt.Errorf("fit %s: %w", kind, err)
	}
	pred, err := model.Predict(s.XTest)
	if err != nil {
		return PredictionResult{}, fmt.Errorf("predict %s: %w", kind, err)
	}
	if scaleTarget {
		restored, err := data.TargetScaler.InverseTransform(preprocess.Column(pred))
		if err != nil {
			return PredictionResult{}, fmt.Errorf("inverse scale target: %w", err)
		}
		pred = preprocess.Flatten(restored)
	}
	if !models.Finite(pred) {
		return PredictionResult{}, fmt.Errorf("predict %s: %w", kind, models.ErrDiverged)
	}

	result := PredictionResult{
		Predictions:  pred,
		ActualValues: append([]float64{}, s.YTest...),
		MSE:          models.MSE(pred, s.YTest),
		MAE:          models.MAE(pred, s.YTest),
		TrainedWith:  kind,
	}
	metrics.RecordModelTraining(kind.String(), time.Since(start), result.MSE)
	t.logger.Debug().
		Str("model", kind.String()).
		Int("train_rows", len(s.XTrain)).
		Int("test_rows", len(s.XTest)).
		Float64("mse", result.MSE).
		Float64("mae", result.MAE).
		Dur("duration", time.Since(start)).
		Msg("Model trained")
	return result, nil
}

// meanBaseline predicts the training mean for every test row.
func meanBaseline(s preprocess.Split) PredictionResult {
	var mean float64
	if len(s.YTrain) > 0 {
		mean = stat.Mean(s.YTrain, nil)
	}
	pred := make([]float64, len(s.YTest))
	for i := range pred {
		pred[i] = mean
	}
	return PredictionResult{
		Predictions:  pred,
		ActualValues: append([]float64{}, s.YTest...),
		MSE:          models.MSE(pred, s.YTest),
		MAE:          models.MAE(pred, s.YTest),
		TrainedWith:  models.Linear,
	}
}

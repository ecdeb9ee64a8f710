// FishCast - Fisheries Stock Forecasting and Optimization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fishcast

package api

import (
	"net/http"

	"github.com/tomtom215/fishcast/internal/forecast"
	"github.com/tomtom215/fishcast/internal/logging"
)

// Predict trains the requested models on a dataset and stores the results.
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	var req PredictRequest
	if err := decodeRequest(w, r, &req); err != nil {
		respondServiceError(w, r, err)
		return
	}
	logging.Ctx(r.Context()).Info().
		Str("dataset", req.Dataset).
		Strs("models", req.Models).
		Msg("Predict requested")

	resp, err := h.forecaster.Predict(r.Context(), req.Dataset, req.Models)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, resp, nil)
}

// Correlate computes the correlation matrix of a dataset.
func (h *Handler) Correlate(w http.ResponseWriter, r *http.Request) {
	var req CorrelateRequest
	if err := decodeRequest(w, r, &req); err != nil {
		respondServiceError(w, r, err)
		return
	}
	resp, err := h.forecaster.Correlate(r.Context(), req.Dataset)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, resp, nil)
}

// Optimize runs the evolutionary weight search on a dataset.
func (h *Handler) Optimize(w http.ResponseWriter, r *http.Request) {
	var req OptimizeRequest
	if err := decodeRequest(w, r, &req); err != nil {
		respondServiceError(w, r, err)
		return
	}
	logging.Ctx(r.Context()).Info().
		Str("dataset", req.Dataset).
		Int("population_size", req.PopulationSize).
		Int("generations", req.Generations).
		Msg("Optimize requested")

	resp, err := h.forecaster.Optimize(r.Context(), req.Dataset, forecast.OptimizeOptions{
		PopulationSize: req.PopulationSize,
		Generations:    req.Generations,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, resp, nil)
}

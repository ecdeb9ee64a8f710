// FishCast - Fisheries Stock Forecasting and Optimization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fishcast

package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/fishcast/internal/logging"
	"github.com/tomtom215/fishcast/internal/storage"
)

// ListPredictions returns stored predictions, newest first.
func (h *Handler) ListPredictions(w http.ResponseWriter, r *http.Request) {
	offset, limit, err := pageParams(r, h.config.DefaultPageSize, h.config.MaxPageSize)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return
	}
	records, total, err := h.store.ListPredictions(r.Context(), offset, limit)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if records == nil {
		records = []storage.PredictionRecord{}
	}
	respondJSON(w, r, http.StatusOK, records, &PaginationMeta{
		Total:   total,
		Count:   len(records),
		Offset:  offset,
		Limit:   limit,
		HasMore: offset+len(records) < total,
	})
}

// GetPrediction returns one stored prediction.
func (h *Handler) GetPrediction(w http.ResponseWriter, r *http.Request) {
	rec, err := h.store.GetPrediction(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, rec, nil)
}

// DeletePrediction removes one stored prediction.
func (h *Handler) DeletePrediction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.DeletePrediction(r.Context(), id); err != nil {
		respondServiceError(w, r, err)
		return
	}
	logging.Ctx(r.Context()).Info().Str("prediction_id", id).Msg("Prediction deleted")
	w.WriteHeader(http.StatusNoContent)
}

// ExportBatch writes a prediction batch as CSV: Actual followed by one
// column per model.
func (h *Handler) ExportBatch(w http.ResponseWriter, r *http.Request) {
	batchID := chi.URLParam(r, "batch")
	records, err := h.store.BatchPredictions(r.Context(), batchID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := storage.WritePredictionsCSV(&buf, records); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=predictions_%s.csv", batchID))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to write CSV export")
	}
}

// GetCorrelation returns a stored correlation result.
func (h *Handler) GetCorrelation(w http.ResponseWriter, r *http.Request) {
	rec, err := h.store.GetCorrelation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, rec, nil)
}

// GetOptimization returns a stored optimizer result.
func (h *Handler) GetOptimization(w http.ResponseWriter, r *http.Request) {
	rec, err := h.store.GetOptimization(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, rec, nil)
}

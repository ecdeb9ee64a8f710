// FishCast - Fisheries Stock Forecasting and Optimization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fishcast

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// SubmitJob queues a forecast operation and answers 202 with the job id.
func (h *Handler) SubmitJob(w http.ResponseWriter, r *http.Request) {
	if h.jobs == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Jobs are disabled", nil)
		return
	}
	var req JobRequest
	if err := decodeRequest(w, r, &req); err != nil {
		respondServiceError(w, r, err)
		return
	}
	job, err := h.jobs.Submit(r.Context(), req.toJob())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/v1/jobs/"+job.ID)
	respondJSON(w, r, http.StatusAccepted, map[string]interface{}{
		"job_id": job.ID,
		"status": job.Status,
	}, nil)
}

// GetJob returns the state of a job, including its result once completed.
func (h *Handler) GetJob(w http.ResponseWriter, r *http.Request) {
	if h.jobs == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Jobs are disabled", nil)
		return
	}
	job, err := h.jobs.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, job, nil)
}

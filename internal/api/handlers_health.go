// FishCast - Fisheries Stock Forecasting and Optimization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fishcast

package api

import (
	"net/http"
	"time"
)

// HealthStatus is the body of GET /api/v1/health.
type HealthStatus struct {
	Status          string   `json:"status"`
	Version         string   `json:"version,omitempty"`
	AvailableModels []string `json:"available_models"`
	Storage         string   `json:"storage"`
	Jobs            string   `json:"jobs"`
	Uptime          float64  `json:"uptime_seconds"`
}

// Health reports the trainable models and the state of storage and the
// job queue. A storage failure degrades the status but still answers 200.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	health := HealthStatus{
		Status:          "healthy",
		Version:         h.config.Version,
		AvailableModels: h.forecaster.AvailableModels(),
		Storage:         "ok",
		Jobs:            h.jobsState(),
		Uptime:          time.Since(h.startTime).Seconds(),
	}
	if err := h.store.Ping(r.Context()); err != nil {
		health.Status = "degraded"
		health.Storage = "unavailable"
	}
	if health.Jobs == "stopped" {
		health.Status = "degraded"
	}
	respondJSON(w, r, http.StatusOK, health, nil)
}

// HealthLive answers 200 while the process is up.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	}, nil)
}

// HealthReady answers 503 until storage is reachable.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Storage unavailable", nil)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]interface{}{"ready": true}, nil)
}

func (h *Handler) jobsState() string {
	switch {
	case h.jobs == nil:
		return "disabled"
	case h.jobs.IsRunning():
		return "running"
	default:
		return "stopped"
	}
}

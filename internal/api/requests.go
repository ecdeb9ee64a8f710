// FishCast - Fisheries Stock Forecasting and Optimization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fishcast

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/tomtom215/fishcast/internal/jobs"
	"github.com/tomtom215/fishcast/internal/validation"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// PredictRequest is the body of POST /api/v1/forecast/predict.
type PredictRequest struct {
	Dataset string   `json:"dataset" validate:"required,dataset_name,max=255"`
	Models  []string `json:"models" validate:"omitempty,max=20,dive,required,max=64"`
}

// CorrelateRequest is the body of POST /api/v1/forecast/correlate.
type CorrelateRequest struct {
	Dataset string `json:"dataset" validate:"required,dataset_name,max=255"`
}

// OptimizeRequest is the body of POST /api/v1/forecast/optimize. Zero
// values use the configured defaults.
type OptimizeRequest struct {
	Dataset        string `json:"dataset" validate:"required,dataset_name,max=255"`
	PopulationSize int    `json:"population_size" validate:"omitempty,min=2"`
	Generations    int    `json:"generations" validate:"omitempty,min=1"`
}

// JobRequest is the body of POST /api/v1/jobs.
type JobRequest struct {
	Operation      string   `json:"operation" validate:"required,oneof=predict correlate optimize"`
	Dataset        string   `json:"dataset" validate:"required,dataset_name,max=255"`
	Models         []string `json:"models" validate:"omitempty,max=20,dive,required,max=64"`
	PopulationSize int      `json:"population_size" validate:"omitempty,min=2"`
	Generations    int      `json:"generations" validate:"omitempty,min=1"`
}

func (j *JobRequest) toJob() jobs.Request {
	return jobs.Request{
		Operation:      j.Operation,
		Dataset:        j.Dataset,
		Models:         j.Models,
		PopulationSize: j.PopulationSize,
		Generations:    j.Generations,
	}
}

// errBadBody marks a body that is not a single JSON object.
var errBadBody = errors.New("request body must be a JSON object")

// decodeRequest reads a JSON body into dst and validates it.
func decodeRequest(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: %v", errBadBody, err)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%w: %v", errBadBody, err)
	}
	if verr := validation.ValidateStruct(dst); verr != nil {
		return verr
	}
	return nil
}

// pageParams reads offset and limit from the query string.
func pageParams(r *http.Request, defaultLimit, maxLimit int) (offset, limit int, err error) {
	limit = defaultLimit
	q := r.URL.Query()
	if v := q.Get("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 1 {
			return 0, 0, fmt.Errorf("limit must be a positive integer")
		}
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if v := q.Get("offset"); v != "" {
		offset, err = strconv.Atoi(v)
		if err != nil || offset < 0 {
			return 0, 0, fmt.Errorf("offset must be a non-negative integer")
		}
	}
	return offset, limit, nil
}

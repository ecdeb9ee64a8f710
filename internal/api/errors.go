// FishCast - Fisheries Stock Forecasting and Optimization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fishcast

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tomtom215/fishcast/internal/forecast"
	"github.com/tomtom215/fishcast/internal/jobs"
	"github.com/tomtom215/fishcast/internal/logging"
	"github.com/tomtom215/fishcast/internal/storage"
	"github.com/tomtom215/fishcast/internal/validation"
)

// respondServiceError maps a forecast, storage or validation error onto
// its HTTP status and error code.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.RequestValidationError
	switch {
	case errors.As(err, &verr):
		apiErr := verr.ToAPIError()
		respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
	case errors.Is(err, forecast.ErrDatasetNotFound), errors.Is(err, forecast.ErrIO):
		respondError(w, r, http.StatusNotFound, ErrCodeDatasetNotFound, "Dataset not found or unreadable", nil)
	case errors.Is(err, forecast.ErrSchemaResolution):
		respondError(w, r, http.StatusUnprocessableEntity, ErrCodeSchemaResolution, "Dataset has no usable numeric column", nil)
	case errors.Is(err, errBadBody),
		errors.Is(err, forecast.ErrInvalidDatasetName),
		errors.Is(err, forecast.ErrInvalidParameter),
		errors.Is(err, jobs.ErrUnknownOperation):
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
	case errors.Is(err, storage.ErrNotFound):
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Resource not found", nil)
	case errors.Is(err, jobs.ErrNotRunning):
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Job queue is not running", nil)
	case errors.Is(err, context.DeadlineExceeded):
		respondError(w, r, http.StatusGatewayTimeout, ErrCodeTimeout, "Request timed out", nil)
	default:
		logging.Ctx(r.Context()).Error().
			Str("error", sanitizeLogValue(err.Error())).
			Str("path", r.URL.Path).
			Msg("Request failed")
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "Internal server error", nil)
	}
}

// sanitizeLogValue escapes control characters so request data cannot forge
// log lines.
func sanitizeLogValue(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, c := range s {
		if c < 0x20 || c == 0x7F {
			fmt.Fprintf(&b, "\\x%02x", c)
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}

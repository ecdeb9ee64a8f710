// FishCast - Fisheries Stock Forecasting and Optimization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fishcast

package forecast

import (
	"errors"

	"github.com/tomtom215/fishcast/internal/forecast/dataset"
)

var (
	// ErrIO matches dataset read failures.
	ErrIO = dataset.ErrIO

	// ErrSchemaResolution matches datasets with no usable numeric column.
	ErrSchemaResolution = dataset.ErrSchemaResolution

	// ErrDatasetNotFound indicates a dataset name does not resolve to a file.
	ErrDatasetNotFound = errors.New("dataset not found")

	// ErrInvalidDatasetName indicates a dataset name escapes the dataset directory.
	ErrInvalidDatasetName = errors.New("invalid dataset name")

	// ErrInvalidParameter indicates a per-request override is out of range.
	ErrInvalidParameter = errors.New("invalid parameter")
)

// FishCast - Fisheries Stock Forecasting and Optimization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fishcast

package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrIO indicates the dataset file could not be read.
	ErrIO = errors.New("dataset unreadable")

	// ErrSchemaResolution indicates no usable numeric target exists.
	ErrSchemaResolution = errors.New("schema resolution failed")
)

// IOError wraps a filesystem failure for a dataset path.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("read dataset %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *IOError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrIO.
func (e *IOError) Is(target error) bool {
	return target == ErrIO
}

// SchemaError reports why target or feature resolution failed.
type SchemaError struct {
	Reason  string
	Columns []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%v: %s", ErrSchemaResolution, e.Reason)
}

// Is reports whether target is ErrSchemaResolution.
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchemaResolution
}

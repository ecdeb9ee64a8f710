// FishCast - Fisheries Stock Forecasting and Optimization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fishcast

package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// WritePredictionsCSV writes an Actual column followed by one column per
// record, one row per test sample. Records of a batch share the same
// actual values; shorter columns are padded with empty cells.
func WritePredictionsCSV(w io.Writer, records []PredictionRecord) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(records)+1)
	header = append(header, "Actual")
	rows := 0
	var actual []float64
	for i := range records {
		header = append(header, records[i].ModelType)
		if len(records[i].ActualValues) > len(actual) {
			actual = records[i].ActualValues
		}
		if n := len(records[i].Predictions); n > rows {
			rows = n
		}
	}
	if len(actual) > rows {
		rows = len(actual)
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	line := make([]string, len(header))
	for r := 0; r < rows; r++ {
		line[0] = cell(actual, r)
		for i := range records {
			line[i+1] = cell(records[i].Predictions, r)
		}
		if err := cw.Write(line); err != nil {
			return fmt.Errorf("write csv row %d: %w", r, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func cell(values []float64, i int) string {
	if i >= len(values) {
		return ""
	}
	return strconv.FormatFloat(values[i], 'f', -1, 64)
}

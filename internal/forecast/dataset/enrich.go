// FishCast - Fisheries Stock Forecasting and Optimization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fishcast

package dataset

import (
	"strings"
)

// MonthNormalizedColumn is the derived month feature.
const MonthNormalizedColumn = "bulan_normalized"

// monthColumns and yearColumns are matched case-insensitively.
var (
	monthColumns = []string{"bulan", "month"}
	yearColumns  = []string{"tahun", "year"}
)

// EnrichOptions selects optional derived columns.
type EnrichOptions struct {
	// DeriveMonthNormalized adds bulan_normalized = month/12 and drops the
	// raw month and year columns.
	DeriveMonthNormalized bool

	// OneHotColumns lists categorical columns to expand into 0/1 numeric
	// columns named <column>_<value>. The source column is removed.
	OneHotColumns []string
}

// Enabled reports whether any enrichment is configured.
func (o EnrichOptions) Enabled() bool {
	return o.DeriveMonthNormalized || len(o.OneHotColumns) > 0
}

// Enrich returns a new dataset with the configured derived columns.
// The input dataset is not modified.
func Enrich(ds *Dataset, opts EnrichOptions) *Dataset {
	if !opts.Enabled() {
		return ds
	}

	oneHot := make(map[string]bool, len(opts.OneHotColumns))
	for _, name := range opts.OneHotColumns {
		oneHot[strings.ToLower(name)] = true
	}

	var month []float64
	out := make([]Column, 0, len(ds.columns)+1)
	for _, col := range ds.columns {
		lower := strings.ToLower(col.Name)

		if opts.DeriveMonthNormalized && col.Type == ColumnNumeric {
			if month == nil && containsFold(monthColumns, lower) {
				month = col.Numeric
				continue
			}
			if containsFold(yearColumns, lower) {
				continue
			}
		}

		if oneHot[lower] && col.Type != ColumnNumeric {
			out = append(out, expandOneHot(col, ds.rows)...)
			continue
		}
		out = append(out, copyColumn(col))
	}

	if month != nil {
		if _, exists := ds.index[MonthNormalizedColumn]; !exists {
			norm := make([]float64, len(month))
			values := make([]string, len(month))
			for i, m := range month {
				norm[i] = m / 12.0
				values[i] = formatFloat(norm[i])
			}
			out = append(out, Column{
				Name:    MonthNormalizedColumn,
				Type:    ColumnNumeric,
				Values:  values,
				Numeric: norm,
				Derived: true,
			})
		}
	}
	return fromColumns(out, ds.rows)
}

// expandOneHot turns a categorical column into one numeric column per value.
func expandOneHot(col Column, rows int) []Column {
	levels := distinctSorted(col.Values)
	out := make([]Column, len(levels))
	for j, level := range levels {
		numeric := make([]float64, rows)
		values := make([]string, rows)
		for i, v := range col.Values {
			if v == level {
				numeric[i] = 1
				values[i] = "1"
			} else {
				values[i] = "0"
			}
		}
		out[j] = Column{
			Name:    col.Name + "_" + level,
			Type:    ColumnNumeric,
			Values:  values,
			Numeric: numeric,
			Derived: true,
		}
	}
	return out
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

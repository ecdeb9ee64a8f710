// FishCast - Fisheries Stock Forecasting and Optimization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fishcast

// Package dataset loads delimited tabular files into typed, immutable
// in-memory tables and resolves which columns act as prediction target
// and features.
//
// Loading is split into two strategies behind the same Load contract:
//
//   - StructuredReader: strict RFC 4180 parsing via encoding/csv
//   - LineReader: permissive line splitting that never fails
//
// The permissive strategy is only consulted when the structured one
// returns a parse error. Both produce raw string cells; column typing is a
// single shared pass so downstream code never sees which reader ran.
package dataset

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// ColumnType classifies a column after loading.
type ColumnType int

const (
	// ColumnNumeric holds values coercible to float64.
	ColumnNumeric ColumnType = iota
	// ColumnCategorical holds a small set of repeated labels.
	ColumnCategorical
	// ColumnText holds free-form strings.
	ColumnText
)

// String returns the lowercase name of the column type.
func (t ColumnType) String() string {
	switch t {
	case ColumnNumeric:
		return "numeric"
	case ColumnCategorical:
		return "categorical"
	case ColumnText:
		return "text"
	default:
		return "unknown"
	}
}

// maxCategories bounds the distinct labels of a categorical column.
const maxCategories = 50

// missingTokens are cell values treated as absent when typing a column.
var missingTokens = map[string]bool{
	"":     true,
	"na":   true,
	"n/a":  true,
	"nan":  true,
	"null": true,
	"none": true,
	"-":    true,
}

// Column is a single named, typed column.
// Numeric is populated only for ColumnNumeric; Values always holds the raw cells.
type Column struct {
	Name    string
	Type    ColumnType
	Values  []string
	Numeric []float64

	// Coerced counts present cells of a numeric column that did not parse
	// and were replaced with the fill value.
	Coerced int

	// Derived marks columns added by Enrich.
	Derived bool
}

// Dataset is an immutable table of rows by named columns.
// Every column has exactly Rows() entries.
type Dataset struct {
	columns []Column
	index   map[string]int
	rows    int
}

// New builds a dataset from a header and raw rows, typing every column.
// Rows shorter than the header are padded with empty cells and longer rows
// are truncated, so the resulting table is always rectangular.
// Missing or invalid numeric cells are replaced with fill.
func New(header []string, rows [][]string, fill float64) *Dataset {
	names := uniqueNames(header)
	raw := make([][]string, len(names))
	for c := range raw {
		raw[c] = make([]string, len(rows))
	}
	for r, row := range rows {
		for c := range names {
			if c < len(row) {
				raw[c][r] = strings.TrimSpace(row[c])
			}
		}
	}

	columns := make([]Column, len(names))
	for c, name := range names {
		columns[c] = typeColumn(name, raw[c], fill)
	}
	return fromColumns(columns, len(rows))
}

// fromColumns assembles a dataset from already-typed columns.
func fromColumns(columns []Column, rows int) *Dataset {
	ds := &Dataset{
		columns: columns,
		index:   make(map[string]int, len(columns)),
		rows:    rows,
	}
	for i, col := range columns {
		ds.index[col.Name] = i
	}
	return ds
}

// Rows returns the number of rows.
func (d *Dataset) Rows() int {
	return d.rows
}

// ColumnNames returns the column names in file order.
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.columns))
	for i, col := range d.columns {
		names[i] = col.Name
	}
	return names
}

// Column returns a copy of the named column.
func (d *Dataset) Column(name string) (Column, bool) {
	i, ok := d.index[name]
	if !ok {
		return Column{}, false
	}
	return copyColumn(d.columns[i]), true
}

// Type returns the type of the named column.
func (d *Dataset) Type(name string) (ColumnType, bool) {
	i, ok := d.index[name]
	if !ok {
		return 0, false
	}
	return d.columns[i].Type, true
}

// NumericColumns returns the names of numeric columns in file order.
func (d *Dataset) NumericColumns() []string {
	var names []string
	for _, col := range d.columns {
		if col.Type == ColumnNumeric {
			names = append(names, col.Name)
		}
	}
	return names
}

// Coerced returns, per numeric column, how many unparseable cells were
// replaced with the fill value. Columns without coercions are omitted.
func (d *Dataset) Coerced() map[string]int {
	out := make(map[string]int)
	for _, col := range d.columns {
		if col.Coerced > 0 {
			out[col.Name] = col.Coerced
		}
	}
	return out
}

// Numeric returns a copy of a numeric column's values.
func (d *Dataset) Numeric(name string) ([]float64, bool) {
	i, ok := d.index[name]
	if !ok || d.columns[i].Type != ColumnNumeric {
		return nil, false
	}
	out := make([]float64, len(d.columns[i].Numeric))
	copy(out, d.columns[i].Numeric)
	return out, true
}

// Matrix extracts the feature matrix and target vector described by spec.
// A synthetic index feature yields the zero-based row number.
func (d *Dataset) Matrix(spec FeatureSpec) (x [][]float64, y []float64) {
	y, _ = d.Numeric(spec.Target)
	if y == nil {
		y = make([]float64, d.rows)
	}

	cols := make([][]float64, len(spec.Features))
	for j, name := range spec.Features {
		if name == IndexFeature && spec.SyntheticIndex {
			idx := make([]float64, d.rows)
			for i := range idx {
				idx[i] = float64(i)
			}
			cols[j] = idx
			continue
		}
		vals, ok := d.Numeric(name)
		if !ok {
			vals = make([]float64, d.rows)
		}
		cols[j] = vals
	}

	x = make([][]float64, d.rows)
	for i := range x {
		row := make([]float64, len(cols))
		for j := range cols {
			row[j] = cols[j][i]
		}
		x[i] = row
	}
	return x, y
}

// typeColumn infers a column's type from its raw cells.
// A column is numeric when a strict majority of its present cells parse as
// floats; the remaining cells are coerced to fill and counted in Coerced.
// Categorical columns repeat a bounded set of labels; text columns are all
// distinct or have too many labels.
func typeColumn(name string, cells []string, fill float64) Column {
	col := Column{Name: name, Values: cells}

	present, invalid := 0, 0
	numeric := make([]float64, len(cells))
	for i, cell := range cells {
		if missingTokens[strings.ToLower(cell)] {
			numeric[i] = fill
			continue
		}
		present++
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			invalid++
			numeric[i] = fill
			continue
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			v = fill
		}
		numeric[i] = v
	}

	if parsed := present - invalid; parsed > 0 && parsed > invalid {
		col.Type = ColumnNumeric
		col.Numeric = numeric
		col.Coerced = invalid
		return col
	}

	distinct := make(map[string]struct{})
	for _, cell := range cells {
		if cell != "" {
			distinct[cell] = struct{}{}
		}
	}
	if len(distinct) <= 1 || (len(distinct) < len(cells) && len(distinct) <= maxCategories) {
		col.Type = ColumnCategorical
	} else {
		col.Type = ColumnText
	}
	return col
}

// uniqueNames trims header names and disambiguates blanks and duplicates.
func uniqueNames(header []string) []string {
	seen := make(map[string]int, len(header))
	names := make([]string, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = "column_" + strconv.Itoa(i)
		}
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = name + "_" + strconv.Itoa(n+1)
		} else {
			seen[name] = 0
		}
		names[i] = name
	}
	return names
}

func copyColumn(col Column) Column {
	out := Column{Name: col.Name, Type: col.Type, Coerced: col.Coerced, Derived: col.Derived}
	out.Values = append([]string(nil), col.Values...)
	if col.Numeric != nil {
		out.Numeric = append([]float64(nil), col.Numeric...)
	}
	return out
}

// distinctSorted returns the sorted set of non-empty values.
func distinctSorted(values []string) []string {
	set := make(map[string]struct{})
	for _, v := range values {
		if v != "" {
			set[v] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// FishCast - Fisheries Stock Forecasting and Optimization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fishcast

package dataset

import "strings"

// IndexFeature names the synthesized row-index feature.
const IndexFeature = "row_index"

// TargetAliases are checked in order when choosing the target column.
var TargetAliases = []string{"stok_ikan", "stock", "fish_stock", "target", "y", "output"}

// FeatureAliases are checked in order when choosing a feature column.
var FeatureAliases = []string{"bulan", "month", "bulan_normalized", "month_normalized", "x", "input"}

// TargetRule records which step of the resolution order picked the target.
type TargetRule string

// FeatureRule records which step of the resolution order picked the features.
type FeatureRule string

const (
	TargetByAlias      TargetRule = "alias"
	TargetLastNumeric  TargetRule = "last_numeric"
	FeaturesByAlias    FeatureRule = "alias"
	FeaturesAllNumeric FeatureRule = "all_numeric"
	FeaturesRowIndex   FeatureRule = "row_index"
)

// FeatureSpec names the target column and the ordered feature columns.
// Target is never one of Features, and Features is never empty.
type FeatureSpec struct {
	Target         string      `json:"target_column"`
	Features       []string    `json:"feature_columns"`
	SyntheticIndex bool        `json:"synthetic_index,omitempty"`
	TargetRule     TargetRule  `json:"target_rule"`
	FeatureRule    FeatureRule `json:"feature_rule"`
}

// Resolve picks target and features for a dataset of unknown schema.
//
// Target: the first alias in TargetAliases naming a numeric column
// (case-insensitive), else the last numeric column, else a SchemaError.
//
// Features: every numeric column other than the target that matches an
// alias in FeatureAliases, in alias priority order, followed by the
// columns Enrich derived; else every other numeric column; else a
// synthesized zero-based row index.
func Resolve(ds *Dataset) (FeatureSpec, error) {
	numeric := ds.NumericColumns()
	if len(numeric) == 0 {
		return FeatureSpec{}, &SchemaError{
			Reason:  "no numeric columns",
			Columns: ds.ColumnNames(),
		}
	}

	spec := FeatureSpec{}
	if name, ok := matchAlias(numeric, TargetAliases, ""); ok {
		spec.Target = name
		spec.TargetRule = TargetByAlias
	} else {
		spec.Target = numeric[len(numeric)-1]
		spec.TargetRule = TargetLastNumeric
	}

	if features := matchAliases(numeric, FeatureAliases, spec.Target); len(features) > 0 {
		for _, name := range numeric {
			if col := ds.columns[ds.index[name]]; col.Derived && name != spec.Target && !contains(features, name) {
				features = append(features, name)
			}
		}
		spec.Features = features
		spec.FeatureRule = FeaturesByAlias
		return spec, nil
	}

	for _, name := range numeric {
		if name != spec.Target {
			spec.Features = append(spec.Features, name)
		}
	}
	if len(spec.Features) > 0 {
		spec.FeatureRule = FeaturesAllNumeric
		return spec, nil
	}

	spec.Features = []string{IndexFeature}
	spec.SyntheticIndex = true
	spec.FeatureRule = FeaturesRowIndex
	return spec, nil
}

// matchAlias returns the first column matching an alias in priority order.
func matchAlias(columns, aliases []string, exclude string) (string, bool) {
	for _, alias := range aliases {
		for _, name := range columns {
			if name != exclude && strings.EqualFold(name, alias) {
				return name, true
			}
		}
	}
	return "", false
}

// matchAliases returns every column matching an alias, in alias priority order.
func matchAliases(columns, aliases []string, exclude string) []string {
	var out []string
	for _, alias := range aliases {
		for _, name := range columns {
			if name != exclude && strings.EqualFold(name, alias) && !contains(out, name) {
				out = append(out, name)
			}
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

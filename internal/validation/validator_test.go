// FishCast - Fisheries Stock Forecasting and Optimization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fishcast

package validation

import (
	"strings"
	"testing"
)

type optimizeRequest struct {
	Dataset        string   `json:"dataset" validate:"required,dataset_name"`
	Models         []string `json:"models" validate:"max=3,dive,required,max=16"`
	PopulationSize int      `json:"population_size" validate:"omitempty,min=2,max=500"`
	Operation      string   `json:"operation" validate:"omitempty,oneof=predict correlate optimize"`
}

func TestGetValidatorSingleton(t *testing.T) {
	t.Parallel()

	if GetValidator() != GetValidator() {
		t.Error("GetValidator() returned different instances")
	}
}

func TestValidateStruct(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		req       optimizeRequest
		wantField string
		wantTag   string
		wantMsg   string
	}{
		{name: "valid", req: optimizeRequest{Dataset: "stock.csv", Models: []string{"Linear"}, PopulationSize: 40}},
		{name: "valid without optional fields", req: optimizeRequest{Dataset: "stock.csv"}},
		{name: "missing dataset", req: optimizeRequest{}, wantField: "dataset", wantTag: "required", wantMsg: "dataset is required"},
		{name: "parent traversal", req: optimizeRequest{Dataset: "../etc/passwd"}, wantField: "dataset", wantTag: "dataset_name"},
		{name: "nested path", req: optimizeRequest{Dataset: "a/b.csv"}, wantField: "dataset", wantTag: "dataset_name"},
		{name: "windows separator", req: optimizeRequest{Dataset: `a\b.csv`}, wantField: "dataset", wantTag: "dataset_name"},
		{name: "hidden file", req: optimizeRequest{Dataset: ".env"}, wantField: "dataset", wantTag: "dataset_name"},
		{name: "population too small", req: optimizeRequest{Dataset: "s.csv", PopulationSize: 1}, wantField: "population_size", wantTag: "min", wantMsg: "population_size must be at least 2"},
		{name: "too many models", req: optimizeRequest{Dataset: "s.csv", Models: []string{"a", "b", "c", "d"}}, wantField: "models", wantTag: "max", wantMsg: "models must be at most 3 items"},
		{name: "blank model", req: optimizeRequest{Dataset: "s.csv", Models: []string{""}}, wantField: "models[0]", wantTag: "required"},
		{name: "bad operation", req: optimizeRequest{Dataset: "s.csv", Operation: "train"}, wantField: "operation", wantTag: "oneof", wantMsg: "operation must be one of: predict correlate optimize"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			verr := ValidateStruct(&tt.req)
			if tt.wantTag == "" {
				if verr != nil {
					t.Fatalf("ValidateStruct() = %v, want nil", verr)
				}
				return
			}
			if verr == nil {
				t.Fatal("ValidateStruct() = nil, want error")
			}
			got := verr.Errors()[0]
			if got.Field() != tt.wantField || got.Tag() != tt.wantTag {
				t.Errorf("error = (%s, %s), want (%s, %s)", got.Field(), got.Tag(), tt.wantField, tt.wantTag)
			}
			if tt.wantMsg != "" && got.Error() != tt.wantMsg {
				t.Errorf("message = %q, want %q", got.Error(), tt.wantMsg)
			}
		})
	}
}

func TestToAPIError(t *testing.T) {
	t.Parallel()

	single := ValidateStruct(&optimizeRequest{}).ToAPIError()
	if single.Code != "VALIDATION_ERROR" || single.Details["field"] != "dataset" {
		t.Errorf("single error = %+v", single)
	}

	multi := ValidateStruct(&optimizeRequest{PopulationSize: 1, Operation: "x"}).ToAPIError()
	fields, ok := multi.Details["fields"].([]map[string]interface{})
	if !ok || len(fields) != 3 {
		t.Fatalf("multi error details = %+v", multi.Details)
	}
	if !strings.Contains(multi.Message, "; ") {
		t.Errorf("multi message = %q", multi.Message)
	}

	empty := (&RequestValidationError{}).ToAPIError()
	if empty.Message != "Validation failed" {
		t.Errorf("empty message = %q", empty.Message)
	}
}

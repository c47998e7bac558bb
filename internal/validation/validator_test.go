// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package validation

import (
	"strings"
	"testing"
)

type profileRow struct {
	ICAO    string `csv:"icao_hex" validate:"required,icao"`
	Country string `csv:"owner_country" validate:"required,country"`
	Tier    int    `csv:"vip_tier" validate:"min=1,max=4"`
}

type historyQuery struct {
	Region string `query:"region" validate:"required,max=64"`
	Days   int    `query:"days" validate:"min=1,max=365"`
}

func TestGetValidator_Singleton(t *testing.T) {
	if GetValidator() != GetValidator() {
		t.Error("GetValidator() returned different instances")
	}
}

func TestValidateStruct_ProfileRows(t *testing.T) {
	tests := []struct {
		name    string
		row     profileRow
		wantTag string
	}{
		{"valid upper", profileRow{"ADFDF8", "US", 1}, ""},
		{"valid lower", profileRow{"43c6f2", "gb", 4}, ""},
		{"unknown country", profileRow{"3B7540", "??", 2}, ""},
		{"short icao", profileRow{"ADFDF", "US", 1}, "icao"},
		{"non hex icao", profileRow{"ADFDZ8", "US", 1}, "icao"},
		{"missing icao", profileRow{"", "US", 1}, "required"},
		{"three letter country", profileRow{"ADFDF8", "USA", 1}, "country"},
		{"digit country", profileRow{"ADFDF8", "U1", 1}, "country"},
		{"tier too low", profileRow{"ADFDF8", "US", 0}, "min"},
		{"tier too high", profileRow{"ADFDF8", "US", 5}, "max"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := ValidateStruct(&tt.row)
			if tt.wantTag == "" {
				if verr != nil {
					t.Fatalf("unexpected error: %v", verr)
				}
				return
			}
			if verr == nil {
				t.Fatalf("expected %s failure", tt.wantTag)
			}
			if got := verr.Errors()[0].Tag(); got != tt.wantTag {
				t.Errorf("tag = %q, want %q", got, tt.wantTag)
			}
		})
	}
}

func TestValidateStruct_FieldNamesFromTags(t *testing.T) {
	verr := ValidateStruct(&historyQuery{Region: "Global", Days: 400})
	if verr == nil {
		t.Fatal("expected error")
	}
	e := verr.Errors()[0]
	if e.Field() != "days" || e.Param() != "365" {
		t.Errorf("field = %q, param = %q", e.Field(), e.Param())
	}
	if e.Error() != "days must be at most 365" {
		t.Errorf("message = %q", e.Error())
	}
}

func TestToAPIError(t *testing.T) {
	single := ValidateStruct(&historyQuery{Region: "Global", Days: 0}).ToAPIError()
	if single.Code != "VALIDATION_ERROR" || single.Details["field"] != "days" {
		t.Errorf("single = %+v", single)
	}

	multi := ValidateStruct(&historyQuery{Days: 0}).ToAPIError()
	fields, ok := multi.Details["fields"].([]map[string]any)
	if !ok || len(fields) != 2 {
		t.Fatalf("multi details = %+v", multi.Details)
	}
	if !strings.Contains(multi.Message, "region is required") {
		t.Errorf("multi message = %q", multi.Message)
	}

	empty := (&RequestValidationError{}).ToAPIError()
	if empty.Message != "Validation failed" {
		t.Errorf("empty = %+v", empty)
	}
}

func TestTranslateError_StringLength(t *testing.T) {
	verr := ValidateStruct(&historyQuery{Region: strings.Repeat("x", 65), Days: 7})
	if verr == nil {
		t.Fatal("expected error")
	}
	if got := verr.Error(); got != "region must be at most 64 characters" {
		t.Errorf("message = %q", got)
	}
}

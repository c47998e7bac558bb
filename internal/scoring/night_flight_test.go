// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package scoring

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/tomtom215/skywatch/internal/models"
)

func TestLocalHour(t *testing.T) {
	tests := []struct {
		name string
		ts   time.Time
		lon  float64
		want float64
	}{
		{name: "greenwich", ts: threeAMUTC, lon: 0, want: 3},
		{name: "east shifts forward", ts: noonUTC, lon: 90, want: 18},
		{name: "west wraps below zero", ts: time.Date(2026, 1, 1, 2, 0, 0, 0, time.UTC), lon: -75, want: 21},
		{name: "east wraps past midnight", ts: time.Date(2026, 1, 1, 22, 0, 0, 0, time.UTC), lon: 45, want: 1},
		{name: "minutes are ignored", ts: time.Date(2026, 1, 1, 3, 59, 0, 0, time.UTC), lon: 0, want: 3},
		{name: "non-UTC input is normalized", ts: time.Date(2026, 1, 1, 5, 0, 0, 0, time.FixedZone("X", 2*3600)), lon: 0, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LocalHour(tt.ts, tt.lon)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("LocalHour() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsNight(t *testing.T) {
	tests := []struct {
		name string
		hour int
		lon  float64
		want bool
	}{
		{name: "midnight is night", hour: 0, want: true},
		{name: "five is night", hour: 5, want: true},
		{name: "six is day", hour: 6, want: false},
		{name: "noon is day", hour: 12, want: false},
		{name: "just before midnight", hour: 23, want: false},
		{name: "fractional local hour in window", hour: 23, lon: 20, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := time.Date(2026, 6, 1, tt.hour, 0, 0, 0, time.UTC)
			if got := IsNight(ts, tt.lon); got != tt.want {
				t.Errorf("IsNight() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNightFlightDetector_Score(t *testing.T) {
	d := NewNightFlightDetector(DefaultNightFlightConfig())

	tests := []struct {
		name          string
		records       []models.FlightRecord
		want          float64
		wantCount     int
		wantWeighted  float64
		wantCountries []string
	}{
		{
			name:    "no records",
			records: nil,
			want:    0,
		},
		{
			name: "daytime only",
			records: []models.FlightRecord{
				newRecord("AE0001", "US", withTier(1)),
			},
			want: 0,
		},
		{
			name: "single tier-1 at local three",
			records: []models.FlightRecord{
				newRecord("AE0001", "US", withTier(1), withTime(threeAMUTC)),
			},
			want:          24,
			wantCount:     1,
			wantWeighted:  3,
			wantCountries: []string{"US"},
		},
		{
			name: "two tier-1 from two countries",
			records: []models.FlightRecord{
				newRecord("AE0001", "US", withTier(1), withTime(threeAMUTC)),
				newRecord("43C001", "GB", withTier(1), withTime(threeAMUTC)),
			},
			want:          57.6,
			wantCount:     2,
			wantWeighted:  6,
			wantCountries: []string{"GB", "US"},
		},
		{
			name: "tier weights",
			records: []models.FlightRecord{
				newRecord("AE0002", "US", withTier(2), withTime(threeAMUTC)),
				newRecord("AE0003", "US", withTier(3), withTime(threeAMUTC)),
				newRecord("AE0004", "US", withTier(4), withTime(threeAMUTC)),
				newRecord("AE0005", "US", withTier(0), withTime(threeAMUTC)),
			},
			want:          44,
			wantCount:     4,
			wantWeighted:  5.5,
			wantCountries: []string{"US"},
		},
		{
			name: "raw score capped before multiplier and result capped",
			records: func() []models.FlightRecord {
				var rs []models.FlightRecord
				for i, c := range []string{"US", "GB", "FR", "DE", "IT"} {
					for j := 0; j < 3; j++ {
						rs = append(rs, newRecord(c+string(rune('A'+i))+string(rune('0'+j)), c,
							withTier(1), withTime(threeAMUTC)))
					}
				}
				return rs
			}(),
			want:          100,
			wantCount:     15,
			wantWeighted:  45,
			wantCountries: []string{"DE", "FR", "GB", "IT", "US"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Score(NewWorkingSet(tt.records))
			if got.Type != DetectorNightFlight {
				t.Errorf("Type = %v, want %v", got.Type, DetectorNightFlight)
			}
			assertScore(t, got.Value, tt.want)

			if tt.wantCount == 0 {
				if got.Context != nil {
					t.Errorf("Context = %+v, want nil", got.Context)
				}
				return
			}
			ctx, ok := got.Context.(*NightFlightContext)
			if !ok {
				t.Fatalf("Context type = %T, want *NightFlightContext", got.Context)
			}
			if ctx.Count != tt.wantCount {
				t.Errorf("Count = %d, want %d", ctx.Count, tt.wantCount)
			}
			if math.Abs(ctx.WeightedCount-tt.wantWeighted) > 1e-9 {
				t.Errorf("WeightedCount = %v, want %v", ctx.WeightedCount, tt.wantWeighted)
			}
			if !reflect.DeepEqual(ctx.Countries, tt.wantCountries) {
				t.Errorf("Countries = %v, want %v", ctx.Countries, tt.wantCountries)
			}
		})
	}
}

func TestNightFlightConfig_Validate(t *testing.T) {
	if err := DefaultNightFlightConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	bad := DefaultNightFlightConfig()
	bad.PointsPerWeight = 0
	if err := bad.Validate(); err == nil {
		t.Error("expected error for zero points_per_weight")
	}
}

// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package scoring

import (
	"reflect"
	"testing"

	"github.com/tomtom215/skywatch/internal/models"
)

func TestVIPMovementDetector_Score(t *testing.T) {
	d := NewVIPMovementDetector(DefaultVIPMovementConfig())

	tests := []struct {
		name     string
		records  []models.FlightRecord
		want     float64
		wantVIPs []VIPSummary
	}{
		{
			name:    "no records",
			records: nil,
			want:    0,
		},
		{
			name: "tier-3 VIP excluded",
			records: []models.FlightRecord{
				newRecord("AE0001", "US", withVIP(), withTier(3)),
			},
			want: 0,
		},
		{
			name: "tier-1 without VIP flag excluded",
			records: []models.FlightRecord{
				newRecord("AE0001", "US", withTier(1)),
			},
			want: 0,
		},
		{
			name: "one tier-1 aircraft seen twice by day",
			records: []models.FlightRecord{
				newRecord("ADFDF8", "US", withVIP(), withTier(1), withOrg("USAF 89th AW")),
				newRecord("ADFDF8", "US", withVIP(), withTier(1), withOrg("USAF 89th AW")),
			},
			want: 55,
			wantVIPs: []VIPSummary{
				{ICAOHex: "ADFDF8", Country: "US", Org: "USAF 89th AW", Tier: 1},
			},
		},
		{
			name: "tier-2 at night",
			records: []models.FlightRecord{
				newRecord("3C4B26", "DE", withVIP(), withTier(2), withTime(threeAMUTC), withOrg("Luftwaffe FBS")),
			},
			want: 35,
			wantVIPs: []VIPSummary{
				{ICAOHex: "3C4B26", Country: "DE", Org: "Luftwaffe FBS", Tier: 2},
			},
		},
		{
			name: "first match is representative and order is preserved",
			records: []models.FlightRecord{
				newRecord("43C6F5", "GB", withVIP(), withTier(2), withOrg("RAF")),
				newRecord("ADFDF8", "US", withVIP(), withTier(1), withOrg("USAF")),
				newRecord("43C6F5", "GB", withVIP(), withTier(2), withOrg("RAF 32 Sqn")),
			},
			want: 65,
			wantVIPs: []VIPSummary{
				{ICAOHex: "43C6F5", Country: "GB", Org: "RAF", Tier: 2},
				{ICAOHex: "ADFDF8", Country: "US", Org: "USAF", Tier: 1},
			},
		},
		{
			name: "capped at 100",
			records: []models.FlightRecord{
				newRecord("ADFDF8", "US", withVIP(), withTier(1), withTime(threeAMUTC)),
				newRecord("ADFDF8", "US", withVIP(), withTier(1), withTime(threeAMUTC)),
				newRecord("ADFDF8", "US", withVIP(), withTier(1), withTime(threeAMUTC)),
			},
			want: 100,
			wantVIPs: []VIPSummary{
				{ICAOHex: "ADFDF8", Country: "US", Org: "US Air Force", Tier: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Score(NewWorkingSet(tt.records))
			assertScore(t, got.Value, tt.want)

			if tt.wantVIPs == nil {
				if got.Context != nil {
					t.Errorf("Context = %+v, want nil", got.Context)
				}
				return
			}
			ctx, ok := got.Context.(*VIPMovementContext)
			if !ok {
				t.Fatalf("Context type = %T, want *VIPMovementContext", got.Context)
			}
			if ctx.Count != len(tt.wantVIPs) {
				t.Errorf("Count = %d, want %d", ctx.Count, len(tt.wantVIPs))
			}
			if !reflect.DeepEqual(ctx.VIPs, tt.wantVIPs) {
				t.Errorf("VIPs = %+v, want %+v", ctx.VIPs, tt.wantVIPs)
			}
		})
	}
}

// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package scoring

import "testing"

func highComponents() Components {
	return Components{
		Convergence: ComponentScore{
			Type:    DetectorConvergence,
			Value:   93.5,
			Context: &ConvergenceContext{Lat: 50, Lon: 10, Countries: []string{"GB", "US", "XX"}, FlightCount: 3},
		},
		NightFlight: ComponentScore{
			Type:    DetectorNightFlight,
			Value:   80,
			Context: &NightFlightContext{Count: 12, WeightedCount: 10, Countries: []string{"US"}},
		},
		VIPMovement: ComponentScore{
			Type:    DetectorVIPMovement,
			Value:   90,
			Context: &VIPMovementContext{Count: 3},
		},
		Airlift: ComponentScore{
			Type:    DetectorAirlift,
			Value:   75,
			Context: &AirliftContext{TotalFlights: 30, ActiveAircraft: 4, MilitaryRatio: 1},
		},
	}
}

func TestNarrate_ClauseOrder(t *testing.T) {
	got := Narrate(highComponents(), 85)
	want := "🚨 🇬🇧 🇺🇸 XX jets converging • 12 gov flights during night hours • 3 VIP aircraft active • 4 cargo aircraft in operation"
	if got != want {
		t.Errorf("Narrate() =\n%q\nwant\n%q", got, want)
	}
}

func TestNarrate_Thresholds(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Components)
		overall int
		want    string
	}{
		{
			name: "convergence at threshold is silent",
			mutate: func(c *Components) {
				c.Convergence.Value = 60
				c.NightFlight.Value = 0
				c.VIPMovement.Value = 0
				c.Airlift.Value = 0
			},
			overall: 21,
			want:    "Low activity",
		},
		{
			name: "night only",
			mutate: func(c *Components) {
				c.Convergence.Value = 0
				c.VIPMovement.Value = 40
				c.Airlift.Value = 50
			},
			overall: 38,
			want:    "👀 12 gov flights during night hours",
		},
		{
			name: "VIP and airlift",
			mutate: func(c *Components) {
				c.Convergence.Value = 10
				c.NightFlight.Value = 50
			},
			overall: 55,
			want:    "⚠️ 3 VIP aircraft active • 4 cargo aircraft in operation",
		},
		{
			name: "missing contexts suppress clauses",
			mutate: func(c *Components) {
				c.Convergence.Context = nil
				c.NightFlight.Context = nil
				c.VIPMovement.Context = nil
				c.Airlift.Context = &AirliftContext{TotalFlights: 3}
			},
			overall: 76,
			want:    "🚨 Low activity",
		},
		{
			name: "at most five countries named",
			mutate: func(c *Components) {
				c.Convergence.Context = &ConvergenceContext{
					Countries: []string{"CN", "DE", "FR", "GB", "RU", "TR", "US"},
				}
				c.NightFlight.Value = 0
				c.VIPMovement.Value = 0
				c.Airlift.Value = 0
			},
			overall: 30,
			want:    "👀 🇨🇳 🇩🇪 🇫🇷 🇬🇧 🇷🇺 jets converging",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := highComponents()
			tt.mutate(&c)
			if got := Narrate(c, tt.overall); got != tt.want {
				t.Errorf("Narrate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSeverityPrefix(t *testing.T) {
	tests := []struct {
		overall int
		want    string
	}{
		{100, "🚨"},
		{76, "🚨"},
		{75, "⚠️"},
		{51, "⚠️"},
		{50, "👀"},
		{26, "👀"},
		{25, ""},
		{0, ""},
	}

	for _, tt := range tests {
		if got := SeverityPrefix(tt.overall); got != tt.want {
			t.Errorf("SeverityPrefix(%d) = %q, want %q", tt.overall, got, tt.want)
		}
	}
}

func TestCountryMarker(t *testing.T) {
	if got := CountryMarker("US"); got != "🇺🇸" {
		t.Errorf("CountryMarker(US) = %q", got)
	}
	if got := CountryMarker("CO"); got != "🇨🇴" {
		t.Errorf("CountryMarker(CO) = %q", got)
	}
	if got := CountryMarker("BR"); got != "BR" {
		t.Errorf("CountryMarker(BR) = %q, want raw code", got)
	}
	if got := CountryMarker("??"); got != "??" {
		t.Errorf("CountryMarker(??) = %q, want raw code", got)
	}
}

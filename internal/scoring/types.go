// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package scoring

import (
	"fmt"
	"math"
)

// DetectorType identifies one of the anomaly detectors.
type DetectorType string

const (
	DetectorNightFlight DetectorType = "night_flight"
	DetectorConvergence DetectorType = "convergence"
	DetectorAirlift     DetectorType = "airlift"
	DetectorVIPMovement DetectorType = "vip_movement"
)

// MaxScore is the upper bound of every component and overall score.
const MaxScore = 100.0

// ComponentScore is the output of a single detector.
// Context is one of *NightFlightContext, *ConvergenceContext,
// *AirliftContext or *VIPMovementContext, or nil when the detector
// found nothing.
type ComponentScore struct {
	Type    DetectorType `json:"type"`
	Value   float64      `json:"value"`
	Context any          `json:"context,omitempty"`
}

// Detector scores an immutable working set.
// Implementations must not mutate the working set or any shared state.
type Detector interface {
	Type() DetectorType
	Score(ws *WorkingSet) ComponentScore
}

// NightFlightContext describes the night records behind a night-flight score.
type NightFlightContext struct {
	Count         int      `json:"count"`
	WeightedCount float64  `json:"weighted_count"`
	Countries     []string `json:"countries"`
}

// ConvergenceContext describes the winning grid cell.
type ConvergenceContext struct {
	Lat         float64  `json:"lat"`
	Lon         float64  `json:"lon"`
	Countries   []string `json:"countries"`
	FlightCount int      `json:"flight_count"`
}

// AirliftContext summarizes heavy-transport activity.
type AirliftContext struct {
	TotalFlights   int     `json:"total_flights"`
	ActiveAircraft int     `json:"active_aircraft"`
	MilitaryRatio  float64 `json:"military_ratio"`
}

// VIPSummary is one representative record for a distinct VIP aircraft.
type VIPSummary struct {
	ICAOHex string `json:"icao_hex"`
	Country string `json:"country"`
	Org     string `json:"org"`
	Tier    int    `json:"tier"`
}

// VIPMovementContext lists the distinct VIP aircraft seen in the window.
type VIPMovementContext struct {
	Count int          `json:"count"`
	VIPs  []VIPSummary `json:"vips"`
}

// Weights are the composite weights of the four detectors.
// They are configured once and must sum to 1.0.
type Weights struct {
	Convergence float64 `koanf:"convergence"`
	NightFlight float64 `koanf:"night_flight"`
	Airlift     float64 `koanf:"airlift"`
	VIPMovement float64 `koanf:"vip_movement"`
}

// DefaultWeights returns the production weights. Convergence is the
// strongest signal.
func DefaultWeights() Weights {
	return Weights{
		Convergence: 0.35,
		NightFlight: 0.30,
		Airlift:     0.20,
		VIPMovement: 0.15,
	}
}

// weightSumTolerance absorbs float rounding in configured weights.
const weightSumTolerance = 1e-9

// Validate checks that every weight is non-negative and the weights sum to 1.
func (w Weights) Validate() error {
	for name, v := range map[string]float64{
		"convergence":  w.Convergence,
		"night_flight": w.NightFlight,
		"airlift":      w.Airlift,
		"vip_movement": w.VIPMovement,
	} {
		if v < 0 {
			return fmt.Errorf("weight %s must be non-negative, got %v", name, v)
		}
	}
	sum := w.Convergence + w.NightFlight + w.Airlift + w.VIPMovement
	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("weights must sum to 1.0, got %v", sum)
	}
	return nil
}

// capScore bounds a raw score to [0, MaxScore].
func capScore(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return math.Min(MaxScore, v)
}

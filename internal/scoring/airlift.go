// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package scoring

import (
	"fmt"
	"strings"
)

// DefaultAirliftDesignators are the heavy transport model designators
// matched against the profile aircraft type.
var DefaultAirliftDesignators = []string{"C-17", "C-130", "A400M", "Il-76", "C-5", "An-124"}

// AirliftConfig holds the airlift scoring parameters.
type AirliftConfig struct {
	// Designators are matched as substrings of the aircraft type.
	Designators []string `json:"designators"`

	// ActiveSampleThreshold: an aircraft with more samples than this is active.
	ActiveSampleThreshold int `json:"active_sample_threshold"`

	// PointsPerAircraft is the base score of one active aircraft.
	PointsPerAircraft float64 `json:"points_per_aircraft"`

	// MilitaryBoost scales the military ratio into the multiplier.
	MilitaryBoost float64 `json:"military_boost"`
}

// DefaultAirliftConfig returns the production airlift parameters.
func DefaultAirliftConfig() AirliftConfig {
	designators := make([]string, len(DefaultAirliftDesignators))
	copy(designators, DefaultAirliftDesignators)
	return AirliftConfig{
		Designators:           designators,
		ActiveSampleThreshold: 5,
		PointsPerAircraft:     15,
		MilitaryBoost:         0.5,
	}
}

// Validate checks the configuration.
func (c AirliftConfig) Validate() error {
	if len(c.Designators) == 0 {
		return fmt.Errorf("at least one airlift designator is required")
	}
	for _, d := range c.Designators {
		if strings.TrimSpace(d) == "" {
			return fmt.Errorf("airlift designators must not be empty")
		}
	}
	if c.ActiveSampleThreshold < 0 {
		return fmt.Errorf("active_sample_threshold must be non-negative")
	}
	if c.PointsPerAircraft <= 0 {
		return fmt.Errorf("points_per_aircraft must be positive")
	}
	return nil
}

// AirliftDetector detects sustained heavy-transport activity.
type AirliftDetector struct {
	config AirliftConfig
}

// NewAirliftDetector creates an airlift detector.
func NewAirliftDetector(config AirliftConfig) *AirliftDetector {
	return &AirliftDetector{config: config}
}

// Type returns the detector type.
func (d *AirliftDetector) Type() DetectorType {
	return DetectorAirlift
}

// IsAirlift reports whether the aircraft type contains a configured designator.
func (d *AirliftDetector) IsAirlift(aircraftType string) bool {
	for _, designator := range d.config.Designators {
		if strings.Contains(aircraftType, designator) {
			return true
		}
	}
	return false
}

// Score counts active airlift aircraft and boosts by the military share
// of airlift records.
func (d *AirliftDetector) Score(ws *WorkingSet) ComponentScore {
	result := ComponentScore{Type: DetectorAirlift}

	var (
		total    int
		military int
		samples  = make(map[string]int)
	)
	for i := 0; i < ws.Len(); i++ {
		r := ws.At(i)
		if !d.IsAirlift(r.AircraftType) {
			continue
		}
		total++
		if r.IsMilitary {
			military++
		}
		samples[r.ICAOHex]++
	}

	if total == 0 {
		return result
	}

	active := 0
	for _, n := range samples {
		if n > d.config.ActiveSampleThreshold {
			active++
		}
	}

	ratio := float64(military) / float64(total)
	base := float64(active) * d.config.PointsPerAircraft

	result.Value = capScore(base * (1 + ratio*d.config.MilitaryBoost))
	result.Context = &AirliftContext{
		TotalFlights:   total,
		ActiveAircraft: active,
		MilitaryRatio:  ratio,
	}
	return result
}

// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package scoring

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Night window in approximate local hours, [NightStartHour, NightEndHour).
const (
	NightStartHour = 0.0
	NightEndHour   = 6.0
)

// LocalHour approximates the local hour of day from the UTC hour and the
// longitude, at 15 degrees per hour. Only the whole UTC hour is used.
// The result is in [0, 24). No DST or political time zones are applied.
func LocalHour(ts time.Time, lon float64) float64 {
	h := math.Mod(float64(ts.UTC().Hour())+lon/15.0, 24)
	if h < 0 {
		h += 24
	}
	return h
}

// IsNight reports whether the approximate local hour falls in the night window.
func IsNight(ts time.Time, lon float64) bool {
	h := LocalHour(ts, lon)
	return h >= NightStartHour && h < NightEndHour
}

// NightFlightConfig holds the night-flight scoring parameters.
type NightFlightConfig struct {
	// TierWeights maps VIP tier to the weight of one night record.
	// Tiers not listed use DefaultTierWeight.
	TierWeights map[int]float64 `json:"tier_weights"`

	// DefaultTierWeight applies to tier 4 and unknown tiers.
	DefaultTierWeight float64 `json:"default_tier_weight"`

	// PointsPerWeight converts the weighted count into the raw score.
	PointsPerWeight float64 `json:"points_per_weight"`

	// CountryBoost is added to the multiplier for every country beyond the first.
	CountryBoost float64 `json:"country_boost"`
}

// DefaultNightFlightConfig returns the production night-flight parameters.
func DefaultNightFlightConfig() NightFlightConfig {
	return NightFlightConfig{
		TierWeights:       map[int]float64{1: 3.0, 2: 2.0, 3: 1.5},
		DefaultTierWeight: 1.0,
		PointsPerWeight:   8,
		CountryBoost:      0.2,
	}
}

// Validate checks the configuration.
func (c NightFlightConfig) Validate() error {
	if c.PointsPerWeight <= 0 {
		return fmt.Errorf("points_per_weight must be positive")
	}
	if c.DefaultTierWeight < 0 || c.CountryBoost < 0 {
		return fmt.Errorf("weights and boosts must be non-negative")
	}
	return nil
}

func (c NightFlightConfig) tierWeight(tier int) float64 {
	if w, ok := c.TierWeights[tier]; ok {
		return w
	}
	return c.DefaultTierWeight
}

// NightFlightDetector flags gov/mil/VIP flights at approximate local night.
type NightFlightDetector struct {
	config NightFlightConfig
}

// NewNightFlightDetector creates a night-flight detector.
func NewNightFlightDetector(config NightFlightConfig) *NightFlightDetector {
	return &NightFlightDetector{config: config}
}

// Type returns the detector type.
func (d *NightFlightDetector) Type() DetectorType {
	return DetectorNightFlight
}

// Score weights every night record by VIP tier, converts the weighted count
// to a raw score, then boosts it by the number of distinct countries.
func (d *NightFlightDetector) Score(ws *WorkingSet) ComponentScore {
	result := ComponentScore{Type: DetectorNightFlight}

	var (
		count     int
		weighted  float64
		countries = make(map[string]struct{})
	)
	for i := 0; i < ws.Len(); i++ {
		r := ws.At(i)
		if !IsNight(r.Timestamp, r.Lon) {
			continue
		}
		count++
		weighted += d.config.tierWeight(r.VIPTier)
		countries[r.OwnerCountry] = struct{}{}
	}

	if count == 0 {
		return result
	}

	raw := capScore(weighted * d.config.PointsPerWeight)
	multiplier := 1 + float64(len(countries)-1)*d.config.CountryBoost

	result.Value = capScore(raw * multiplier)
	result.Context = &NightFlightContext{
		Count:         count,
		WeightedCount: weighted,
		Countries:     sortedKeys(countries),
	}
	return result
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

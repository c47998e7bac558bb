// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package scoring

import "fmt"

// VIPMovementConfig holds the VIP-movement scoring parameters.
type VIPMovementConfig struct {
	// MaxTier is the lowest-profile tier still counted (1 = head of state).
	MaxTier int `json:"max_tier"`

	// PointsPerAircraft is awarded once per distinct VIP aircraft.
	PointsPerAircraft float64 `json:"points_per_aircraft"`

	// Tier1Points is awarded per tier-1 record, so repeated sightings compound.
	Tier1Points float64 `json:"tier1_points"`

	// NightPoints is awarded per qualifying record at approximate local night.
	NightPoints float64 `json:"night_points"`
}

// DefaultVIPMovementConfig returns the production VIP-movement parameters.
func DefaultVIPMovementConfig() VIPMovementConfig {
	return VIPMovementConfig{
		MaxTier:           2,
		PointsPerAircraft: 25,
		Tier1Points:       15,
		NightPoints:       10,
	}
}

// Validate checks the configuration.
func (c VIPMovementConfig) Validate() error {
	if c.MaxTier < 1 || c.MaxTier > 4 {
		return fmt.Errorf("max_tier must be between 1 and 4, got %d", c.MaxTier)
	}
	if c.PointsPerAircraft <= 0 {
		return fmt.Errorf("points_per_aircraft must be positive")
	}
	return nil
}

// VIPMovementDetector tracks tier 1 and 2 VIP aircraft.
type VIPMovementDetector struct {
	config VIPMovementConfig
}

// NewVIPMovementDetector creates a VIP-movement detector.
func NewVIPMovementDetector(config VIPMovementConfig) *VIPMovementDetector {
	return &VIPMovementDetector{config: config}
}

// Type returns the detector type.
func (d *VIPMovementDetector) Type() DetectorType {
	return DetectorVIPMovement
}

// Score sums a per-aircraft base, a per-record tier-1 boost, and a
// per-record night boost. The context keeps the first record seen for each
// distinct aircraft, in working-set order.
func (d *VIPMovementDetector) Score(ws *WorkingSet) ComponentScore {
	result := ComponentScore{Type: DetectorVIPMovement}

	var (
		tier1   int
		night   int
		seen    = make(map[string]struct{})
		summary []VIPSummary
	)
	for i := 0; i < ws.Len(); i++ {
		r := ws.At(i)
		if !r.IsVIP || r.VIPTier > d.config.MaxTier {
			continue
		}
		if r.VIPTier == 1 {
			tier1++
		}
		if IsNight(r.Timestamp, r.Lon) {
			night++
		}
		if _, ok := seen[r.ICAOHex]; ok {
			continue
		}
		seen[r.ICAOHex] = struct{}{}
		summary = append(summary, VIPSummary{
			ICAOHex: r.ICAOHex,
			Country: r.OwnerCountry,
			Org:     r.OwnerOrg,
			Tier:    r.VIPTier,
		})
	}

	if len(summary) == 0 {
		return result
	}

	score := float64(len(summary))*d.config.PointsPerAircraft +
		float64(tier1)*d.config.Tier1Points +
		float64(night)*d.config.NightPoints

	result.Value = capScore(score)
	result.Context = &VIPMovementContext{
		Count: len(summary),
		VIPs:  summary,
	}
	return result
}

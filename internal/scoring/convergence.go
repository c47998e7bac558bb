// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package scoring

import (
	"fmt"
	"math"
	"sort"
)

// ConvergenceConfig holds the convergence scoring parameters.
type ConvergenceConfig struct {
	// CellsPerDegree sets the grid resolution; 2 gives 0.5 degree cells.
	CellsPerDegree float64 `json:"cells_per_degree"`

	// MinCountries is the fewest distinct countries a cell needs to score.
	MinCountries int `json:"min_countries"`

	// Exponent and PointsFactor shape countries^Exponent * PointsFactor.
	Exponent     float64 `json:"exponent"`
	PointsFactor float64 `json:"points_factor"`

	// VIPMultiplier applies when any record in the cell is VIP-flagged.
	VIPMultiplier float64 `json:"vip_multiplier"`
}

// DefaultConvergenceConfig returns the production convergence parameters.
func DefaultConvergenceConfig() ConvergenceConfig {
	return ConvergenceConfig{
		CellsPerDegree: 2,
		MinCountries:   2,
		Exponent:       1.5,
		PointsFactor:   12,
		VIPMultiplier:  1.5,
	}
}

// Validate checks the configuration.
func (c ConvergenceConfig) Validate() error {
	if c.CellsPerDegree <= 0 {
		return fmt.Errorf("cells_per_degree must be positive")
	}
	if c.MinCountries < 1 {
		return fmt.Errorf("min_countries must be at least 1")
	}
	if c.PointsFactor <= 0 || c.VIPMultiplier < 1 {
		return fmt.Errorf("points_factor must be positive and vip_multiplier at least 1")
	}
	return nil
}

// GridCell is a quantized latitude/longitude key.
type GridCell struct {
	Lat float64
	Lon float64
}

// less orders cells by latitude, then longitude.
func (c GridCell) less(o GridCell) bool {
	if c.Lat != o.Lat {
		return c.Lat < o.Lat
	}
	return c.Lon < o.Lon
}

// QuantizeCell snaps a coordinate to the nearest grid line on each axis
// independently. Exact halves round to even.
func QuantizeCell(lat, lon, cellsPerDegree float64) GridCell {
	return GridCell{
		Lat: math.RoundToEven(lat*cellsPerDegree) / cellsPerDegree,
		Lon: math.RoundToEven(lon*cellsPerDegree) / cellsPerDegree,
	}
}

type cellAggregate struct {
	countries map[string]struct{}
	records   int
	hasVIP    bool
}

// ConvergenceDetector finds the grid cell where the most countries'
// aircraft are clustered.
type ConvergenceDetector struct {
	config ConvergenceConfig
}

// NewConvergenceDetector creates a convergence detector.
func NewConvergenceDetector(config ConvergenceConfig) *ConvergenceDetector {
	return &ConvergenceDetector{config: config}
}

// Type returns the detector type.
func (d *ConvergenceDetector) Type() DetectorType {
	return DetectorConvergence
}

// Score groups records by grid cell and keeps the highest-scoring cell.
// Cells are visited in ascending (lat, lon) order and only a strictly higher
// score replaces the leader, so equal scores resolve to the smallest cell key.
func (d *ConvergenceDetector) Score(ws *WorkingSet) ComponentScore {
	result := ComponentScore{Type: DetectorConvergence}

	cells := make(map[GridCell]*cellAggregate)
	for i := 0; i < ws.Len(); i++ {
		r := ws.At(i)
		key := QuantizeCell(r.Lat, r.Lon, d.config.CellsPerDegree)
		agg, ok := cells[key]
		if !ok {
			agg = &cellAggregate{countries: make(map[string]struct{})}
			cells[key] = agg
		}
		agg.countries[r.OwnerCountry] = struct{}{}
		agg.records++
		agg.hasVIP = agg.hasVIP || r.IsVIP
	}

	keys := make([]GridCell, 0, len(cells))
	for k := range cells {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })

	var (
		best    float64
		bestKey GridCell
		found   bool
	)
	for _, key := range keys {
		agg := cells[key]
		n := len(agg.countries)
		if n < d.config.MinCountries {
			continue
		}
		score := math.Pow(float64(n), d.config.Exponent) * d.config.PointsFactor
		if agg.hasVIP {
			score *= d.config.VIPMultiplier
		}
		if !found || score > best {
			best, bestKey, found = score, key, true
		}
	}

	if !found {
		return result
	}

	winner := cells[bestKey]
	result.Value = capScore(best)
	result.Context = &ConvergenceContext{
		Lat:         bestKey.Lat,
		Lon:         bestKey.Lon,
		Countries:   sortedKeys(winner.countries),
		FlightCount: winner.records,
	}
	return result
}

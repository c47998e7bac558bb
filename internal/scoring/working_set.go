// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package scoring

import (
	"github.com/tomtom215/skywatch/internal/models"
)

// WorkingSet is the immutable batch of flight records scored in one cycle.
// It is safe for concurrent reads by any number of detectors.
type WorkingSet struct {
	records []models.FlightRecord
}

// NewWorkingSet copies records into a new working set.
func NewWorkingSet(records []models.FlightRecord) *WorkingSet {
	owned := make([]models.FlightRecord, len(records))
	copy(owned, records)
	return &WorkingSet{records: owned}
}

// Len returns the number of records.
func (ws *WorkingSet) Len() int {
	if ws == nil {
		return 0
	}
	return len(ws.records)
}

// At returns a copy of the i-th record.
func (ws *WorkingSet) At(i int) models.FlightRecord {
	return ws.records[i]
}

// Countries returns the number of distinct owner countries.
func (ws *WorkingSet) Countries() int {
	seen := make(map[string]struct{})
	for i := 0; i < ws.Len(); i++ {
		seen[ws.records[i].OwnerCountry] = struct{}{}
	}
	return len(seen)
}

// Filter returns a new working set holding the records inside region.
// The global region returns ws itself.
func (ws *WorkingSet) Filter(region Region) *WorkingSet {
	if region.IsGlobal() {
		return ws
	}
	out := make([]models.FlightRecord, 0, ws.Len())
	for i := 0; i < ws.Len(); i++ {
		if region.Contains(ws.records[i].Lat, ws.records[i].Lon) {
			out = append(out, ws.records[i])
		}
	}
	return &WorkingSet{records: out}
}

// Region is a named latitude/longitude box scored separately.
// A region without bounds is global.
type Region struct {
	Name   string  `koanf:"name"`
	MinLat float64 `koanf:"min_lat"`
	MaxLat float64 `koanf:"max_lat"`
	MinLon float64 `koanf:"min_lon"`
	MaxLon float64 `koanf:"max_lon"`
}

// GlobalRegion is the unbounded region that is always scored.
func GlobalRegion() Region {
	return Region{Name: models.GlobalRegion}
}

// IsGlobal reports whether the region has no bounds.
func (r Region) IsGlobal() bool {
	return r.MinLat == 0 && r.MaxLat == 0 && r.MinLon == 0 && r.MaxLon == 0
}

// Contains reports whether the point lies inside the box, edges included.
// Boxes with MinLon > MaxLon wrap across the antimeridian.
func (r Region) Contains(lat, lon float64) bool {
	if r.IsGlobal() {
		return true
	}
	if lat < r.MinLat || lat > r.MaxLat {
		return false
	}
	if r.MinLon <= r.MaxLon {
		return lon >= r.MinLon && lon <= r.MaxLon
	}
	return lon >= r.MinLon || lon <= r.MaxLon
}

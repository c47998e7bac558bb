// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package scoring

import (
	"math"
	"testing"
	"time"

	"github.com/tomtom215/skywatch/internal/models"
)

// noonUTC and threeAMUTC are fixed instants used across detector tests.
// At longitude 0 they map to local hours 12 and 3.
var (
	noonUTC    = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	threeAMUTC = time.Date(2026, 3, 14, 3, 0, 0, 0, time.UTC)
)

type recordOpt func(*models.FlightRecord)

func withTier(tier int) recordOpt {
	return func(r *models.FlightRecord) { r.VIPTier = tier }
}

func withVIP() recordOpt {
	return func(r *models.FlightRecord) { r.IsVIP = true }
}

func withMilitary() recordOpt {
	return func(r *models.FlightRecord) { r.IsMilitary = true }
}

func withType(aircraftType string) recordOpt {
	return func(r *models.FlightRecord) { r.AircraftType = aircraftType }
}

func withPosition(lat, lon float64) recordOpt {
	return func(r *models.FlightRecord) { r.Lat, r.Lon = lat, lon }
}

func withTime(ts time.Time) recordOpt {
	return func(r *models.FlightRecord) { r.Timestamp = ts }
}

func withOrg(org string) recordOpt {
	return func(r *models.FlightRecord) { r.OwnerOrg = org }
}

// newRecord builds a daytime tier-4 record at lat 0, lon 0.
func newRecord(icao, country string, opts ...recordOpt) models.FlightRecord {
	r := models.FlightRecord{
		ICAOHex:      icao,
		Timestamp:    noonUTC,
		OwnerCountry: country,
		OwnerOrg:     country + " Air Force",
		VIPTier:      4,
		AircraftType: "Dassault Falcon 7X",
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func assertScore(t *testing.T, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 0.01 {
		t.Errorf("score = %v, want %v", got, want)
	}
}

func assertInRange(t *testing.T, name string, v float64) {
	t.Helper()
	if v < 0 || v > MaxScore || math.IsNaN(v) {
		t.Errorf("%s = %v, want within [0, 100]", name, v)
	}
}

// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package models

import "time"

// FlightRecord is one observed position sample joined with the static
// profile of the aircraft that produced it. A nil Altitude is treated as
// ground level.
type FlightRecord struct {
	ICAOHex      string    `json:"icao_hex"`
	Callsign     string    `json:"callsign"`
	Timestamp    time.Time `json:"timestamp"`
	Lat          float64   `json:"lat"`
	Lon          float64   `json:"lon"`
	Altitude     *int      `json:"altitude,omitempty"`
	OnGround     bool      `json:"on_ground"`
	OwnerCountry string    `json:"owner_country"`
	OwnerOrg     string    `json:"owner_org"`
	VIPTier      int       `json:"vip_tier"`
	IsMilitary   bool      `json:"is_military"`
	IsVIP        bool      `json:"is_vip"`
	AircraftType string    `json:"aircraft_type"`
}

// AltitudeOrGround returns the altitude in feet, or 0 when absent.
func (r *FlightRecord) AltitudeOrGround() int {
	if r.Altitude == nil {
		return 0
	}
	return *r.Altitude
}

// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package models

import "time"

// UnknownCountry marks a profile whose owner country is not known.
const UnknownCountry = "??"

// AircraftProfile is the curated static metadata for one tracked airframe.
// ICAOHex is always stored uppercased.
type AircraftProfile struct {
	ICAOHex         string    `json:"icao_hex" validate:"required,icao"`
	Registration    string    `json:"registration" validate:"max=16"`
	AircraftType    string    `json:"aircraft_type" validate:"max=128"`
	OwnerCountry    string    `json:"owner_country" validate:"required,country"`
	OwnerOrg        string    `json:"owner_org" validate:"max=256"`
	IsMilitary      bool      `json:"is_military"`
	IsGovernment    bool      `json:"is_government"`
	IsVIP           bool      `json:"is_vip"`
	IsIntel         bool      `json:"is_intel"`
	VIPTier         int       `json:"vip_tier" validate:"min=1,max=4"`
	HomeBaseAirport string    `json:"home_base_airport" validate:"max=8"`
	Notes           string    `json:"notes"`
	LastUpdated     time.Time `json:"last_updated"`
}

// Position is one observed state vector for a tracked aircraft.
// Nullable telemetry fields are pointers; Lat and Lon are always present
// once a Position has been accepted by the poller.
type Position struct {
	Timestamp    time.Time `json:"timestamp"`
	ICAOHex      string    `json:"icao_hex"`
	Callsign     string    `json:"callsign"`
	Lat          float64   `json:"lat"`
	Lon          float64   `json:"lon"`
	Altitude     *int      `json:"altitude,omitempty"`
	GroundSpeed  *float64  `json:"ground_speed,omitempty"`
	Heading      *float64  `json:"heading,omitempty"`
	VerticalRate *float64  `json:"vertical_rate,omitempty"`
	OnGround     bool      `json:"on_ground"`
	Squawk       string    `json:"squawk,omitempty"`
	Source       string    `json:"source"`
}

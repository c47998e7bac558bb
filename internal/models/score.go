// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package models

import "time"

// GlobalRegion is the region label of the unfiltered score.
const GlobalRegion = "Global"

// PanicScoreResult is the output of one scoring cycle for one region.
// It is constructed once and never mutated afterwards.
type PanicScoreResult struct {
	Timestamp         time.Time `json:"timestamp"`
	Region            string    `json:"region"`
	NightFlightScore  float64   `json:"night_flight_score"`
	ConvergenceScore  float64   `json:"convergence_score"`
	AirliftScore      float64   `json:"airlift_score"`
	VIPMovementScore  float64   `json:"vip_movement_score"`
	OverallScore      int       `json:"overall_panic_score"`
	FlightCount       int       `json:"flight_count"`
	CountriesInvolved int       `json:"countries_involved"`
	TopAirports       []string  `json:"top_3_airports"`
	Narrative         string    `json:"narrative"`
}

// AlertType classifies a stored score for the alert feed.
type AlertType string

const (
	AlertElevated AlertType = "elevated"
	AlertHigh     AlertType = "high"
	AlertExtreme  AlertType = "extreme"
)

// Alert feed thresholds on the overall score.
const (
	AlertMinScore     = 40
	AlertHighScore    = 60
	AlertExtremeScore = 75
)

// ClassifyAlert maps an overall score to its alert type.
func ClassifyAlert(score int) AlertType {
	switch {
	case score >= AlertExtremeScore:
		return AlertExtreme
	case score >= AlertHighScore:
		return AlertHigh
	default:
		return AlertElevated
	}
}

// ScoreAlert is one entry of the alert feed.
type ScoreAlert struct {
	Region            string    `json:"region"`
	Score             int       `json:"score"`
	Narrative         string    `json:"narrative"`
	FlightCount       int       `json:"flight_count"`
	CountriesInvolved int       `json:"countries_involved"`
	Timestamp         time.Time `json:"timestamp"`
	Type              AlertType `json:"type"`
}

// HistoryPoint is one sample of a region's score history.
type HistoryPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Score     int       `json:"score"`
}

// LiveStats summarizes current tracking activity for the dashboard.
type LiveStats struct {
	ActiveAircraft  int        `json:"active_aircraft"`
	CountriesActive int        `json:"countries_active"`
	TotalProfiles   int        `json:"total_profiles"`
	VIPAircraft     int        `json:"vip_aircraft"`
	PeakScore       int        `json:"peak_score_today"`
	PeakRegion      string     `json:"peak_region"`
	LastUpdate      *time.Time `json:"last_update"`
}

// AircraftPosition is a recent position joined with profile fields.
type AircraftPosition struct {
	ICAOHex      string    `json:"icao_hex"`
	Callsign     string    `json:"callsign"`
	Lat          float64   `json:"lat"`
	Lon          float64   `json:"lon"`
	Altitude     *int      `json:"altitude"`
	GroundSpeed  *float64  `json:"ground_speed"`
	Heading      *float64  `json:"heading"`
	OwnerCountry string    `json:"owner_country"`
	OwnerOrg     string    `json:"owner_org"`
	AircraftType string    `json:"aircraft_type"`
	IsVIP        bool      `json:"is_vip"`
	VIPTier      int       `json:"vip_tier"`
	LastUpdate   time.Time `json:"last_update"`
}

// ActiveAircraft is one aircraft seen recently, aggregated over its samples.
type ActiveAircraft struct {
	ICAOHex      string    `json:"icao_hex"`
	Callsign     string    `json:"callsign"`
	OwnerCountry string    `json:"owner_country"`
	OwnerOrg     string    `json:"owner_org"`
	AircraftType string    `json:"aircraft_type"`
	IsVIP        bool      `json:"is_vip"`
	VIPTier      int       `json:"vip_tier"`
	LastSeen     time.Time `json:"last_seen"`
}

// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

/*
Package models defines the data structures shared by the ingestion poller,
the DuckDB store, the scoring engine, and the HTTP API.

Key types:

  - AircraftProfile: static metadata for one tracked airframe (aircraft_profiles)
  - Position: one observed state vector sample (flight_positions)
  - FlightRecord: a Position joined with its AircraftProfile, the unit of scoring
  - PanicScoreResult: one composite score row (panic_scores)

API view types (ScoreAlert, HistoryPoint, LiveStats, AircraftPosition,
ActiveAircraft) mirror the JSON shapes served under /api/v1.
*/
package models

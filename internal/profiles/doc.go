// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

// Package profiles loads curated aircraft profiles from CSV for seeding
// the aircraft_profiles table. See Columns for the expected header.
package profiles

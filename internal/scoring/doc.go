// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

// Package scoring computes the composite anomaly ("panic") score from a
// window of joined flight/profile records.
//
// Scoring Architecture:
//
//	WindowLoader -> WorkingSet -> Detectors (x4) -> Scorer -> Narrative -> Persister
//	                                                   |
//	                                                   v
//	                                            ScoreListeners (websocket, NATS)
//
// Each calculation cycle loads a fresh, immutable WorkingSet and runs four
// independent detectors over it. Detectors are pure: they hold only their
// configuration and never touch the database, so they can run concurrently.
//
// Detectors:
//   - Night Flight: gov/mil/VIP flights between 00:00 and 06:00 approximate local time
//   - Convergence: aircraft from several countries in the same 0.5 degree grid cell
//   - Airlift: sustained heavy-transport activity
//   - VIP Movement: tier 1 and tier 2 VIP aircraft in the air
//
// The Scorer combines component scores with fixed weights (convergence 0.35,
// night 0.30, airlift 0.20, VIP 0.15) and floors the sum into an integer
// overall score. The Engine wires loader, scorer, and persister into a
// single cycle run by the scheduler.
package scoring

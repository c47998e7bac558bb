// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

// Package scheduler runs periodic tasks (ingestion polls, scoring cycles,
// retention pruning) as supervised services.
package scheduler

// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

// Package spool buffers position batches on disk while DuckDB rejects writes.
//
// The ingestion poller writes a batch here when InsertPositions fails and
// drains the spool at the start of every poll, so a short database outage
// loses no telemetry. Batches are stored in BadgerDB under time-ordered keys
// and replayed oldest first. Batches older than spool.max_age are discarded.
package spool

// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

/*
Package eventprocessor publishes panic scores to NATS JetStream.

Every score the engine persists is marshalled to JSON and published with
Watermill on subject <subject_prefix>.<region>, e.g.
skywatch.scores.global. The SKYWATCH_SCORES stream captures every subject
under the prefix and is created or updated on Start.

For single-node deployments the package can run an embedded NATS server
with JetStream (nats.embedded_server), so downstream consumers only need
a NATS URL.

Publishing is best effort. A circuit breaker stops publish attempts after
five consecutive failures, and scoring continues regardless.
*/
package eventprocessor

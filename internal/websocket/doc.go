// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

/*
Package websocket pushes every newly persisted panic score to browser clients.

The Hub is registered as a scoring.ScoreListener. After each region's score
is written, clients connected to /ws receive:

	{"type": "panic_score", "data": {"region": "Global", "overall_panic_score": 57, ...}}

Clients may send {"type":"ping"} and get {"type":"pong"} back. A client
whose send buffer fills up is disconnected rather than slowing the hub.
*/
package websocket

// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

// Package services adapts Skywatch components to suture.Service.
//
//   - HTTPServerService: ListenAndServe/Shutdown to Serve, with a drain timeout
//   - WebSocketHubService: the score broadcast hub
//   - NATSPublisherService: Start/Shutdown lifecycle of the score publisher
//   - LoopService: any func(ctx) that runs until canceled
//
// The schedulers from internal/scheduler implement suture.Service directly.
package services

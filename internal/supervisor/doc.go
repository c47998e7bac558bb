// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

/*
Package supervisor runs Skywatch's long-lived services under a suture v4 tree.

Services are grouped into four layers so a crash in one is restarted locally:

	skywatch
	├── ingestion-layer
	│   ├── scheduler-ingestion   OpenSky poll every ingestion.interval
	│   ├── scheduler-prune       position retention
	│   └── spool-gc              badger value log GC (if spool.enabled)
	├── scoring-layer
	│   └── scheduler-scoring     scoring cycle every scoring.interval
	├── messaging-layer
	│   ├── websocket-hub
	│   ├── stats-cache-cleanup
	│   └── nats-publisher        (if nats.enabled)
	└── api-layer
	    └── http-server

Supervisor events are logged through sutureslog, backed by the zerolog
slog handler from internal/logging.

# Usage

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfigFrom(cfg.Supervisor))
	tree.AddScoringService(scoringScheduler)
	tree.AddAPIService(services.NewHTTPServerService(srv, cfg.Server.ShutdownTimeout))
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    logging.Error().Err(err).Msg("Supervisor stopped")
	}

Wrappers that adapt components to suture.Service live in the services subpackage.
*/
package supervisor

// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/tomtom215/skywatch/internal/api"
	"github.com/tomtom215/skywatch/internal/config"
	"github.com/tomtom215/skywatch/internal/database"
	"github.com/tomtom215/skywatch/internal/eventprocessor"
	"github.com/tomtom215/skywatch/internal/ingestion"
	"github.com/tomtom215/skywatch/internal/logging"
	"github.com/tomtom215/skywatch/internal/metrics"
	"github.com/tomtom215/skywatch/internal/scheduler"
	"github.com/tomtom215/skywatch/internal/scoring"
	"github.com/tomtom215/skywatch/internal/spool"
	"github.com/tomtom215/skywatch/internal/supervisor"
	"github.com/tomtom215/skywatch/internal/supervisor/services"
	ws "github.com/tomtom215/skywatch/internal/websocket"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	logging.Info().
		Str("version", version).
		Str("db_path", cfg.Database.Path).
		Bool("ingestion", cfg.Ingestion.Enabled).
		Bool("scoring", cfg.Scoring.Enabled).
		Bool("nats", cfg.NATS.Enabled).
		Bool("spool", cfg.Spool.Enabled).
		Msg("Starting Skywatch")

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Skywatch stopped with error")
	}
	logging.Info().Msg("Application stopped gracefully")
}

//nolint:gocyclo // sequential wiring
func run(cfg *config.Config) error {
	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized")

	var positionSpool *spool.Spool
	if cfg.Spool.Enabled {
		positionSpool, err = spool.Open(cfg.Spool)
		if err != nil {
			return fmt.Errorf("open spool: %w", err)
		}
		defer func() {
			if err := positionSpool.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing spool")
			}
		}()
		logging.Info().Str("path", cfg.Spool.Path).Int("pending_batches", positionSpool.Depth()).Msg("Position spool opened")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfigFrom(cfg.Supervisor))

	// === INGESTION LAYER ===

	if cfg.Ingestion.Enabled {
		// A nil *spool.Spool must not reach the interface.
		var sp ingestion.PositionSpool
		if positionSpool != nil {
			sp = positionSpool
		}
		poller := ingestion.NewPoller(ingestion.NewClient(&cfg.OpenSky), db, sp, cfg.Ingestion)

		sched, err := scheduler.New(poller, scheduler.Config{
			Interval:       cfg.Ingestion.Interval,
			Cooldown:       cfg.Ingestion.Cooldown,
			RunImmediately: true,
		})
		if err != nil {
			return fmt.Errorf("ingestion scheduler: %w", err)
		}
		tree.AddIngestionService(sched)
		logging.Info().Dur("interval", cfg.Ingestion.Interval).Str("url", cfg.OpenSky.BaseURL).Msg("Ingestion poller added")
	} else {
		logging.Info().Msg("Ingestion disabled (INGESTION_ENABLED=false)")
	}

	if positionSpool != nil {
		tree.AddIngestionService(services.NewLoopService("spool-gc", func(ctx context.Context) {
			positionSpool.RunGC(ctx, 10*time.Minute)
		}))
	}

	prune, err := scheduler.New(scheduler.TaskFunc{
		TaskName: "prune-positions",
		Fn: func(ctx context.Context) error {
			deleted, err := db.PrunePositions(ctx, cfg.Database.Retention)
			if err == nil && deleted > 0 {
				logging.Ctx(ctx).Info().Int64("deleted", deleted).Dur("retention", cfg.Database.Retention).Msg("Pruned old positions")
			}
			return err
		},
	}, scheduler.Config{Interval: cfg.Database.PruneInterval, Timeout: 5 * time.Minute, RunImmediately: true})
	if err != nil {
		return fmt.Errorf("prune scheduler: %w", err)
	}
	tree.AddIngestionService(prune)

	// === MESSAGING LAYER ===

	hub := ws.NewHub()
	tree.AddMessagingService(services.NewWebSocketHubService(hub))

	var publisher *eventprocessor.ScorePublisher
	if cfg.NATS.Enabled {
		publisher = eventprocessor.NewScorePublisher(cfg.NATS)
		tree.AddMessagingService(services.NewNATSPublisherService(publisher, cfg.Supervisor.ShutdownTimeout))
		logging.Info().
			Bool("embedded", cfg.NATS.EmbeddedServer).
			Str("prefix", cfg.NATS.SubjectPrefix).
			Msg("NATS score publisher added")
	} else {
		logging.Info().Msg("NATS publishing disabled (NATS_ENABLED=false)")
	}

	// === API LAYER ===

	handler := api.NewHandler(db, hub, cfg.API.StatsCacheTTL)
	router := api.NewRouter(handler, api.NewChiMiddleware(api.ChiMiddlewareConfigFrom(cfg.API)))

	if cfg.API.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.Setup(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	tree.AddAPIService(services.NewLoopService("stats-cache-sweeper", func(ctx context.Context) {
		handler.StatsCache().Run(ctx, time.Minute)
	}))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// === SCORING LAYER ===

	if cfg.Scoring.Enabled {
		scorer, err := scoring.NewScorer(cfg.Scoring.ScorerConfig())
		if err != nil {
			return fmt.Errorf("create scorer: %w", err)
		}
		engine := scoring.NewEngine(scorer, db, db, cfg.Scoring.EngineConfig())
		engine.AddListener(handler)
		engine.AddListener(hub)
		if publisher != nil {
			engine.AddListener(publisher)
		}

		sched, err := scheduler.New(engine, scheduler.Config{
			Interval:       cfg.Scoring.Interval,
			Cooldown:       cfg.Scoring.Cooldown,
			RunImmediately: true,
		})
		if err != nil {
			return fmt.Errorf("scoring scheduler: %w", err)
		}
		tree.AddScoringService(sched)
		logging.Info().
			Dur("interval", cfg.Scoring.Interval).
			Dur("lookback", cfg.Scoring.Lookback).
			Int("regions", len(cfg.Scoring.Regions)+1).
			Msg("Scoring engine added")
	} else {
		logging.Info().Msg("Scoring disabled (SCORING_ENABLED=false)")
	}

	// === START SUPERVISOR TREE ===

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	logging.Info().Msg("Starting supervisor tree...")
	var treeErr error
	for err := range tree.ServeBackground(ctx) {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
			treeErr = err
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	if err := db.Checkpoint(context.Background()); err != nil {
		logging.Warn().Err(err).Msg("Final database checkpoint failed")
	}
	return treeErr
}

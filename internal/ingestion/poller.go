// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package ingestion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/skywatch/internal/cache"
	"github.com/tomtom215/skywatch/internal/config"
	"github.com/tomtom215/skywatch/internal/logging"
	"github.com/tomtom215/skywatch/internal/metrics"
	"github.com/tomtom215/skywatch/internal/models"
	"github.com/tomtom215/skywatch/internal/scoring"
	"github.com/tomtom215/skywatch/internal/spool"
)

// ErrNoTrackedAircraft is returned when the tracked set has never been loaded.
var ErrNoTrackedAircraft = errors.New("tracked aircraft set not loaded")

// PositionStore is the subset of the database the poller writes to.
type PositionStore interface {
	InsertPositions(ctx context.Context, positions []models.Position) (int, error)
	ListTrackedIDs(ctx context.Context) ([]string, error)
}

// PositionSpool buffers batches the store rejected.
type PositionSpool interface {
	Write(ctx context.Context, positions []models.Position) (string, error)
	Drain(ctx context.Context, fn spool.DrainFunc) (int, error)
	Depth() int
}

// PollResult summarizes one poll.
type PollResult struct {
	Fetched    int
	Tracked    int
	Stored     int
	Spooled    int
	Replayed   int
	Duplicates int
	Malformed  int
}

// Poller fetches OpenSky state vectors, keeps the tracked aircraft and
// appends their positions to the store.
type Poller struct {
	fetcher StateFetcher
	store   PositionStore
	spool   PositionSpool
	tracked *TrackedSet
	dedupe  *cache.LRUCache
	cfg     config.IngestionConfig
	now     func() time.Time
}

// NewPoller creates a poller. sp may be nil to disable spooling.
func NewPoller(fetcher StateFetcher, store PositionStore, sp PositionSpool, cfg config.IngestionConfig) *Poller {
	if cfg.TrackedRefresh <= 0 {
		cfg.TrackedRefresh = time.Hour
	}
	return &Poller{
		fetcher: fetcher,
		store:   store,
		spool:   sp,
		tracked: NewTrackedSet(),
		dedupe:  cache.NewLRUCache(cfg.DedupeCapacity, cfg.DedupeWindow),
		cfg:     cfg,
		now:     time.Now,
	}
}

// Tracked exposes the tracked set.
func (p *Poller) Tracked() *TrackedSet {
	return p.tracked
}

// Name identifies the poller as a scheduled task.
func (p *Poller) Name() string {
	return "ingestion"
}

// Run executes one poll.
func (p *Poller) Run(ctx context.Context) error {
	_, err := p.PollOnce(ctx)
	return err
}

// RefreshTracked reloads the tracked set from the profile store.
func (p *Poller) RefreshTracked(ctx context.Context) error {
	ids, err := p.store.ListTrackedIDs(ctx)
	if err != nil {
		return fmt.Errorf("list tracked ids: %w", err)
	}
	p.tracked.Replace(ids, p.now())
	logging.Ctx(ctx).Info().Int("tracked", len(ids)).Msg("Tracked aircraft set refreshed")
	return nil
}

// PollOnce runs one poll: refresh the tracked set when stale, replay the
// spool, fetch, filter, dedupe and store.
//
// When the store rejects the batch it is spooled and the poll still
// succeeds. The poll fails only if the batch could be neither stored nor
// spooled, or if nothing could be fetched.
func (p *Poller) PollOnce(ctx context.Context) (PollResult, error) {
	ctx = logging.ContextWithNewCorrelationID(ctx)
	logger := logging.Ctx(ctx).With().Str("component", "ingestion").Logger()

	start := time.Now()
	var res PollResult
	defer func() {
		metrics.RecordPoll(time.Since(start), metrics.PollStats{
			Fetched:    res.Fetched,
			Tracked:    res.Tracked,
			Stored:     res.Stored + res.Replayed,
			Spooled:    res.Spooled,
			Duplicates: res.Duplicates,
			Malformed:  res.Malformed,
		})
	}()

	now := p.now()
	if p.tracked.Stale(now, p.cfg.TrackedRefresh) {
		if err := p.RefreshTracked(ctx); err != nil {
			if !p.tracked.Loaded() {
				return res, errors.Join(ErrNoTrackedAircraft, err)
			}
			logger.Warn().Err(err).Msg("Tracked set refresh failed, keeping previous set")
		}
	}

	if p.spool != nil && p.spool.Depth() > 0 {
		n, err := p.spool.Drain(ctx, p.insert)
		res.Replayed = n
		if err != nil {
			logger.Warn().Err(err).Int("replayed", n).Msg("Spool replay stopped")
		} else if n > 0 {
			logger.Info().Int("replayed", n).Msg("Spooled positions replayed")
		}
	}

	states, err := p.fetcher.FetchStates(ctx)
	if err != nil {
		return res, fmt.Errorf("fetch states: %w", err)
	}

	positions, keys := p.filter(states, now, &res)
	if len(positions) == 0 {
		logger.Debug().Int("fetched", res.Fetched).Int("tracked", res.Tracked).Msg("No new tracked positions")
		return res, nil
	}

	if err := p.insert(ctx, positions); err != nil {
		logger.Warn().Err(err).Int("positions", len(positions)).Msg("Position insert failed")
		if spErr := p.spoolBatch(ctx, positions); spErr != nil {
			// Forget the samples so the next poll can retry them.
			for _, k := range keys {
				p.dedupe.Remove(k)
			}
			return res, errors.Join(err, spErr)
		}
		res.Spooled = len(positions)
		return res, nil
	}
	res.Stored = len(positions)

	logger.Info().
		Int("fetched", res.Fetched).
		Int("tracked", res.Tracked).
		Int("stored", res.Stored).
		Int("duplicates", res.Duplicates).
		Msg("Poll complete")
	return res, nil
}

// filter keeps tracked vectors with coordinates that were not seen before.
func (p *Poller) filter(states *StatesResponse, now time.Time, res *PollResult) ([]models.Position, []string) {
	if states == nil {
		return nil, nil
	}
	res.Fetched = len(states.States)

	var (
		positions []models.Position
		keys      []string
	)
	for _, raw := range states.States {
		sv, ok := ParseStateVector(raw)
		if !ok || !p.tracked.Contains(sv.ICAO24) {
			continue
		}
		res.Tracked++

		if !sv.HasPosition() {
			res.Malformed++
			logging.Debug().Err(scoring.MissingPosition(sv.ICAO24, sv.ObservedAt(now))).Msg("Dropping state vector")
			continue
		}

		key := sv.DedupeKey(now)
		if p.dedupe.IsDuplicate(key) {
			res.Duplicates++
			continue
		}

		positions = append(positions, sv.ToPosition(now))
		keys = append(keys, key)
	}
	return positions, keys
}

func (p *Poller) insert(ctx context.Context, positions []models.Position) error {
	_, err := p.store.InsertPositions(ctx, positions)
	return err
}

func (p *Poller) spoolBatch(ctx context.Context, positions []models.Position) error {
	if p.spool == nil {
		return errors.New("spool disabled")
	}
	if _, err := p.spool.Write(ctx, positions); err != nil {
		return fmt.Errorf("spool batch: %w", err)
	}
	return nil
}

// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package scoring

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tomtom215/skywatch/internal/logging"
	"github.com/tomtom215/skywatch/internal/metrics"
	"github.com/tomtom215/skywatch/internal/models"
)

// WindowLoader loads the flight records observed within lookback of now,
// joined with their aircraft profiles.
type WindowLoader interface {
	LoadWindow(ctx context.Context, lookback time.Duration) ([]models.FlightRecord, error)
}

// ScorePersister writes one computed result.
type ScorePersister interface {
	StoreScore(ctx context.Context, result *models.PanicScoreResult) error
}

// ScoreListener is notified after a result has been persisted.
// Implementations must not block for long; failures are theirs to log.
type ScoreListener interface {
	OnScore(ctx context.Context, result *models.PanicScoreResult)
}

// EngineConfig configures the scoring cycle.
type EngineConfig struct {
	// Lookback is the window duration loaded every cycle.
	Lookback time.Duration `json:"lookback"`

	// LoadTimeout bounds the window load.
	LoadTimeout time.Duration `json:"load_timeout"`

	// PersistTimeout bounds each result write.
	PersistTimeout time.Duration `json:"persist_timeout"`

	// Regions are scored in addition to the global region.
	Regions []Region `json:"regions"`
}

// DefaultEngineConfig returns the production cycle configuration.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Lookback:       12 * time.Hour,
		LoadTimeout:    30 * time.Second,
		PersistTimeout: 10 * time.Second,
	}
}

// Engine runs one complete scoring cycle: load, score per region, persist,
// notify. It holds no state between cycles.
type Engine struct {
	scorer    *Scorer
	loader    WindowLoader
	persister ScorePersister
	config    EngineConfig
	regions   []Region

	mu        sync.RWMutex
	listeners []ScoreListener

	now func() time.Time
}

// NewEngine creates a scoring engine. The global region is always scored
// first, followed by every configured bounded region.
func NewEngine(scorer *Scorer, loader WindowLoader, persister ScorePersister, cfg EngineConfig) *Engine {
	regions := []Region{GlobalRegion()}
	for _, r := range cfg.Regions {
		if r.IsGlobal() || r.Name == models.GlobalRegion {
			continue
		}
		regions = append(regions, r)
	}
	return &Engine{
		scorer:    scorer,
		loader:    loader,
		persister: persister,
		config:    cfg,
		regions:   regions,
		now:       time.Now,
	}
}

// AddListener registers a listener for persisted results.
func (e *Engine) AddListener(l ScoreListener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, l)
}

// Name identifies the engine as a scheduled task.
func (e *Engine) Name() string {
	return "scoring"
}

// Run executes one cycle and discards the results.
func (e *Engine) Run(ctx context.Context) error {
	_, err := e.RunCycle(ctx)
	return err
}

// RunCycle loads the window once and scores every region against it.
//
// A failed load degrades to an empty working set, so every region still
// gets a zero "No data" result, and the load error is returned wrapped in
// ErrDataUnavailable. A failed write loses that region's result and is
// returned wrapped in ErrPersistenceFailure. Results that were persisted
// are returned even when the cycle also reports errors.
func (e *Engine) RunCycle(ctx context.Context) ([]models.PanicScoreResult, error) {
	ctx = logging.ContextWithNewCorrelationID(ctx)
	logger := logging.Ctx(ctx).With().Str("component", "scoring").Logger()

	start := time.Now()
	now := e.now().UTC()

	var errs []error

	records, err := e.load(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("Window load failed, scoring empty window")
		errs = append(errs, err)
		records = nil
	}
	ws := NewWorkingSet(records)
	metrics.ScoringWorkingSetSize.Set(float64(ws.Len()))

	results := make([]models.PanicScoreResult, 0, len(e.regions))
	for _, region := range e.regions {
		sub := ws.Filter(region)

		composite, err := e.scorer.Score(ctx, sub)
		if err != nil {
			errs = append(errs, fmt.Errorf("score region %s: %w", region.Name, err))
			continue
		}

		result := buildResult(now, region.Name, sub, composite)
		if err := e.persist(ctx, result); err != nil {
			metrics.ScorePersistenceFailures.Inc()
			logger.Error().Err(err).Str("region", region.Name).Msg("Failed to persist panic score")
			errs = append(errs, err)
			continue
		}

		metrics.RecordScore(result.Region, result.NightFlightScore, result.ConvergenceScore,
			result.AirliftScore, result.VIPMovementScore, result.OverallScore)
		logger.Info().
			Str("region", result.Region).
			Int("overall", result.OverallScore).
			Int("flights", result.FlightCount).
			Int("countries", result.CountriesInvolved).
			Str("narrative", result.Narrative).
			Msg("Panic score computed")

		e.notify(ctx, result)
		results = append(results, *result)
	}

	cycleErr := errors.Join(errs...)
	metrics.RecordScoringCycle(time.Since(start), cycleErr)
	return results, cycleErr
}

func (e *Engine) load(ctx context.Context) ([]models.FlightRecord, error) {
	if e.config.LoadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.LoadTimeout)
		defer cancel()
	}
	records, err := e.loader.LoadWindow(ctx, e.config.Lookback)
	if err != nil {
		if errors.Is(err, ErrDataUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: load window: %w", ErrDataUnavailable, err)
	}
	return records, nil
}

func (e *Engine) persist(ctx context.Context, result *models.PanicScoreResult) error {
	if e.config.PersistTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.PersistTimeout)
		defer cancel()
	}
	if err := e.persister.StoreScore(ctx, result); err != nil {
		return fmt.Errorf("%w: region %s: %w", ErrPersistenceFailure, result.Region, err)
	}
	return nil
}

func (e *Engine) notify(ctx context.Context, result *models.PanicScoreResult) {
	e.mu.RLock()
	listeners := make([]ScoreListener, len(e.listeners))
	copy(listeners, e.listeners)
	e.mu.RUnlock()

	for _, l := range listeners {
		l.OnScore(ctx, result)
	}
}

func buildResult(now time.Time, region string, ws *WorkingSet, c Composite) *models.PanicScoreResult {
	return &models.PanicScoreResult{
		Timestamp:         now,
		Region:            region,
		NightFlightScore:  c.Components.NightFlight.Value,
		ConvergenceScore:  c.Components.Convergence.Value,
		AirliftScore:      c.Components.Airlift.Value,
		VIPMovementScore:  c.Components.VIPMovement.Value,
		OverallScore:      c.Overall,
		FlightCount:       ws.Len(),
		CountriesInvolved: ws.Countries(),
		TopAirports:       []string{},
		Narrative:         c.Narrative,
	}
}

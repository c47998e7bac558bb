// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package scoring

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"
)

// Components holds the four detector outputs of one scoring pass.
type Components struct {
	NightFlight ComponentScore `json:"night_flight"`
	Convergence ComponentScore `json:"convergence"`
	Airlift     ComponentScore `json:"airlift"`
	VIPMovement ComponentScore `json:"vip_movement"`
}

// Composite is the result of scoring one working set.
type Composite struct {
	Components Components
	Overall    int
	Narrative  string
}

// ScorerConfig configures the composite scorer.
type ScorerConfig struct {
	Weights     Weights
	NightFlight NightFlightConfig
	Convergence ConvergenceConfig
	Airlift     AirliftConfig
	VIPMovement VIPMovementConfig

	// Parallelism bounds concurrent detector runs. 1 runs them sequentially.
	Parallelism int
}

// DefaultScorerConfig returns the production scorer configuration.
func DefaultScorerConfig() ScorerConfig {
	return ScorerConfig{
		Weights:     DefaultWeights(),
		NightFlight: DefaultNightFlightConfig(),
		Convergence: DefaultConvergenceConfig(),
		Airlift:     DefaultAirliftConfig(),
		VIPMovement: DefaultVIPMovementConfig(),
		Parallelism: 4,
	}
}

// Validate checks every detector configuration and the weights.
func (c ScorerConfig) Validate() error {
	if err := c.Weights.Validate(); err != nil {
		return fmt.Errorf("weights: %w", err)
	}
	if err := c.NightFlight.Validate(); err != nil {
		return fmt.Errorf("night_flight: %w", err)
	}
	if err := c.Convergence.Validate(); err != nil {
		return fmt.Errorf("convergence: %w", err)
	}
	if err := c.Airlift.Validate(); err != nil {
		return fmt.Errorf("airlift: %w", err)
	}
	if err := c.VIPMovement.Validate(); err != nil {
		return fmt.Errorf("vip_movement: %w", err)
	}
	return nil
}

// Scorer runs the detectors over a working set and combines their outputs.
// A Scorer holds no mutable state and may be shared across goroutines.
type Scorer struct {
	weights     Weights
	parallelism int
	detectors   [4]Detector
}

// Detector slots, in the fixed order results are reported.
const (
	slotNightFlight = iota
	slotConvergence
	slotAirlift
	slotVIPMovement
)

// NewScorer creates a scorer from a validated configuration.
func NewScorer(cfg ScorerConfig) (*Scorer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	parallelism := cfg.Parallelism
	if parallelism < 1 {
		parallelism = 1
	}
	return &Scorer{
		weights:     cfg.Weights,
		parallelism: parallelism,
		detectors: [4]Detector{
			slotNightFlight: NewNightFlightDetector(cfg.NightFlight),
			slotConvergence: NewConvergenceDetector(cfg.Convergence),
			slotAirlift:     NewAirliftDetector(cfg.Airlift),
			slotVIPMovement: NewVIPMovementDetector(cfg.VIPMovement),
		},
	}, nil
}

// Weights returns the composite weights.
func (s *Scorer) Weights() Weights {
	return s.weights
}

// Score runs every detector and composes the overall score and narrative.
// An empty working set skips the detectors entirely and yields "No data".
// Detectors only read ws, so they run concurrently; each writes its own slot.
func (s *Scorer) Score(ctx context.Context, ws *WorkingSet) (Composite, error) {
	if ws.Len() == 0 {
		return Composite{
			Components: emptyComponents(),
			Narrative:  NoDataNarrative,
		}, nil
	}

	var results [4]ComponentScore
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism)
	for i, d := range s.detectors {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = d.Score(ws)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Composite{}, fmt.Errorf("run detectors: %w", err)
	}

	components := Components{
		NightFlight: results[slotNightFlight],
		Convergence: results[slotConvergence],
		Airlift:     results[slotAirlift],
		VIPMovement: results[slotVIPMovement],
	}
	overall := s.Overall(components)

	return Composite{
		Components: components,
		Overall:    overall,
		Narrative:  Narrate(components, overall),
	}, nil
}

// Overall floors the weighted sum of the component values into [0, 100].
func (s *Scorer) Overall(c Components) int {
	sum := c.Convergence.Value*s.weights.Convergence +
		c.NightFlight.Value*s.weights.NightFlight +
		c.Airlift.Value*s.weights.Airlift +
		c.VIPMovement.Value*s.weights.VIPMovement
	return int(math.Floor(capScore(sum)))
}

func emptyComponents() Components {
	return Components{
		NightFlight: ComponentScore{Type: DetectorNightFlight},
		Convergence: ComponentScore{Type: DetectorConvergence},
		Airlift:     ComponentScore{Type: DetectorAirlift},
		VIPMovement: ComponentScore{Type: DetectorVIPMovement},
	}
}

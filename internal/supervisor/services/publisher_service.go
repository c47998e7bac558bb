// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package services

import (
	"context"
	"fmt"
	"time"
)

// PublisherRunner is satisfied by *eventprocessor.ScorePublisher.
type PublisherRunner interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context)
}

// NATSPublisherService starts the score event publisher (and the embedded
// NATS server when configured) and shuts it down on cancellation.
type NATSPublisherService struct {
	runner          PublisherRunner
	shutdownTimeout time.Duration
}

// NewNATSPublisherService wraps runner. A non-positive timeout means 10s.
func NewNATSPublisherService(runner PublisherRunner, shutdownTimeout time.Duration) *NATSPublisherService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &NATSPublisherService{runner: runner, shutdownTimeout: shutdownTimeout}
}

// Serve implements suture.Service. A failed start is returned so suture
// retries it with backoff.
func (s *NATSPublisherService) Serve(ctx context.Context) error {
	if err := s.runner.Start(ctx); err != nil {
		return fmt.Errorf("NATS publisher start failed: %w", err)
	}

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	s.runner.Shutdown(shutdownCtx)

	return ctx.Err()
}

func (s *NATSPublisherService) String() string {
	return "nats-publisher"
}

// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package services

import "context"

// LoopService supervises a function that runs until its context is done,
// such as spool.RunGC or cache.Run.
type LoopService struct {
	name string
	run  func(ctx context.Context)
}

// NewLoopService wraps run under name.
func NewLoopService(name string, run func(ctx context.Context)) *LoopService {
	return &LoopService{name: name, run: run}
}

// Serve implements suture.Service.
func (l *LoopService) Serve(ctx context.Context) error {
	l.run(ctx)
	return ctx.Err()
}

func (l *LoopService) String() string {
	return l.name
}

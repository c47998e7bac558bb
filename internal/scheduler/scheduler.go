// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/skywatch/internal/logging"
	"github.com/tomtom215/skywatch/internal/metrics"
)

// Task is one unit of periodic work.
type Task interface {
	Name() string
	Run(ctx context.Context) error
}

// TaskFunc adapts a function to Task.
type TaskFunc struct {
	TaskName string
	Fn       func(ctx context.Context) error
}

// Name returns the task name.
func (f TaskFunc) Name() string { return f.TaskName }

// Run calls Fn.
func (f TaskFunc) Run(ctx context.Context) error { return f.Fn(ctx) }

// Config controls how often a task runs.
type Config struct {
	// Interval between the end of one run and the start of the next.
	Interval time.Duration

	// Cooldown replaces Interval after a failed run. Zero means Interval.
	Cooldown time.Duration

	// Timeout bounds a single run. Zero means Interval.
	Timeout time.Duration

	// RunImmediately runs the task once when Serve starts.
	RunImmediately bool
}

// Scheduler runs a Task on a fixed interval until its context is canceled.
//
// A run is never interrupted by cancellation: it gets its own context
// detached from the parent and bounded by Timeout. Cancellation is checked
// between runs. A failed run is logged and followed by Cooldown; it never
// ends the loop.
//
// Scheduler implements suture.Service.
type Scheduler struct {
	task   Task
	config Config
	after  func(time.Duration) <-chan time.Time
}

// New creates a scheduler for task.
func New(task Task, cfg Config) (*Scheduler, error) {
	if task == nil {
		return nil, fmt.Errorf("scheduler: task is required")
	}
	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("scheduler %s: interval must be positive", task.Name())
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = cfg.Interval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = cfg.Interval
	}
	return &Scheduler{task: task, config: cfg, after: time.After}, nil
}

// Serve runs the loop until ctx is canceled.
func (s *Scheduler) Serve(ctx context.Context) error {
	logger := logging.WithComponent("scheduler").With().Str("task", s.task.Name()).Logger()
	logger.Info().
		Dur("interval", s.config.Interval).
		Dur("cooldown", s.config.Cooldown).
		Msg("Scheduler started")

	wait := s.config.Interval
	if s.config.RunImmediately {
		wait = 0
	}

	for {
		// A timer armed after cancellation would only be abandoned.
		if wait > 0 && ctx.Err() == nil {
			select {
			case <-ctx.Done():
			case <-s.after(wait):
			}
		}
		if ctx.Err() != nil {
			logger.Info().Msg("Scheduler stopped")
			return ctx.Err()
		}

		if err := s.RunOnce(ctx); err != nil {
			logger.Warn().Err(err).Dur("cooldown", s.config.Cooldown).Msg("Task failed")
			wait = s.config.Cooldown
		} else {
			wait = s.config.Interval
		}
	}
}

// RunOnce runs the task a single time with a detached, time-bounded context.
// It recovers a panicking task into an error.
func (s *Scheduler) RunOnce(ctx context.Context) (err error) {
	runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.Timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task %s panicked: %v", s.task.Name(), r)
		}
		metrics.RecordSchedulerRun(s.task.Name(), err)
	}()

	return s.task.Run(runCtx)
}

// String implements fmt.Stringer for suture logging.
func (s *Scheduler) String() string {
	return "scheduler-" + s.task.Name()
}

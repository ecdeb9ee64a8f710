// FishCast - Fisheries Stock Forecasting and Optimization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fishcast

package services

import (
	"context"
	"fmt"

	"github.com/thejerf/suture/v4"
)

// JobRunner is the lifecycle subset of *jobs.Manager.
type JobRunner interface {
	Run(ctx context.Context) error
	Close() error
}

// JobRouterService runs the job router. A watermill router cannot be run
// again once closed, so an unexpected exit stops the service for good
// instead of restarting it.
type JobRouterService struct {
	runner JobRunner
	name   string
}

// NewJobRouterService wraps runner.
func NewJobRouterService(runner JobRunner) *JobRouterService {
	return &JobRouterService{runner: runner, name: "job-router"}
}

// Serve implements suture.Service.
func (s *JobRouterService) Serve(ctx context.Context) error {
	err := s.runner.Run(ctx)
	closeErr := s.runner.Close()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err == nil {
		err = closeErr
	}
	if err == nil {
		err = fmt.Errorf("job router exited")
	}
	return fmt.Errorf("%w: %w", suture.ErrDoNotRestart, err)
}

func (s *JobRouterService) String() string {
	return s.name
}

// FishCast - Fisheries Stock Forecasting and Optimization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fishcast

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// GarbageCollector is satisfied by *storage.Store.
type GarbageCollector interface {
	RunGC(ratio float64) error
}

// StorageGCService compacts the result store's value log on a fixed
// interval. GC failures are logged and retried on the next tick.
type StorageGCService struct {
	store    GarbageCollector
	interval time.Duration
	ratio    float64
	logger   zerolog.Logger
	name     string
}

// NewStorageGCService creates the GC loop.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewStorageGCService(store GarbageCollector, interval time.Duration, ratio float64, logger zerolog.Logger) *StorageGCService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	if ratio <= 0 || ratio >= 1 {
		ratio = 0.5
	}
	return &StorageGCService{
		store:    store,
		interval: interval,
		ratio:    ratio,
		logger:   logger.With().Str("component", "storage_gc").Logger(),
		name:     "storage-gc",
	}
}

// Serve implements suture.Service.
func (s *StorageGCService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			start := time.Now()
			if err := s.store.RunGC(s.ratio); err != nil {
				s.logger.Warn().Err(err).Msg("Value log GC failed")
				continue
			}
			s.logger.Debug().Dur("duration", time.Since(start)).Msg("Value log GC complete")
		}
	}
}

func (s *StorageGCService) String() string {
	return s.name
}

// FishCast - Fisheries Stock Forecasting and Optimization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fishcast

package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// HTTPServer is the lifecycle subset of *http.Server.
type HTTPServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// HTTPServerService serves the API until its context ends, then drains
// in-flight requests for at most the drain timeout.
type HTTPServerService struct {
	server HTTPServer
	drain  time.Duration
	logger zerolog.Logger
}

// NewHTTPServerService wraps server. A non-positive drain defaults to 10s.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewHTTPServerService(server HTTPServer, drain time.Duration, logger zerolog.Logger) *HTTPServerService {
	if drain <= 0 {
		drain = 10 * time.Second
	}
	return &HTTPServerService{
		server: server,
		drain:  drain,
		logger: logger.With().Str("component", "http_server").Logger(),
	}
}

// Serve implements suture.Service. A listen failure is returned so the
// supervisor can retry with backoff.
func (h *HTTPServerService) Serve(ctx context.Context) error {
	done := make(chan error, 1)
	go func() { done <- h.server.ListenAndServe() }()

	select {
	case err := <-done:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http listen: %w", err)
	case <-ctx.Done():
	}

	h.logger.Info().Dur("drain_timeout", h.drain).Msg("Draining HTTP connections")
	drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.drain)
	defer cancel()
	if err := h.server.Shutdown(drainCtx); err != nil {
		return fmt.Errorf("http drain: %w", err)
	}
	if err := <-done; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http listen: %w", err)
	}
	return ctx.Err()
}

func (h *HTTPServerService) String() string {
	return "http-server"
}

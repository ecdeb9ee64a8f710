// FishCast - Fisheries Stock Forecasting and Optimization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fishcast

// Package main is the FishCast server.
//
// Startup order:
//
//  1. Configuration (koanf: defaults, config.yaml, environment)
//  2. Logging
//  3. Forecast engine and result store
//  4. Job manager (if JOBS_ENABLED)
//  5. Supervisor tree with the storage GC loop, job router and HTTP server
//
// Datasets are CSV files in DATASET_DIR and are addressed by file name:
//
//	export DATASET_DIR=./datasets
//	export STORAGE_PATH=./data/results
//	./fishcast
//	curl -X POST localhost:8080/api/v1/forecast/predict \
//	  -d '{"dataset":"stok_ikan.csv","models":["Linear","LSTM"]}'
//
// SIGINT and SIGTERM cancel the tree; the HTTP server drains in-flight
// requests and the job router finishes the handler it is running.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/fishcast/internal/api"
	"github.com/tomtom215/fishcast/internal/config"
	"github.com/tomtom215/fishcast/internal/forecast"
	"github.com/tomtom215/fishcast/internal/jobs"
	"github.com/tomtom215/fishcast/internal/logging"
	"github.com/tomtom215/fishcast/internal/metrics"
	"github.com/tomtom215/fishcast/internal/service"
	"github.com/tomtom215/fishcast/internal/storage"
	"github.com/tomtom215/fishcast/internal/supervisor"
	"github.com/tomtom215/fishcast/internal/supervisor/services"
)

// version is set with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		logging.Error().Err(err).Msg("FishCast exited with error")
		os.Exit(1)
	}
}

//nolint:gocyclo // sequential startup steps
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	logging.Init(cfg.ToLoggingConfig())
	metrics.SetAppInfo(version)

	logger := logging.Logger()
	logger.Info().
		Str("version", version).
		Str("dataset_dir", cfg.Dataset.Dir).
		Str("storage_path", cfg.Storage.Path).
		Bool("storage_in_memory", cfg.Storage.InMemory).
		Bool("sequence_models", cfg.Forecast.SequenceModels).
		Bool("jobs_enabled", cfg.Jobs.Enabled).
		Msg("Starting FishCast")

	engine, err := forecast.NewEngine(cfg.ToForecastConfig(), logger)
	if err != nil {
		return err
	}

	store, err := storage.Open(storage.Config{Path: cfg.Storage.Path, InMemory: cfg.Storage.InMemory}, logger)
	if err != nil {
		return fmt.Errorf("open result store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing result store")
		}
	}()

	forecaster := service.NewForecaster(engine, store, logger)

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Jobs.CloseTimeout,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	if cfg.Storage.GCInterval > 0 && !cfg.Storage.InMemory {
		tree.AddDataService(services.NewStorageGCService(store, cfg.Storage.GCInterval, cfg.Storage.GCRatio, logger))
	}

	var queue api.JobQueue
	if cfg.Jobs.Enabled {
		manager, err := jobs.NewManager(jobs.Config{
			Buffer:       cfg.Jobs.Buffer,
			CloseTimeout: cfg.Jobs.CloseTimeout,
		}, store, forecaster, logger)
		if err != nil {
			return fmt.Errorf("create job manager: %w", err)
		}
		tree.AddJobsService(services.NewJobRouterService(manager))
		queue = manager
	} else {
		logger.Info().Msg("Job queue disabled (JOBS_ENABLED=false)")
	}

	handler := api.NewHandler(forecaster, store, queue, api.HandlerConfig{
		DefaultPageSize: cfg.API.DefaultPageSize,
		MaxPageSize:     cfg.API.MaxPageSize,
		Version:         version,
	})
	middleware := api.NewChiMiddleware(api.MiddlewareConfig{
		CORSAllowedOrigins: cfg.Security.CORSOrigins,
		CORSMaxAge:         86400,
		RateLimitRequests:  cfg.Security.RateLimitReqs,
		RateLimitWindow:    cfg.Security.RateLimitWindow,
		RateLimitDisabled:  cfg.Security.RateLimitDisabled,
	})
	router := api.NewRouter(handler, middleware, cfg.Server.RequestTimeout)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.RequestTimeout + cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second, logger))
	logger.Info().Str("addr", server.Addr).Msg("HTTP server configured")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	errCh := tree.ServeBackground(ctx)
	var treeErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
		treeErr = <-errCh
	case treeErr = <-errCh:
	}
	if treeErr != nil && !errors.Is(treeErr, context.Canceled) {
		logging.Error().Err(treeErr).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
	}
	logging.Info().Msg("FishCast stopped")
	return nil
}

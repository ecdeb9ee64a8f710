// FishCast - Fisheries Stock Forecasting and Optimization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fishcast

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto and
exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

Forecast Metrics:
  - fishcast_model_training_duration_seconds: Fit plus predict time (histogram)
    Labels: model
  - fishcast_model_mse: Most recent test-set MSE (gauge)
    Labels: model
  - fishcast_model_fallbacks_total: Requests served by the Linear fallback (counter)
    Labels: model (the requested name, "other" when unknown)
  - fishcast_dataset_loads_total: Dataset loads (counter)
    Labels: reader (structured, permissive, empty), status
  - fishcast_dataset_cache_lookups_total: Parsed dataset cache lookups (counter)
    Labels: result (hit, miss)
  - fishcast_correlation_requests_total: Correlation runs (counter)
    Labels: status (ok, insufficient, error)
  - fishcast_optimizer_duration_seconds: Search time (histogram)
  - fishcast_optimizer_degraded_total: Searches that returned the fixed result (counter)

API Metrics:
  - fishcast_api_requests_total: Requests (counter)
    Labels: method, endpoint, status
  - fishcast_api_request_duration_seconds: Latency (histogram)
    Labels: method, endpoint, status
  - fishcast_api_active_requests: In-flight requests (gauge)
  - fishcast_api_rate_limit_hits_total: Rejected by the rate limiter (counter)

Job Metrics:
  - fishcast_jobs_total: Job transitions (counter)
    Labels: operation, status (queued, completed, failed)
  - fishcast_job_duration_seconds: Job execution time (histogram)
    Labels: operation

Storage Metrics:
  - fishcast_storage_operation_duration_seconds: Badger operation time (histogram)
    Labels: operation
  - fishcast_storage_errors_total: Failed Badger operations (counter)
    Labels: operation

Application Metrics:
  - fishcast_app_info: Build information (gauge, always 1)
    Labels: version, go_version
  - fishcast_app_uptime_seconds: Process uptime (gauge)

# Usage

Components call the Record* helpers rather than touching collectors directly:

	start := time.Now()
	pred, err := model.Predict(x)
	metrics.RecordModelTraining("LSTM", time.Since(start), mse)

Model label values are limited to the known model names so that arbitrary
request input cannot grow label cardinality.
*/
package metrics

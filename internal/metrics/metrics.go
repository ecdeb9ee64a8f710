// FishCast - Fisheries Stock Forecasting and Optimization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fishcast

package metrics

import (
	"runtime"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Forecast Metrics
	ModelTrainingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fishcast_model_training_duration_seconds",
			Help:    "Duration of model fit and prediction in seconds",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60}, // Linear is sub-ms, sequence models take seconds
		},
		[]string{"model"},
	)

	ModelMSE = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fishcast_model_mse",
			Help: "Test-set mean squared error of the most recent training run",
		},
		[]string{"model"},
	)

	ModelFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fishcast_model_fallbacks_total",
			Help: "Total number of model requests served by the Linear fallback",
		},
		[]string{"model"},
	)

	DatasetLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fishcast_dataset_loads_total",
			Help: "Total number of dataset loads by reader strategy",
		},
		[]string{"reader", "status"},
	)

	DatasetCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fishcast_dataset_cache_lookups_total",
			Help: "Total number of parsed dataset cache lookups",
		},
		[]string{"result"}, // hit, miss
	)

	CorrelationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fishcast_correlation_requests_total",
			Help: "Total number of correlation analyses",
		},
		[]string{"status"},
	)

	OptimizerDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fishcast_optimizer_duration_seconds",
			Help:    "Duration of evolutionary searches in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	OptimizerDegraded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fishcast_optimizer_degraded_total",
			Help: "Total number of optimizations that returned the fixed degenerate result",
		},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fishcast_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fishcast_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "endpoint", "status"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fishcast_api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fishcast_api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Job Metrics
	JobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fishcast_jobs_total",
			Help: "Total number of forecast job state transitions",
		},
		[]string{"operation", "status"},
	)

	JobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fishcast_job_duration_seconds",
			Help:    "Duration of asynchronous forecast jobs in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
		},
		[]string{"operation"},
	)

	// Storage Metrics
	StorageOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fishcast_storage_operation_duration_seconds",
			Help:    "Duration of result store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	StorageErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fishcast_storage_errors_total",
			Help: "Total number of failed result store operations",
		},
		[]string{"operation"},
	)

	// Application Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fishcast_app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fishcast_app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// knownModels bounds the model label to the supported names.
var knownModels = map[string]string{
	"linear": "Linear",
	"rnn":    "RNN",
	"lstm":   "LSTM",
	"gru":    "GRU",
	"bilstm": "BiLSTM",
}

// ModelLabel normalizes a requested model name into a bounded label value.
func ModelLabel(name string) string {
	if label, ok := knownModels[strings.ToLower(strings.TrimSpace(name))]; ok {
		return label
	}
	return "other"
}

// RecordModelTraining records a completed training run
func RecordModelTraining(model string, duration time.Duration, mse float64) {
	label := ModelLabel(model)
	ModelTrainingDuration.WithLabelValues(label).Observe(duration.Seconds())
	ModelMSE.WithLabelValues(label).Set(mse)
}

// RecordModelFallback records a request served by the Linear fallback
func RecordModelFallback(requested string) {
	ModelFallbacks.WithLabelValues(ModelLabel(requested)).Inc()
}

// RecordDatasetLoad records which reader produced a dataset
func RecordDatasetLoad(reader string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	DatasetLoads.WithLabelValues(reader, status).Inc()
}

// RecordDatasetCache records a parsed dataset cache lookup
func RecordDatasetCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	DatasetCacheLookups.WithLabelValues(result).Inc()
}

// RecordCorrelation records a correlation analysis outcome
func RecordCorrelation(insufficient bool, err error) {
	status := "ok"
	switch {
	case err != nil:
		status = "error"
	case insufficient:
		status = "insufficient"
	}
	CorrelationRequests.WithLabelValues(status).Inc()
}

// RecordOptimization records an evolutionary search
func RecordOptimization(duration time.Duration, degraded bool) {
	OptimizerDuration.Observe(duration.Seconds())
	if degraded {
		OptimizerDegraded.Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, status string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint, status).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRateLimitHit records a request rejected by the rate limiter
func RecordRateLimitHit(endpoint string) {
	APIRateLimitHits.WithLabelValues(endpoint).Inc()
}

// RecordJob records a job state transition. Duration is observed for
// terminal states only.
func RecordJob(operation, status string, duration time.Duration) {
	JobsTotal.WithLabelValues(operation, status).Inc()
	if status == "completed" || status == "failed" {
		JobDuration.WithLabelValues(operation).Observe(duration.Seconds())
	}
}

// RecordStorageOperation records a result store operation
func RecordStorageOperation(operation string, duration time.Duration, err error) {
	StorageOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		StorageErrors.WithLabelValues(operation).Inc()
	}
}

// SetAppInfo publishes the build version
func SetAppInfo(version string) {
	AppInfo.WithLabelValues(version, runtime.Version()).Set(1)
}

// UpdateUptime sets the uptime gauge relative to start.
func UpdateUptime(start time.Time) {
	AppUptime.Set(time.Since(start).Seconds())
}

// FishCast - Fisheries Stock Forecasting and Optimization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fishcast

// Package api exposes the forecast engine over REST using the chi router.
//
// Every JSON response uses the APIResponse envelope. Errors carry a
// machine-readable code: DATASET_NOT_FOUND (404), SCHEMA_RESOLUTION_FAILED
// (422), VALIDATION_ERROR (400) or INTERNAL_ERROR (500).
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/fishcast/internal/metrics"
)

// Router wires handlers and middleware into a chi mux.
type Router struct {
	handler        *Handler
	middleware     *ChiMiddleware
	requestTimeout time.Duration
}

// NewRouter creates a router. A zero requestTimeout leaves forecast
// requests unbounded.
func NewRouter(handler *Handler, middleware *ChiMiddleware, requestTimeout time.Duration) *Router {
	return &Router{handler: handler, middleware: middleware, requestTimeout: requestTimeout}
}

// Setup builds the HTTP handler.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.middleware.CORS())
	r.Use(RequestLogger)
	r.Use(chimiddleware.Compress(5, "application/json", "text/csv"))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed", nil)
	})

	r.Handle("/metrics", router.metricsHandler())

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.middleware.RateLimit())
		r.Use(PrometheusMetrics)

		r.Route("/forecast", func(r chi.Router) {
			if router.requestTimeout > 0 {
				r.Use(RequestTimeout(router.requestTimeout))
			}
			r.Post("/predict", router.handler.Predict)
			r.Post("/correlate", router.handler.Correlate)
			r.Post("/optimize", router.handler.Optimize)
		})

		r.Post("/jobs", router.handler.SubmitJob)
		r.Get("/jobs/{id}", router.handler.GetJob)

		r.Route("/predictions", func(r chi.Router) {
			r.Get("/", router.handler.ListPredictions)
			r.Get("/batches/{batch}/export", router.handler.ExportBatch)
			r.Get("/{id}", router.handler.GetPrediction)
			r.Delete("/{id}", router.handler.DeletePrediction)
		})

		r.Get("/correlations/{id}", router.handler.GetCorrelation)
		r.Get("/optimizations/{id}", router.handler.GetOptimization)
	})

	return r
}

// metricsHandler refreshes the uptime gauge before each scrape.
func (router *Router) metricsHandler() http.Handler {
	prom := promhttp.Handler()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		metrics.UpdateUptime(router.handler.startTime)
		prom.ServeHTTP(w, r)
	})
}

// FishCast - Fisheries Stock Forecasting and Optimization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fishcast

// Package services adapts FishCast components to suture.Service: the HTTP
// server (ListenAndServe/Shutdown), the job router (Run/Close) and the
// storage GC loop. Every wrapper implements fmt.Stringer so supervisor
// events name the service.
package services

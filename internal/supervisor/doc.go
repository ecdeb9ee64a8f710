// FishCast - Fisheries Stock Forecasting and Optimization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fishcast

/*
Package supervisor runs the FishCast long-running services under a suture v4
supervisor tree.

	RootSupervisor ("fishcast")
	├── DataSupervisor ("data-layer")
	│   └── StorageGCService (if STORAGE_GC_INTERVAL > 0)
	├── JobsSupervisor ("jobs-layer")
	│   └── JobRouterService (if JOBS_ENABLED)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Each layer counts failures independently, so a failing storage GC never
backs off the HTTP server. The job router is not restarted after an
unexpected exit because a closed watermill router cannot run again; the
API then reports jobs as stopped. Supervisor events are logged through
sutureslog and the zerolog slog adapter:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second, logger))
	err = tree.Serve(ctx)
*/
package supervisor

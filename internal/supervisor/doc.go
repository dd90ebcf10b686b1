// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

/*
Package supervisor runs the long-lived parts of the server under suture v4.

The tree has two layers so a failing background job cannot stop the API:

	RootSupervisor ("tablesense")
	├── EngineSupervisor ("engine-layer")
	│   └── DashboardWarmerService (if orchestrator warm ids are configured)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services are restarted with suture's backoff. Supervisor events are
logged through sutureslog, so the tree takes a *slog.Logger; the logging
package bridges it onto zerolog.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddEngineService(services.NewDashboardWarmerService(orch, warmCfg, log.Logger))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	return tree.Serve(ctx)
*/
package supervisor

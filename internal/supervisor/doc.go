// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

/*
Package supervisor runs the station's long-lived services under suture v4.

Services are grouped into three layers so a failure in one does not take
down the others:

	RootSupervisor ("turnstile")
	├── ScanningSupervisor ("scanning-layer")
	│   └── ScannerService (when scanner.auto_start and a camera are set)
	├── MessagingSupervisor ("messaging-layer")
	│   ├── WebSocketHubService
	│   └── NotificationSocketService (when notifications are enabled)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Supervisor events are logged through sutureslog onto the zerolog-backed
slog handler from internal/logging.

Usage:

	tree, err := supervisor.NewSupervisorTree(logger, supervisor.TreeConfigFrom(&cfg.Supervisor))
	if err != nil {
	    return err
	}
	tree.AddMessagingService(services.NewWebSocketHubService(hub))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	return tree.Serve(ctx)

Service wrappers live in the services subpackage.
*/
package supervisor

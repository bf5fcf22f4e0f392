// Turnstile - Event Check-in Station
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/turnstile

package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/ThreeDotsLabs/watermill"

	"github.com/tomtom215/turnstile/internal/api"
	"github.com/tomtom215/turnstile/internal/attendance"
	"github.com/tomtom215/turnstile/internal/authz"
	"github.com/tomtom215/turnstile/internal/backend"
	"github.com/tomtom215/turnstile/internal/camera"
	"github.com/tomtom215/turnstile/internal/config"
	"github.com/tomtom215/turnstile/internal/eventbus"
	"github.com/tomtom215/turnstile/internal/logging"
	"github.com/tomtom215/turnstile/internal/notify"
	"github.com/tomtom215/turnstile/internal/qr"
	"github.com/tomtom215/turnstile/internal/scan"
	"github.com/tomtom215/turnstile/internal/supervisor"
	"github.com/tomtom215/turnstile/internal/supervisor/services"
	ws "github.com/tomtom215/turnstile/internal/websocket"
)

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	station, _ := os.Hostname()
	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Station:   station,
		Fields:    map[string]string{"event_id": cfg.Event.ID},
	})

	logging.Info().
		Str("portal", cfg.Backend.URL).
		Str("scanner_mode", cfg.Scanner.Mode).
		Str("camera", cfg.Camera.Source).
		Msg("Starting Turnstile with supervisor tree")

	role := resolveRole(cfg)

	enforcer, err := authz.NewEnforcer()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize authorization")
	}
	if err := enforcer.Authorize(role, authz.ObjectSession, authz.ActionWrite); err != nil {
		// The dashboard still serves read-only views; scanning is refused per request.
		logging.Warn().Str("role", role).Msg("Operator may not open scanning sessions")
	}

	// Portal client with rate limiting and circuit breaker
	client := backend.NewBreakerClient(&cfg.Backend)
	pingCtx, pingCancel := context.WithTimeout(context.Background(), cfg.Backend.RequestTimeout)
	if err := client.Ping(pingCtx); err != nil {
		logging.Warn().Err(err).Msg("Portal not reachable (will retry on demand)")
	} else {
		logging.Info().Msg("Connected to portal successfully")
	}
	pingCancel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Bridges zerolog to slog for sutureslog
	slogLogger := logging.NewSlogLogger()

	tree, err := supervisor.NewSupervisorTree(slogLogger, supervisor.TreeConfigFrom(&cfg.Supervisor))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	// Dashboard hub, created first so every component can publish to it
	wsHub := ws.NewHub()
	notifier := notify.MultiNotifier{notify.LogNotifier{}, notify.NewHubNotifier(wsHub)}

	// Scan, attendance and session events reach the hub through the bus
	bus := eventbus.New(eventbus.DefaultBuffer, watermill.NewSlogLogger(slogLogger))
	defer func() { _ = bus.Close() }()

	roster := attendance.NewRoster(cfg.Event.ID, client, cfg.Backend.CheckInTimeout, notifier, bus)
	loadCtx, loadCancel := context.WithTimeout(ctx, cfg.Backend.RequestTimeout)
	if err := roster.Load(loadCtx); err != nil {
		logging.Warn().Err(err).Str("event_id", cfg.Event.ID).Msg("Failed to load attendance (will retry on refresh)")
	} else {
		stats := roster.Stats()
		logging.Info().
			Int("registered", stats.Total).
			Int("checked_in", stats.CheckedIn).
			Msg("Attendance loaded")
	}
	loadCancel()

	store := notify.NewStore(client)
	store.OnNew(wsHub.BroadcastNotification)
	refreshCtx, refreshCancel := context.WithTimeout(ctx, cfg.Backend.RequestTimeout)
	if err := store.Refresh(refreshCtx); err != nil {
		logging.Warn().Err(err).Msg("Failed to fetch notifications")
	}
	refreshCancel()

	var socket *notify.Socket
	if cfg.Notifications.Enabled {
		socket = notify.NewSocket(&cfg.Notifications, cfg.Backend.Token, store)
	} else {
		logging.Info().Msg("Notification socket disabled")
	}

	source, err := camera.New(&cfg.Camera)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to configure camera")
	}

	var decoderOpts []qr.DecoderOption
	if cfg.Scanner.TryHarder {
		decoderOpts = append(decoderOpts, qr.WithTryHarder())
	}
	decoder := qr.NewDecoder(decoderOpts...)

	manager := scan.NewManager(scan.Options{
		EventID:        cfg.Event.ID,
		Cooldown:       cfg.Scanner.Cooldown,
		FrameInterval:  cfg.Scanner.FrameInterval,
		AckDuration:    cfg.Scanner.AckDuration,
		CheckInTimeout: cfg.Backend.CheckInTimeout,
		SingleShot:     cfg.Scanner.SingleShot(),
	}, scan.Deps{
		Source:    source,
		Decoder:   decoder,
		Client:    client,
		Notifier:  notifier,
		Refresher: roster,
		Publisher: bus,
	}, func() error {
		return enforcer.Authorize(role, authz.ObjectSession, authz.ActionWrite)
	})

	deps := api.Dependencies{
		Config:   cfg,
		Scanner:  manager,
		Roster:   roster,
		Store:    store,
		Hub:      wsHub,
		Events:   bus,
		Backend:  client,
		Enforcer: enforcer,
		Decoder:  decoder,
		Role:     role,
	}
	if socket != nil {
		deps.Socket = socket
	}
	handler := api.NewHandler(deps)

	httpServer := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           api.NewRouter(handler, &cfg.Security),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       120 * time.Second,
	}

	// Messaging layer
	tree.AddMessagingService(services.NewWebSocketHubService(wsHub))
	logging.Info().Msg("WebSocket hub added to supervisor tree")

	tree.AddMessagingService(eventbus.NewForwarder(bus, wsHub))
	logging.Info().Msg("Event forwarder added to supervisor tree")

	if socket != nil {
		tree.AddMessagingService(services.NewNotificationSocketService(socket))
		logging.Info().Str("url", cfg.Notifications.SocketURL).Msg("Notification socket added to supervisor tree")
	}

	// Scanning layer
	if cfg.Scanner.AutoStart {
		if manager.HasCamera() {
			tree.AddScanningService(services.NewScannerService(manager, bus))
			logging.Info().Msg("Scanner auto-start added to supervisor tree")
		} else {
			logging.Warn().Msg("Scanner auto-start requested without a camera source; open sessions from the dashboard")
		}
	}

	// API layer
	tree.AddAPIService(services.NewHTTPServerService(httpServer, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", httpServer.Addr).Msg("HTTP server added to supervisor tree")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	case <-ctx.Done():
		logging.Info().Msg("Shutting down supervisor tree...")
		if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree shutdown error")
		}
	}

	// Sessions opened from the dashboard are not owned by the tree
	manager.Close()

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Turnstile stopped gracefully")
}

// resolveRole returns the operator role carried by the portal token,
// falling back to the configured role. An expired token is fatal.
func resolveRole(cfg *config.Config) string {
	claims, err := backend.ParseToken(cfg.Backend.Token)
	switch {
	case errors.Is(err, backend.ErrTokenExpired):
		logging.Fatal().Time("expired_at", claims.ExpiresAt).Msg("Portal token has expired")
	case err != nil:
		logging.Warn().Err(err).Str("role", cfg.Security.OperatorRole).Msg("Could not read portal token claims; using configured role")
		return cfg.Security.OperatorRole
	}

	logging.Info().
		Str("user_id", claims.UserID).
		Str("name", claims.Name).
		Str("role", claims.Role).
		Msg("Operator identified")

	if claims.Role == "" {
		return cfg.Security.OperatorRole
	}
	return claims.Role
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the admin console server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fastadmin/internal/cache"
	"fastadmin/internal/config"
	"fastadmin/internal/database"
	"fastadmin/internal/handlers"
	"fastadmin/internal/platform"
	"fastadmin/internal/query"
	"fastadmin/internal/render"
	"fastadmin/internal/router"
	"fastadmin/internal/session"
	"fastadmin/internal/store"
)

func main() {
	// Structured logger — outputs JSON in production, text in development.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"platform_api", cfg.PlatformAPIURL,
	)

	// Connect to PostgreSQL (console-local: 2FA enrollment, audit trail).
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (sessions, flashes, query cache).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// In non-development environments, mark cookies as Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)

	// The read-through cache in front of the platform API.
	queryCache := query.NewCache(valkeyClient, time.Duration(cfg.CacheTTL)*time.Second)

	// The typed client for the upstream platform API.
	api := platform.New(cfg.PlatformAPIURL)

	// Initialize the HTML template renderer for the console pages.
	// In dev mode, templates load assets from CDN; in production they use
	// compiled local files embedded in the binary.
	renderer, err := render.New(cfg.IsDev())
	if err != nil {
		slog.Error("failed to initialize template renderer", "error", err)
		os.Exit(1)
	}

	// Console-local data stores.
	adminStore := store.NewAdminStore(db)
	auditStore := store.NewAuditStore(db)

	// Create handler groups with their dependencies.
	authHandlers := handlers.NewAuth(renderer, sessionStore, adminStore, api, queryCache)
	adminHandlers := handlers.NewAdmin(renderer, sessionStore, api, queryCache, auditStore)
	promptHandlers := handlers.NewPrompts(renderer, sessionStore, api, queryCache, auditStore)
	storageHandlers := handlers.NewStorage(renderer, sessionStore, api, queryCache, auditStore)

	// Set up the Chi router with all middleware and routes.
	r := router.New(sessionStore, authHandlers, adminHandlers, promptHandlers, storageHandlers, router.Options{
		SecureCookies: secureCookies,
	})

	// Create the HTTP server with sensible timeouts. WriteTimeout must
	// accommodate the platform's storage aggregation endpoints, which can
	// take a while on large tenants.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

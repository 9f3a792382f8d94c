package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/lumina/server/internal/config"
	"codeberg.org/lumina/server/internal/logger"
	"codeberg.org/lumina/server/internal/storage"
)

// @title Lumina API
// @version 1.0
// @description Personal project and task tracking
// @description
// @description Features:
// @description - Local accounts and OAuth sign in (Google, GitHub)
// @description - Projects with a guarded status lifecycle
// @description - Tasks with filters and completion stats
// @description - Live lifecycle events over WebSocket

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authenticated requests. Format: Bearer {token}

func main() {
	flags := config.ParseServerFlags(os.Args[1:])

	// load configuration from environment
	cfg, err := config.LoadEnvironmentVariables()
	if err != nil {
		logger.Fatal("failed to load configuration", "error", err)
	}

	logger.Configure(cfg.Environment)
	logger.Info("starting lumina server")

	ctx := context.Background()

	db, err := storage.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", "error", err)
	}

	if !flags.SkipMigrations {
		if err := storage.Migrate(ctx, db); err != nil {
			db.Close()
			logger.Fatal("failed to apply migrations", "error", err)
		}
	}

	if flags.MigrateOnly {
		db.Close()
		logger.Info("migrations applied")
		return
	}

	// create server with all dependencies
	srv, err := NewServer(ctx, cfg, db)
	if err != nil {
		db.Close()
		logger.Fatal("failed to create server", "error", err)
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      srv.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// start server in goroutine
	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed to start", "error", err)
		}
	}()

	// start websocket hub
	go srv.hub.Run()

	// wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	// notify websocket clients and close connections first
	srv.hub.Shutdown()
	if !srv.hub.Wait(5 * time.Second) {
		logger.Warn("websocket hub did not stop in time")
	}

	// graceful shutdown with 10 second timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	srv.Close()

	// close database connection
	db.Close()

	logger.Info("server stopped")
}

// Package startup prepares the application server
package startup

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nearcart/nearcart-go/internal/application/container"
	"github.com/nearcart/nearcart-go/internal/infrastructure/database"
	"github.com/nearcart/nearcart-go/internal/infrastructure/observability/logging"
	"github.com/nearcart/nearcart-go/internal/presentation/http/server"
	"github.com/nearcart/nearcart-go/pkg/config"
)

// Initialize performs the complete startup sequence: database, schema,
// container, HTTP server, and graceful shutdown on SIGINT/SIGTERM.
func Initialize() error {
	start := time.Now().UTC()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Println("Initializing...")

	logger, err := logging.NewChanneledLogger(logging.DefaultLoggerConfig())
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logger.Close()

	logger.Startup().Info("Opening database", "path", config.DBPath)
	db, err := database.Open(config.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	logger.Startup().Info("Creating database schema")
	if err := database.NewTableCreator().CreateSchema(db); err != nil {
		return fmt.Errorf("schema creation failed: %w", err)
	}

	logger.Startup().Info("Initializing dependency injection container")
	appContainer := container.NewContainer(ctx, db, logger)

	httpServer := server.New(config.Port, appContainer)

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Start()
	}()

	logger.Startup().Info("Startup complete", "port", config.Port, "duration", time.Since(start))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Shutdown().Info("Shutdown signal received", "signal", sig.String())
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("HTTP server shutdown failed", "error", err.Error())
		return err
	}

	logger.Shutdown().Info("Shutdown complete")
	return nil
}

/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the shift reconciliation server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration from the environment (.env supported)
  2. Build the logger
  3. Load the shift roster (file or built-in)
  4. Initialize SQLite run archive
  5. Create API handler and router
  6. Start server with graceful shutdown

ENVIRONMENT:
  PORT           HTTP server port (default: 8080)
  DB_PATH        SQLite database path (default: runs.db)
                 Use ":memory:" for an in-memory database, "" to disable the archive
  PERSIST_RUNS   Archive reconcile results unless the request says otherwise
  ROSTER_PATH    JSON or YAML roster document (default: built-in roster)
  TIMEZONE       Plant time zone for naive timestamps (default: UTC)
  WORKERS        Reconciler parallelism (default: GOMAXPROCS)
  CORS_ORIGINS   Comma-separated allowed origins
  LOG_LEVEL      debug, info, warn, error
  LOG_FORMAT     console, json

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - config/config.go: Environment variables
*/
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/warp/shift-reconciler/api"
	"github.com/warp/shift-reconciler/attendance"
	"github.com/warp/shift-reconciler/config"
	"github.com/warp/shift-reconciler/factory"
	"github.com/warp/shift-reconciler/logger"
	"github.com/warp/shift-reconciler/store/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// logger isn't built yet
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer logger.Sync(log)

	if err := run(cfg, log); err != nil {
		log.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	roster := factory.DefaultRoster()
	if cfg.RosterPath != "" {
		roster, err = factory.NewRosterFactory().LoadFile(cfg.RosterPath)
		if err != nil {
			return err
		}
	}
	log.Info("roster loaded",
		zap.String("roster_id", roster.ID),
		zap.Int("shifts", len(roster.Catalog.All())),
	)

	// Initialize store
	var store attendance.RunStore
	if cfg.DBPath != "" {
		db, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()
		store = db
	} else {
		log.Warn("DB_PATH empty, run archive disabled")
	}

	handler, err := api.NewHandler(api.HandlerConfig{
		Roster:      roster,
		Store:       store,
		Location:    loc,
		Logger:      log,
		Workers:     cfg.Workers,
		PersistRuns: cfg.PersistRuns,
	})
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      api.NewRouter(handler, cfg.CORSOrigins),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", cfg.Addr()), zap.String("timezone", loc.String()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return err
	}

	log.Info("server stopped")
	return nil
}

// Package main contains the entrypoint for the floodassist web service.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/floodwatch/floodassist/internal/agent"
	"github.com/floodwatch/floodassist/internal/app"
	"github.com/floodwatch/floodassist/internal/config"
	"github.com/floodwatch/floodassist/internal/database"
	"github.com/floodwatch/floodassist/internal/logger"
	"github.com/floodwatch/floodassist/internal/resolver"
	"github.com/floodwatch/floodassist/internal/tasks"
	"github.com/floodwatch/floodassist/internal/web"

	_ "modernc.org/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop() // Ensure context cancellation is signaled before exit
	os.Exit(exitCode)
}

// run initializes and starts all application components (config, logger, db,
// agent, resolver, web handler, scheduler), handles graceful shutdown, and
// returns an exit code (0 for success, 1 for failure).
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	// A missing GEMINI_API_KEY fails validation here: the process never gets
	// past initialization without the credential.
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	slog.SetDefault(log)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to connect to database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db) // Ensure DB is closed on function exit
	store := database.NewStore(db, log)

	sqlAgent, err := agent.New(ctx, cfg.Gemini, store, log)
	if err != nil {
		log.Error("Failed to initialize Gemini SQL agent", "error", err)
		return 1
	}

	res := resolver.New(sqlAgent, log)
	sessions := web.NewSessionManager()

	handler := web.NewHandler(web.Deps{
		Logger:    log,
		Resolver:  res,
		Sessions:  sessions,
		Readiness: store.Ping,
	})

	taskRegistry := tasks.RegisterAllTasks(tasks.TaskDeps{
		Logger:   log,
		Store:    store,
		Sessions: sessions,
		Config:   cfg,
	})
	sched, err := app.NewScheduler(log, &cfg.Scheduler, taskRegistry)
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}

	application := app.New(log, cfg, db, handler, sched)

	log.Info("Starting floodassist...")
	runErr := application.Run(ctx) // Run blocks until context is cancelled or an error occurs
	log.Info("Run loop finished. Initiating shutdown...")

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Service stopped due to error", "error", runErr)
		// Allow logs to flush before exiting on error
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Service stopped gracefully.")
	return 0
}

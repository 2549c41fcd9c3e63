package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"histograph/config"
	"histograph/database"
	"histograph/graph"
	"histograph/web"
)

func main() {
	ctx := context.Background()

	// Initialize logger with default level to load config
	tempLogger, err := config.InitLogger("info", config.LogFormatConsole)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	// Load config (which includes log level and format settings)
	cfg := config.Load(tempLogger)

	// Re-initialize logger with configured level and format
	logger, err := config.InitLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Printf("Failed to re-initialize logger with configured level: %v\n", err)
		os.Exit(1)
	}
	defer config.Cleanup()

	// Open the optional durable event log
	var eventStore database.EventStore
	switch cfg.PersistBackend {
	case config.PersistBadger:
		store, err := database.NewBadgerStore(cfg.PersistPath)
		if err != nil {
			logger.Fatal("Failed to open event database", zap.Error(err))
		}
		eventStore = store
	case config.PersistPostgres:
		store, err := database.NewPostgresStore(cfg.PersistDSN)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		if err := store.EnsureSchema(ctx); err != nil {
			logger.Fatal("Failed to ensure database schema", zap.Error(err))
		}
		eventStore = store
	}
	if eventStore != nil {
		defer eventStore.Close()
	}

	opts := graph.Options{
		Directed:           cfg.GraphDirected,
		CheckpointInterval: cfg.CheckpointInterval,
		SnapshotCacheSize:  cfg.SnapshotCacheSize,
	}
	if eventStore != nil {
		opts.Sink = eventStore
	}

	store, err := graph.New(logger, opts)
	if err != nil {
		logger.Fatal("Failed to create graph store", zap.Error(err))
	}

	// Replay the persisted log into the fresh store
	if eventStore != nil {
		events, err := eventStore.LoadEvents(ctx)
		if err != nil {
			logger.Fatal("Failed to load persisted events", zap.Error(err))
		}
		if err := store.Restore(events); err != nil {
			logger.Fatal("Failed to restore event log", zap.Error(err))
		}
	}

	// Initialize web server
	webServer := web.NewServer(store, logger, cfg)

	// Create context that listens for interrupt signals
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Start web server
	addr := fmt.Sprintf("%s:%d", cfg.BindAddress, cfg.WebPort)
	logger.Info("Starting histograph server", zap.String("address", addr), zap.Bool("directed", cfg.GraphDirected))
	if err := webServer.Start(ctx, addr); err != nil {
		logger.Error("Web server error", zap.Error(err))
		os.Exit(1)
	}
}

// Package bootstrap handles application initialization and lifecycle management
// for the content-feed service.
package bootstrap

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	infralogger "github.com/jonesrussell/north-cloud/content-feed/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/content-feed/infrastructure/profiling"
)

const serviceName = "content-feed"

// Version is reported in logs and /health. Set at build time with
// -ldflags "-X github.com/jonesrussell/north-cloud/content-feed/internal/bootstrap.Version=v1.2.3".
var Version = "dev"

// Start initializes and runs the content-feed service until SIGINT or SIGTERM.
func Start() error {
	startTime := time.Now()

	// Phase 1: Load config and create logger
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := CreateLogger(cfg, Version)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	// Phase 2: Start profiling server (if enabled)
	profiling.StartPprofServer(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Phase 3: Setup database
	db, err := SetupDatabase(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Error("Failed to close database", infralogger.Error(closeErr))
		}
	}()

	// Phase 4: Metrics registry
	metrics := SetupMetrics(cfg)

	// Phase 5: Setup event publisher (optional)
	redisClient, publisher := SetupEventPublisher(cfg, log, metrics)
	defer func() {
		if closeErr := CloseEventPublisher(redisClient, publisher, log); closeErr != nil {
			log.Error("Failed to close redis", infralogger.Error(closeErr))
		}
	}()

	// Phase 6: Metadata resolution and the feed workflow
	resolver := SetupResolver(cfg, log, metrics)
	feed := SetupFeedService(db, resolver, publisher, metrics, log)

	// Phase 7: Setup and run HTTP server
	server := SetupHTTPServer(cfg, ServerDeps{
		Feed:      feed,
		DB:        db,
		Redis:     redisClient,
		Metrics:   metrics,
		StartTime: startTime,
	}, log)

	log.Info("Starting HTTP server",
		infralogger.String("host", cfg.Server.Host),
		infralogger.Int("port", cfg.Server.Port),
	)

	if runErr := server.RunWithGracefulShutdown(ctx); runErr != nil {
		log.Error("Server error", infralogger.Error(runErr))
		return fmt.Errorf("server error: %w", runErr)
	}

	log.Info("Server exited")
	return nil
}

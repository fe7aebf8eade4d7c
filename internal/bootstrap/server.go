package bootstrap

import (
	"context"
	"time"

	infracontext "github.com/jonesrussell/north-cloud/content-feed/infrastructure/context"
	infragin "github.com/jonesrussell/north-cloud/content-feed/infrastructure/gin"
	infralogger "github.com/jonesrussell/north-cloud/content-feed/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/content-feed/internal/api"
	"github.com/jonesrussell/north-cloud/content-feed/internal/config"
	"github.com/jonesrussell/north-cloud/content-feed/internal/database"
	"github.com/jonesrussell/north-cloud/content-feed/internal/handlers"
	"github.com/jonesrussell/north-cloud/content-feed/internal/telemetry"
	"github.com/redis/go-redis/v9"
)

// ServerDeps are the runtime pieces the HTTP server needs. Redis and
// Metrics may be nil.
type ServerDeps struct {
	Feed      handlers.FeedService
	DB        *database.DB
	Redis     *redis.Client
	Metrics   *telemetry.Metrics
	StartTime time.Time
}

// SetupHTTPServer creates and configures the HTTP server.
func SetupHTTPServer(cfg *config.Config, deps ServerDeps, log infralogger.Logger) *infragin.Server {
	checks := healthChecks(deps)

	serverCfg := &infragin.Config{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		Debug:        cfg.Debug,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		CORS: infragin.CORSConfig{
			Enabled:        len(cfg.Server.CORSOrigins) > 0,
			AllowedOrigins: cfg.Server.CORSOrigins,
		},
	}

	return api.NewServer(serverCfg, api.Dependencies{
		Feed:         deps.Feed,
		Metrics:      deps.Metrics,
		HealthChecks: checks,
		Logger:       log,
		ServiceName:  serviceName,
		Version:      Version,
		StartTime:    deps.StartTime,
	})
}

func healthChecks(deps ServerDeps) map[string]infragin.HealthChecker {
	checks := map[string]infragin.HealthChecker{
		"database": infragin.PingChecker("database", infragin.HealthStatusUnhealthy, boundedPing(deps.DB.Ping)),
	}
	if deps.Redis != nil {
		// Events are optional, so a Redis outage only degrades the service.
		checks["redis"] = infragin.PingChecker("redis", infragin.HealthStatusDegraded, boundedPing(func(ctx context.Context) error {
			return deps.Redis.Ping(ctx).Err()
		}))
	}
	return checks
}

// boundedPing runs ping under the default ping timeout so a hung
// dependency cannot stall the health endpoint.
func boundedPing(ping func(context.Context) error) func() error {
	return func() error {
		ctx, cancel := infracontext.WithPingTimeout(context.Background())
		defer cancel()
		return ping(ctx)
	}
}

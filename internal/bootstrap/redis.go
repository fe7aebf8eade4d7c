package bootstrap

import (
	infracontext "github.com/jonesrussell/north-cloud/content-feed/infrastructure/context"
	infralogger "github.com/jonesrussell/north-cloud/content-feed/infrastructure/logger"
	infraredis "github.com/jonesrussell/north-cloud/content-feed/infrastructure/redis"
	"github.com/jonesrussell/north-cloud/content-feed/internal/config"
	"github.com/jonesrussell/north-cloud/content-feed/internal/events"
	"github.com/jonesrussell/north-cloud/content-feed/internal/telemetry"
	"github.com/redis/go-redis/v9"
)

// SetupEventPublisher creates an optional event publisher if Redis is enabled.
// Both results are nil if Redis is disabled or unavailable.
func SetupEventPublisher(
	cfg *config.Config,
	log infralogger.Logger,
	metrics *telemetry.Metrics,
) (*redis.Client, *events.Publisher) {
	if !cfg.Redis.Enabled {
		return nil, nil
	}

	redisClient, err := infraredis.NewClient(infraredis.Config{
		Address:  cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn("Redis not available, events disabled",
			infralogger.Error(err),
		)
		return nil, nil
	}

	log.Info("Event publisher initialized",
		infralogger.String("redis_address", cfg.Redis.Address),
		infralogger.String("stream", events.StreamName),
	)
	return redisClient, events.NewPublisher(redisClient, log, metrics)
}

// CloseEventPublisher lets pending async events reach the stream, then closes
// the Redis client. Safe with nil arguments.
func CloseEventPublisher(client *redis.Client, publisher *events.Publisher, log infralogger.Logger) error {
	if client == nil {
		return nil
	}

	ctx, cancel := infracontext.WithShutdownTimeout()
	defer cancel()

	if err := publisher.Wait(ctx); err != nil {
		log.Warn("Pending events not delivered before shutdown", infralogger.Error(err))
	}
	return client.Close()
}

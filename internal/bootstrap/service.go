package bootstrap

import (
	infralogger "github.com/jonesrussell/north-cloud/content-feed/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/content-feed/internal/config"
	"github.com/jonesrussell/north-cloud/content-feed/internal/database"
	"github.com/jonesrussell/north-cloud/content-feed/internal/events"
	"github.com/jonesrussell/north-cloud/content-feed/internal/metadata"
	"github.com/jonesrussell/north-cloud/content-feed/internal/repository"
	"github.com/jonesrussell/north-cloud/content-feed/internal/service"
	"github.com/jonesrussell/north-cloud/content-feed/internal/telemetry"
)

// SetupMetrics returns nil when metrics are disabled.
func SetupMetrics(cfg *config.Config) *telemetry.Metrics {
	if cfg.Metrics.Disabled {
		return nil
	}
	return telemetry.New()
}

// SetupResolver builds the fetcher and the per-type resolvers on top of it.
func SetupResolver(cfg *config.Config, log infralogger.Logger, metrics *telemetry.Metrics) *metadata.Resolver {
	fetcher := metadata.NewFetcher(cfg.Metadata.FetcherConfig(), log, metrics)
	return metadata.NewDefaultResolver(fetcher, cfg.Metadata.OEmbedEndpoint, log, metrics)
}

// SetupFeedService wires the item repository, resolver and optional publisher.
func SetupFeedService(
	db *database.DB,
	resolver *metadata.Resolver,
	publisher *events.Publisher,
	metrics *telemetry.Metrics,
	log infralogger.Logger,
) *service.FeedService {
	repo := repository.NewContentItemRepository(db.DB(), log)
	return service.NewFeedService(repo, resolver, log,
		service.WithPublisher(publisher),
		service.WithRecorder(metrics),
	)
}

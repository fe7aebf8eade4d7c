package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	infraconfig "github.com/jonesrussell/north-cloud/content-feed/infrastructure/config"
	infralogger "github.com/jonesrussell/north-cloud/content-feed/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/content-feed/internal/bootstrap"
	"github.com/jonesrussell/north-cloud/content-feed/internal/config"
	"github.com/jonesrussell/north-cloud/content-feed/internal/service"
)

// defaultBackend opens the same stack the service runs on.
type defaultBackend struct {
	version string
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func (b *defaultBackend) load(opts Options) (*config.Config, infralogger.Logger, error) {
	path := opts.ConfigPath
	if path == "" {
		path = infraconfig.GetConfigPath(bootstrap.DefaultConfigPath)
	}

	cfg, err := bootstrap.LoadConfigFile(path)
	if err != nil {
		return nil, nil, err
	}

	// Keep stdout for command output.
	cfg.Logging.OutputPaths = []string{"stderr"}
	if !opts.Debug {
		cfg.Logging.Level = "warn"
	}
	cfg.Debug = opts.Debug
	cfg.Metrics.Disabled = true

	log, err := bootstrap.CreateLogger(cfg, b.version)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func (b *defaultBackend) Open(ctx context.Context, opts Options) (Feed, io.Closer, error) {
	cfg, log, err := b.load(opts)
	if err != nil {
		return nil, nil, err
	}

	db, err := bootstrap.SetupDatabase(ctx, cfg, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	redisClient, publisher := bootstrap.SetupEventPublisher(cfg, log, nil)
	resolver := bootstrap.SetupResolver(cfg, log, nil)
	feed := bootstrap.SetupFeedService(db, resolver, publisher, nil, log)

	closer := closerFunc(func() error {
		var errs []error
		errs = append(errs,
			bootstrap.CloseEventPublisher(redisClient, publisher, log),
			db.Close(),
			log.Sync(),
		)
		return errors.Join(errs...)
	})
	return feed, closer, nil
}

func (b *defaultBackend) OpenPreviewer(opts Options) (Previewer, error) {
	cfg, log, err := b.load(opts)
	if err != nil {
		return nil, err
	}
	// Preview only validates and resolves, so no store is attached.
	return service.NewFeedService(nil, bootstrap.SetupResolver(cfg, log, nil), log), nil
}

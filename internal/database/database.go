// Package database opens the PostgreSQL pool the item repository runs on.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	infracontext "github.com/jonesrussell/north-cloud/content-feed/infrastructure/context"
	infralogger "github.com/jonesrussell/north-cloud/content-feed/infrastructure/logger"
	infraretry "github.com/jonesrussell/north-cloud/content-feed/infrastructure/retry"
	"github.com/jonesrussell/north-cloud/content-feed/internal/config"
	_ "github.com/lib/pq" //nolint:blankimports // PostgreSQL driver
)

const (
	connectInitialDelay = 500 * time.Millisecond
	connectMaxDelay     = 10 * time.Second
)

type DB struct {
	db     *sqlx.DB
	logger infralogger.Logger
}

// New opens the pool and waits for the server, retrying transient failures
// up to cfg.ConnectAttempts times.
func New(ctx context.Context, cfg config.DatabaseConfig, log infralogger.Logger) (*DB, error) {
	db, err := sqlx.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	d, err := newDB(ctx, db, cfg, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	log.Info("Database connection established",
		infralogger.String("host", cfg.Host),
		infralogger.Int("port", cfg.Port),
		infralogger.String("dbname", cfg.DBName),
	)
	return d, nil
}

func newDB(ctx context.Context, db *sqlx.DB, cfg config.DatabaseConfig, log infralogger.Logger) (*DB, error) {
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	d := &DB{db: db, logger: log}

	err := infraretry.Retry(ctx, infraretry.Config{
		MaxAttempts:  cfg.ConnectAttempts,
		InitialDelay: connectInitialDelay,
		MaxDelay:     connectMaxDelay,
		IsRetryable:  infraretry.DefaultIsRetryable,
		OnRetry: func(attempt int, delay time.Duration, retryErr error) {
			log.Warn("Database not ready, retrying",
				infralogger.Int("attempt", attempt),
				infralogger.Duration("delay", delay),
				infralogger.Error(retryErr),
			)
		},
	}, d.Ping)
	if err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return d, nil
}

// Ping checks the connection within the standard ping timeout.
func (d *DB) Ping(ctx context.Context) error {
	pingCtx, cancel := infracontext.WithPingTimeout(ctx)
	defer cancel()
	return d.db.PingContext(pingCtx)
}

func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

func (d *DB) DB() *sqlx.DB {
	return d.db
}

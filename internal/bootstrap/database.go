package bootstrap

import (
	"context"
	"fmt"

	infralogger "github.com/jonesrussell/north-cloud/content-feed/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/content-feed/internal/config"
	"github.com/jonesrussell/north-cloud/content-feed/internal/database"
)

// SetupDatabase creates a database connection.
func SetupDatabase(ctx context.Context, cfg *config.Config, log infralogger.Logger) (*database.DB, error) {
	db, err := database.New(ctx, cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("database connection: %w", err)
	}
	return db, nil
}

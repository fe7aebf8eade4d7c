package bootstrap

import (
	"flag"
	"fmt"

	infraconfig "github.com/jonesrussell/north-cloud/content-feed/infrastructure/config"
	infralogger "github.com/jonesrussell/north-cloud/content-feed/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/content-feed/internal/config"
)

// DefaultConfigPath is used when neither -config nor CONFIG_PATH is given.
const DefaultConfigPath = "config.yml"

// LoadConfig loads configuration. Uses -config flag with infraconfig default.
func LoadConfig() (*config.Config, error) {
	configPath := flag.String("config", infraconfig.GetConfigPath(DefaultConfigPath), "Path to configuration file")
	flag.Parse()

	return LoadConfigFile(*configPath)
}

// LoadConfigFile loads and validates the configuration at path.
func LoadConfigFile(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// CreateLogger creates a logger instance from configuration.
func CreateLogger(cfg *config.Config, version string) (infralogger.Logger, error) {
	logCfg := cfg.Logging
	if cfg.Debug {
		logCfg.Development = true
		logCfg.Level = "debug"
	}

	log, err := infralogger.New(logCfg)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return log.With(
		infralogger.String("service", serviceName),
		infralogger.String("version", version),
	), nil
}

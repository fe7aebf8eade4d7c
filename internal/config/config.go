// Package config holds the content feed service configuration.
package config

import (
	"errors"
	"fmt"
	"time"

	infraconfig "github.com/jonesrussell/north-cloud/content-feed/infrastructure/config"
	infralogger "github.com/jonesrussell/north-cloud/content-feed/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/content-feed/internal/metadata"
)

const (
	defaultServerPort      = 8070
	defaultServerTimeout   = 30
	defaultDatabasePort    = 5432
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 5
	defaultConnMaxLifetime = 5
	defaultConnectAttempts = 5
	defaultRedisAddress    = "localhost:6379"
)

type Config struct {
	Debug    bool               `env:"APP_DEBUG" yaml:"debug"`
	Server   ServerConfig       `yaml:"server"`
	Database DatabaseConfig     `yaml:"database"`
	Redis    RedisConfig        `yaml:"redis"`
	Metadata MetadataConfig     `yaml:"metadata"`
	Metrics  MetricsConfig      `yaml:"metrics"`
	Logging  infralogger.Config `yaml:"logging"`
}

type ServerConfig struct {
	Host         string        `env:"SERVER_HOST"  yaml:"host"`
	Port         int           `env:"SERVER_PORT"  yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	CORSOrigins  []string      `env:"CORS_ORIGINS" yaml:"cors_origins"`
}

type DatabaseConfig struct {
	Host            string        `env:"DB_HOST"     yaml:"host"`
	Port            int           `env:"DB_PORT"     yaml:"port"`
	User            string        `env:"DB_USER"     yaml:"user"`
	Password        string        `env:"DB_PASSWORD" yaml:"password"`
	DBName          string        `env:"DB_NAME"     yaml:"dbname"`
	SSLMode         string        `env:"DB_SSLMODE"  yaml:"sslmode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnectAttempts int           `yaml:"connect_attempts"`
}

// DSN is the lib/pq connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// RedisConfig holds the connection used for lifecycle events.
type RedisConfig struct {
	Address  string `env:"REDIS_ADDRESS"        yaml:"address"`
	Password string `env:"REDIS_PASSWORD"       yaml:"password"`
	DB       int    `env:"REDIS_DB"             yaml:"db"`
	Enabled  bool   `env:"REDIS_EVENTS_ENABLED" yaml:"enabled"`
}

// MetadataConfig tunes the outbound fetcher used for enrichment.
type MetadataConfig struct {
	Timeout               time.Duration `env:"METADATA_TIMEOUT"                 yaml:"timeout"`
	UserAgent             string        `env:"METADATA_USER_AGENT"              yaml:"user_agent"`
	InsecureSkipVerify    bool          `env:"METADATA_INSECURE_SKIP_VERIFY"    yaml:"insecure_skip_verify"`
	MaxBodyBytes          int64         `yaml:"max_body_bytes"`
	BlockPrivateAddresses bool          `env:"METADATA_BLOCK_PRIVATE_ADDRESSES" yaml:"block_private_addresses"`
	RequestsPerSecond     float64       `yaml:"requests_per_second"`
	Burst                 int           `yaml:"burst"`
	OEmbedEndpoint        string        `env:"METADATA_OEMBED_ENDPOINT"         yaml:"oembed_endpoint"`
}

// FetcherConfig converts to the fetcher's own settings.
func (m MetadataConfig) FetcherConfig() metadata.FetcherConfig {
	return metadata.FetcherConfig{
		Timeout:               m.Timeout,
		UserAgent:             m.UserAgent,
		InsecureSkipVerify:    m.InsecureSkipVerify,
		MaxBodyBytes:          m.MaxBodyBytes,
		BlockPrivateAddresses: m.BlockPrivateAddresses,
		RequestsPerSecond:     m.RequestsPerSecond,
		Burst:                 m.Burst,
	}
}

type MetricsConfig struct {
	// Disabled removes /metrics and the request middleware.
	Disabled bool `env:"METRICS_DISABLED" yaml:"disabled"`
}

func (c *Config) Validate() error {
	if c.Server.Host == "" {
		return errors.New("server.host is required")
	}
	if err := infraconfig.ValidatePort("server.port", c.Server.Port); err != nil {
		return err
	}
	if err := infraconfig.ValidateRequired("database.host", c.Database.Host); err != nil {
		return err
	}
	if err := infraconfig.ValidatePort("database.port", c.Database.Port); err != nil {
		return err
	}
	if err := infraconfig.ValidateRequired("database.user", c.Database.User); err != nil {
		return err
	}
	if err := infraconfig.ValidateRequired("database.dbname", c.Database.DBName); err != nil {
		return err
	}
	if c.Redis.Enabled {
		if err := infraconfig.ValidateRequired("redis.address", c.Redis.Address); err != nil {
			return err
		}
	}
	if err := infraconfig.ValidatePositive("metadata.requests_per_second", c.Metadata.RequestsPerSecond); err != nil {
		return err
	}
	return infraconfig.ValidatePositive("metadata.max_body_bytes", float64(c.Metadata.MaxBodyBytes))
}

func Load(path string) (*Config, error) {
	cfg, err := infraconfig.LoadWithDefaults(path, setDefaults)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if validateErr := cfg.Validate(); validateErr != nil {
		return nil, fmt.Errorf("invalid config: %w", validateErr)
	}

	return cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaultServerPort
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = defaultServerTimeout * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = defaultServerTimeout * time.Second
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = defaultDatabasePort
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = defaultMaxOpenConns
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = defaultMaxIdleConns
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = defaultConnMaxLifetime * time.Minute
	}
	if cfg.Database.ConnectAttempts == 0 {
		cfg.Database.ConnectAttempts = defaultConnectAttempts
	}
	if cfg.Redis.Address == "" {
		cfg.Redis.Address = defaultRedisAddress
	}
	// Redis.Enabled stays false unless set: events are opt-in.
	if cfg.Metadata.Timeout == 0 {
		cfg.Metadata.Timeout = metadata.DefaultFetchTimeout
	}
	if cfg.Metadata.UserAgent == "" {
		cfg.Metadata.UserAgent = metadata.DefaultUserAgent
	}
	if cfg.Metadata.MaxBodyBytes == 0 {
		cfg.Metadata.MaxBodyBytes = metadata.DefaultMaxBodyBytes
	}
	if cfg.Metadata.OEmbedEndpoint == "" {
		cfg.Metadata.OEmbedEndpoint = metadata.DefaultOEmbedEndpoint
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

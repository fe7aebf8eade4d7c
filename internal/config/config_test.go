package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonesrussell/north-cloud/content-feed/internal/config"
	"github.com/jonesrussell/north-cloud/content-feed/internal/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
debug: true
server:
  host: "127.0.0.1"
  port: 8080
database:
  host: "localhost"
  user: "feed"
  password: "secret"
  dbname: "content_feed"
redis:
  enabled: true
  address: "redis:6379"
metadata:
  timeout: 3s
  block_private_addresses: true
  requests_per_second: 2
  burst: 4
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "content_feed", cfg.Database.DBName)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "redis:6379", cfg.Redis.Address)

	fc := cfg.Metadata.FetcherConfig()
	assert.Equal(t, 3*time.Second, fc.Timeout)
	assert.True(t, fc.BlockPrivateAddresses)
	assert.InDelta(t, 2.0, fc.RequestsPerSecond, 0)
	assert.Equal(t, 4, fc.Burst)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
database:
  host: "localhost"
  user: "feed"
  dbname: "content_feed"
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8070, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5, cfg.Database.ConnectAttempts)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.Metrics.Disabled)
	assert.Equal(t, metadata.DefaultFetchTimeout, cfg.Metadata.Timeout)
	assert.Equal(t, metadata.DefaultUserAgent, cfg.Metadata.UserAgent)
	assert.Equal(t, int64(metadata.DefaultMaxBodyBytes), cfg.Metadata.MaxBodyBytes)
	assert.Equal(t, metadata.DefaultOEmbedEndpoint, cfg.Metadata.OEmbedEndpoint)
	assert.False(t, cfg.Metadata.InsecureSkipVerify)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
database:
  host: "localhost"
  user: "feed"
  dbname: "content_feed"
`)
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("CORS_ORIGINS", "https://shop.example.com, https://admin.example.com")
	t.Setenv("METADATA_TIMEOUT", "4s")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, []string{"https://shop.example.com", "https://admin.example.com"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 4*time.Second, cfg.Metadata.Timeout)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing database host", "database:\n  user: feed\n  dbname: x\n"},
		{"missing database user", "database:\n  host: localhost\n  dbname: x\n"},
		{"bad server port", "server:\n  port: 70000\ndatabase:\n  host: h\n  user: u\n  dbname: x\n"},
		{"negative rate", "database:\n  host: h\n  user: u\n  dbname: x\nmetadata:\n  requests_per_second: -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.body))
			require.Error(t, err)
		})
	}
}

func TestDatabaseDSN(t *testing.T) {
	d := config.DatabaseConfig{Host: "h", Port: 5432, User: "u", Password: "p", DBName: "n", SSLMode: "disable"}

	assert.Equal(t, "host=h port=5432 user=u password=p dbname=n sslmode=disable", d.DSN())
}

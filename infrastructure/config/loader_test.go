package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonesrussell/north-cloud/content-feed/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name    string        `env:"SAMPLE_NAME"    yaml:"name"`
	Port    int           `env:"SAMPLE_PORT"    yaml:"port"`
	Timeout time.Duration `env:"SAMPLE_TIMEOUT" yaml:"timeout"`
	Enabled bool          `env:"SAMPLE_ENABLED" yaml:"enabled"`
	Nested  struct {
		Origins []string `env:"SAMPLE_ORIGINS" yaml:"origins"`
	} `yaml:"nested"`
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_ParsesYAML(t *testing.T) {
	path := writeFile(t, "name: feed\nport: 8080\ntimeout: 10s\nnested:\n  origins: [a, b]\n")

	cfg, err := config.Load[sample](path)
	require.NoError(t, err)

	assert.Equal(t, "feed", cfg.Name)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, []string{"a", "b"}, cfg.Nested.Origins)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "name: feed\nport: 8080\n")
	t.Setenv("SAMPLE_PORT", "9090")
	t.Setenv("SAMPLE_TIMEOUT", "3s")
	t.Setenv("SAMPLE_ENABLED", "yes")
	t.Setenv("SAMPLE_ORIGINS", "http://a, http://b")

	cfg, err := config.Load[sample](path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.True(t, cfg.Enabled)
	assert.Equal(t, []string{"http://a", "http://b"}, cfg.Nested.Origins)
}

func TestLoadWithDefaults_EnvBeatsDefault(t *testing.T) {
	path := writeFile(t, "{}\n")
	t.Setenv("SAMPLE_NAME", "from-env")

	cfg, err := config.LoadWithDefaults(path, func(s *sample) {
		if s.Port == 0 {
			s.Port = 1234
		}
		s.Name = "from-default"
	})
	require.NoError(t, err)

	assert.Equal(t, 1234, cfg.Port)
	assert.Equal(t, "from-env", cfg.Name)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load[sample](filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
}

func TestGetConfigPath(t *testing.T) {
	assert.Equal(t, "config.yml", config.GetConfigPath("config.yml"))

	t.Setenv("CONFIG_PATH", "/etc/content-feed/config.yml")
	assert.Equal(t, "/etc/content-feed/config.yml", config.GetConfigPath("config.yml"))
}

func TestValidatePort(t *testing.T) {
	t.Parallel()

	require.NoError(t, config.ValidatePort("server.port", 8060))
	require.Error(t, config.ValidatePort("server.port", 0))
	require.Error(t, config.ValidatePort("server.port", 70000))
}

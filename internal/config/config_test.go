package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManager_Defaults(t *testing.T) {
	m, err := NewManager(WithConfigPaths(t.TempDir()))
	require.NoError(t, err)

	cfg := m.GetConfig()
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, int64(1<<20), cfg.Server.MaxBodyBytes)
	assert.True(t, cfg.Manifest.ValidateByDefault)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, 100, cfg.RateLimit.Burst)
	assert.Equal(t, 32, cfg.Cache.SchemaCacheSize)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, "info", m.GetLoggingConfig().Level)
	assert.Empty(t, m.ConfigFileUsed())

	assert.NoError(t, m.Validate())
	assert.True(t, m.IsDevelopment())
	assert.False(t, m.IsProduction())
}

func TestNewManager_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte(`environment: production
server:
  port: 9090
  shutdown_timeout: 5s
rate_limit:
  requests_per_second: 2.5
  burst: 5
logging:
  level: debug
  format: text
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600))

	m, err := NewManager(WithConfigPaths(dir))
	require.NoError(t, err)

	cfg := m.GetConfig()
	assert.Equal(t, 9090, m.GetServerConfig().Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 2.5, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 5, cfg.RateLimit.Burst)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.True(t, m.IsProduction())
	assert.NoError(t, m.Validate())
	assert.Equal(t, filepath.Join(dir, "config.yaml"), m.ConfigFileUsed())
}

func TestNewManager_EnvironmentOverrides(t *testing.T) {
	t.Setenv("MANIFEST_SERVER_PORT", "7070")
	t.Setenv("MANIFEST_LOGGING_LEVEL", "warn")

	m, err := NewManager(WithConfigPaths(t.TempDir()))
	require.NoError(t, err)

	assert.Equal(t, 7070, m.GetServerConfig().Port)
	assert.Equal(t, "warn", m.GetLoggingConfig().Level)
}

func TestNewManager_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server: [unclosed"), 0o600))

	_, err := NewManager(WithConfigPaths(dir))
	assert.Error(t, err)
}

func TestManager_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(m *Manager)
	}{
		{"Invalid port", func(m *Manager) { m.config.Server.Port = 70000 }},
		{"Invalid body size", func(m *Manager) { m.config.Server.MaxBodyBytes = 0 }},
		{"Invalid rate", func(m *Manager) { m.config.RateLimit.RequestsPerSecond = 0 }},
		{"Invalid burst", func(m *Manager) { m.config.RateLimit.Burst = -1 }},
		{"Invalid cache size", func(m *Manager) { m.config.Cache.SchemaCacheSize = 0 }},
		{"Invalid metrics path", func(m *Manager) { m.config.Metrics.Path = "metrics" }},
		{"Invalid log level", func(m *Manager) { m.config.Logging.Level = "verbose" }},
		{"Invalid log format", func(m *Manager) { m.config.Logging.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewManager(WithConfigPaths(t.TempDir()))
			require.NoError(t, err)

			tt.mutate(m)
			assert.Error(t, m.Validate())
		})
	}
}

func TestManager_Reload(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(WithConfigPaths(dir))
	require.NoError(t, err)
	assert.Equal(t, 8080, m.GetServerConfig().Port)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server:\n  port: 8181\n"), 0o600))
	require.NoError(t, m.Reload())
	assert.Equal(t, 8181, m.GetServerConfig().Port)
}

package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/clinical-ui-manifest/internal/domain"
)

// EnvPrefix is the prefix of every environment variable read by the manager.
const EnvPrefix = "MANIFEST"

// Manager implements the ConfigManager interface using Viper
type Manager struct {
	v      *viper.Viper
	paths  []string
	config *domain.Config
}

// ManagerOption customizes a Manager.
type ManagerOption func(*Manager)

// WithConfigPaths replaces the directories searched for config.yaml.
func WithConfigPaths(paths ...string) ManagerOption {
	return func(m *Manager) {
		m.paths = paths
	}
}

// NewManager creates a new configuration manager
func NewManager(opts ...ManagerOption) (*Manager, error) {
	m := &Manager{
		paths: []string{".", "./config", "/etc/clinical-ui-manifest/"},
	}
	for _, opt := range opts {
		opt(m)
	}
	if err := m.loadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return m, nil
}

// loadConfig loads configuration from various sources
func (m *Manager) loadConfig() error {
	v := viper.New()

	// Set configuration file name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range m.paths {
		v.AddConfigPath(p)
	}

	// Set environment variable prefix and enable automatic env binding
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read configuration file (optional - will use defaults and env vars if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &domain.Config{}
	if err := v.Unmarshal(config); err != nil {
		return fmt.Errorf("error unmarshaling config: %w", err)
	}

	m.v = v
	m.config = config
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.max_body_bytes", 1<<20)

	// Manifest defaults
	v.SetDefault("manifest.validate_by_default", true)

	// Rate limit defaults
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_second", 50.0)
	v.SetDefault("rate_limit.burst", 100)

	// Cache defaults
	v.SetDefault("cache.schema_cache_size", 32)

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
}

// GetConfig returns the complete configuration
func (m *Manager) GetConfig() *domain.Config {
	return m.config
}

// GetServerConfig returns server configuration
func (m *Manager) GetServerConfig() *domain.ServerConfig {
	return &m.config.Server
}

// GetLoggingConfig returns logging configuration
func (m *Manager) GetLoggingConfig() *domain.LoggingConfig {
	return &m.config.Logging
}

// ConfigFileUsed returns the path of the config file that was read, if any.
func (m *Manager) ConfigFileUsed() string {
	return m.v.ConfigFileUsed()
}

// Reload reloads the configuration
func (m *Manager) Reload() error {
	return m.loadConfig()
}

// Validate validates the configuration
func (m *Manager) Validate() error {
	config := m.config

	// Validate server configuration
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}
	if config.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("invalid max body size: %d", config.Server.MaxBodyBytes)
	}

	// Validate rate limit configuration
	if config.RateLimit.Enabled {
		if config.RateLimit.RequestsPerSecond <= 0 {
			return fmt.Errorf("invalid rate limit: %v requests per second", config.RateLimit.RequestsPerSecond)
		}
		if config.RateLimit.Burst <= 0 {
			return fmt.Errorf("invalid rate limit burst: %d", config.RateLimit.Burst)
		}
	}

	if config.Cache.SchemaCacheSize <= 0 {
		return fmt.Errorf("invalid schema cache size: %d", config.Cache.SchemaCacheSize)
	}

	if config.Metrics.Enabled && !strings.HasPrefix(config.Metrics.Path, "/") {
		return fmt.Errorf("metrics path must start with '/': %q", config.Metrics.Path)
	}

	// Validate logging configuration
	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[strings.ToLower(config.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}
	if f := strings.ToLower(config.Logging.Format); f != "json" && f != "text" {
		return fmt.Errorf("invalid log format: %s", config.Logging.Format)
	}

	return nil
}

// IsProduction returns true if running in production mode
func (m *Manager) IsProduction() bool {
	return strings.ToLower(m.config.Environment) == "production"
}

// IsDevelopment returns true if running in development mode
func (m *Manager) IsDevelopment() bool {
	env := strings.ToLower(m.config.Environment)
	return env == "development" || env == "dev" || env == ""
}

var _ domain.ConfigManager = (*Manager)(nil)

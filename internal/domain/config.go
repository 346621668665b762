package domain

import (
	"time"
)

// Config represents the main application configuration
type Config struct {
	Environment string          `mapstructure:"environment"`
	Server      ServerConfig    `mapstructure:"server"`
	Manifest    ManifestConfig  `mapstructure:"manifest"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`
	Cache       CacheConfig     `mapstructure:"cache"`
	Metrics     MetricsConfig   `mapstructure:"metrics"`
	Logging     LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes"`
}

// ManifestConfig controls manifest generation at the service boundary
type ManifestConfig struct {
	// ValidateByDefault runs the validator on every generated manifest unless
	// the request opts out.
	ValidateByDefault bool `mapstructure:"validate_by_default"`
}

// RateLimitConfig represents the token bucket guarding the HTTP API
type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// CacheConfig represents the schema export response cache
type CacheConfig struct {
	SchemaCacheSize int `mapstructure:"schema_cache_size"`
}

// MetricsConfig represents Prometheus exposition configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

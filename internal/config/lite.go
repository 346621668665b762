// Package config provides configuration management for the manifest servers.
// This file contains the lightweight configuration for the stdio MCP server.
package config

import (
	"os"
	"strconv"
)

// LiteConfig is a simplified configuration for standalone operation.
// It is read from environment variables only and uses sensible defaults.
type LiteConfig struct {
	// Manifest settings
	ValidateByDefault bool // Validate manifests unless the caller opts out

	// Cache settings
	SchemaCacheSize int // Cached schema exports, keyed by category filter

	// Logging
	LogLevel  string // Log level: debug, info, warn, error
	LogFormat string // Log format: json, text
}

// DefaultLiteConfig returns a configuration with sensible defaults.
func DefaultLiteConfig() *LiteConfig {
	return &LiteConfig{
		ValidateByDefault: true,
		SchemaCacheSize:   32,
		LogLevel:          "info",
		LogFormat:         "json",
	}
}

// LoadLiteConfig loads configuration from environment variables.
// Falls back to defaults if not set.
func LoadLiteConfig() *LiteConfig {
	cfg := DefaultLiteConfig()

	// Manifest settings
	if v := os.Getenv("MANIFEST_VALIDATE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.ValidateByDefault = b
		}
	}

	// Cache settings
	if v := os.Getenv("MANIFEST_SCHEMA_CACHE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SchemaCacheSize = n
		}
	}

	// Logging
	if v := os.Getenv("MANIFEST_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("MANIFEST_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}

	return cfg
}

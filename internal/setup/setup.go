// Package setup registers the manifest MCP server with desktop MCP clients.
package setup

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

const (
	// ServerName is the key under which the server is registered.
	ServerName = "clinical-ui-manifest"
	// BinaryName is the MCP server executable.
	BinaryName = "mcp-server"
)

// ClientConfig is the client configuration file. Keys other than
// mcpServers are preserved as-is.
type ClientConfig struct {
	MCPServers map[string]MCPServerConfig
	other      map[string]json.RawMessage
}

// MCPServerConfig represents a single MCP server configuration.
type MCPServerConfig struct {
	Command string            `json:"command"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env,omitempty"`
}

// Options contains options for the setup process.
type Options struct {
	ConfigPath string            // Client config file; empty means the platform default
	BinaryPath string            // Path to the server binary; empty means search
	Env        map[string]string // Environment passed to the server
}

// Status represents the current setup status.
type Status struct {
	ConfigPath string            `json:"configPath"`
	Configured bool              `json:"configured"`
	ServerPath string            `json:"serverPath,omitempty"`
	Env        map[string]string `json:"env,omitempty"`
	Issues     []string          `json:"issues"`
}

// ClaudeDesktopConfigPath returns the path to Claude Desktop's config file.
func ClaudeDesktopConfigPath() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support", "Claude")
	case "linux":
		// Try XDG config first, then fallback
		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			configDir = filepath.Join(xdgConfig, "Claude")
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config", "Claude")
		}
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", fmt.Errorf("APPDATA environment variable not set")
		}
		configDir = filepath.Join(appData, "Claude")
	default:
		return "", fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}

	return filepath.Join(configDir, "claude_desktop_config.json"), nil
}

// LoadClientConfig loads a client configuration. A missing file yields an
// empty configuration.
func LoadClientConfig(configPath string) (*ClientConfig, error) {
	config := &ClientConfig{
		MCPServers: make(map[string]MCPServerConfig),
		other:      make(map[string]json.RawMessage),
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, &config.other); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if raw, ok := config.other["mcpServers"]; ok {
		if err := json.Unmarshal(raw, &config.MCPServers); err != nil {
			return nil, fmt.Errorf("failed to parse mcpServers: %w", err)
		}
		delete(config.other, "mcpServers")
	}
	if config.MCPServers == nil {
		config.MCPServers = make(map[string]MCPServerConfig)
	}

	return config, nil
}

// SaveClientConfig writes the configuration to configPath.
func SaveClientConfig(configPath string, config *ClientConfig) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	doc := make(map[string]any, len(config.other)+1)
	for k, v := range config.other {
		doc[k] = v
	}
	doc["mcpServers"] = config.MCPServers

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Configure adds or updates the server entry and returns the config path
// that was written.
func Configure(opts Options) (string, error) {
	configPath, err := resolveConfigPath(opts.ConfigPath)
	if err != nil {
		return "", err
	}

	config, err := LoadClientConfig(configPath)
	if err != nil {
		return "", err
	}

	binaryPath := opts.BinaryPath
	if binaryPath == "" {
		binaryPath, err = FindBinary()
		if err != nil {
			return "", fmt.Errorf("could not find server binary: %w", err)
		}
	}

	serverConfig := MCPServerConfig{
		Command: binaryPath,
		Args:    []string{},
	}
	if len(opts.Env) > 0 {
		serverConfig.Env = make(map[string]string, len(opts.Env))
		for k, v := range opts.Env {
			serverConfig.Env[k] = v
		}
	}
	config.MCPServers[ServerName] = serverConfig

	if err := SaveClientConfig(configPath, config); err != nil {
		return "", err
	}
	return configPath, nil
}

// Remove deletes the server entry. It reports whether an entry existed.
func Remove(configPath string) (bool, error) {
	configPath, err := resolveConfigPath(configPath)
	if err != nil {
		return false, err
	}

	config, err := LoadClientConfig(configPath)
	if err != nil {
		return false, err
	}
	if _, ok := config.MCPServers[ServerName]; !ok {
		return false, nil
	}
	delete(config.MCPServers, ServerName)
	return true, SaveClientConfig(configPath, config)
}

// GetStatus checks whether the server is registered and its binary exists.
func GetStatus(configPath string) (*Status, error) {
	configPath, err := resolveConfigPath(configPath)
	if err != nil {
		return nil, err
	}

	status := &Status{ConfigPath: configPath, Issues: []string{}}

	config, err := LoadClientConfig(configPath)
	if err != nil {
		status.Issues = append(status.Issues, fmt.Sprintf("Could not load client config: %v", err))
		return status, nil
	}

	serverConfig, ok := config.MCPServers[ServerName]
	if !ok {
		status.Issues = append(status.Issues, fmt.Sprintf("%s is not registered", ServerName))
		return status, nil
	}

	status.Configured = true
	status.ServerPath = serverConfig.Command
	status.Env = serverConfig.Env

	info, err := os.Stat(serverConfig.Command)
	switch {
	case os.IsNotExist(err):
		status.Issues = append(status.Issues, fmt.Sprintf("Server binary not found at: %s", serverConfig.Command))
	case err != nil:
		status.Issues = append(status.Issues, fmt.Sprintf("Cannot stat server binary: %v", err))
	case runtime.GOOS != "windows" && info.Mode()&0o111 == 0:
		status.Issues = append(status.Issues, fmt.Sprintf("Server binary is not executable: %s", serverConfig.Command))
	}

	return status, nil
}

// FindBinary attempts to find the server binary in common locations.
func FindBinary() (string, error) {
	if path, err := exec.LookPath(BinaryName); err == nil {
		return path, nil
	}

	locations := []string{
		"./" + BinaryName,
		"./build/" + BinaryName,
		"/usr/local/bin/" + BinaryName,
	}
	if home, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(home, ".local", "bin", BinaryName))
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			absPath, err := filepath.Abs(loc)
			if err != nil {
				return loc, nil
			}
			return absPath, nil
		}
	}

	return "", fmt.Errorf("binary '%s' not found in common locations", BinaryName)
}

func resolveConfigPath(configPath string) (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return ClaudeDesktopConfigPath()
}

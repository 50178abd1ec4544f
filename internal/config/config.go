package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/bobmcallan/dev-center-review/internal/common"
)

// DefaultConfigFile is picked up from the working directory when present.
const DefaultConfigFile = "dev-center-review.toml"

// Config represents the application configuration.
type Config struct {
	Browser BrowserConfig        `toml:"browser"`
	MCP     MCPConfig            `toml:"mcp"`
	Logging common.LoggingConfig `toml:"logging"`
}

// BrowserConfig contains headless browser launch settings.
type BrowserConfig struct {
	// ExecPath overrides Chrome binary discovery.
	ExecPath string `toml:"exec_path"`
	// RemoteURL attaches to an already running browser's DevTools endpoint
	// (e.g. ws://127.0.0.1:9222) instead of launching one.
	RemoteURL string `toml:"remote_url"`
	NoSandbox bool   `toml:"no_sandbox"`
}

// MCPConfig contains settings for the MCP server binary.
type MCPConfig struct {
	Name string `toml:"name"`
}

// Discover returns the default config file path if it exists in the working directory.
func Discover() []string {
	if _, err := os.Stat(DefaultConfigFile); err == nil {
		return []string{DefaultConfigFile}
	}
	return nil
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies REVIEW_* environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	if execPath := os.Getenv("REVIEW_BROWSER_EXEC_PATH"); execPath != "" {
		config.Browser.ExecPath = execPath
	}
	if remote := os.Getenv("REVIEW_BROWSER_REMOTE_URL"); remote != "" {
		config.Browser.RemoteURL = remote
	}
	if level := os.Getenv("REVIEW_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	// Comma-separated, e.g. "console,file".
	if outputs := os.Getenv("REVIEW_LOG_OUTPUTS"); outputs != "" {
		var list []string
		for _, out := range strings.Split(outputs, ",") {
			if out = strings.TrimSpace(out); out != "" {
				list = append(list, out)
			}
		}
		config.Logging.Outputs = list
	}
}

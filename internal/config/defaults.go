package config

import "github.com/bobmcallan/dev-center-review/internal/common"

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Browser: BrowserConfig{
			NoSandbox: true,
		},
		MCP: MCPConfig{
			Name: "dev-center-review",
		},
		Logging: common.LoggingConfig{
			Level:      "info",
			Outputs:    []string{"console"},
			FilePath:   "logs/dev-center-review.log",
			MaxSizeMB:  1,
			MaxBackups: 5,
		},
	}
}

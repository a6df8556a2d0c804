package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config represents the application configuration for the boxlet bridge.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Bridge  BridgeConfig  `mapstructure:"bridge"`
	Sandbox SandboxConfig `mapstructure:"sandbox"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig holds the boxlet sandbox server connection settings.
type ServerConfig struct {
	URL       string `mapstructure:"url"`
	APIKey    string `mapstructure:"api_key"`
	Namespace string `mapstructure:"namespace"`
}

// BridgeConfig holds the MCP bridge transport settings.
type BridgeConfig struct {
	Transport string `mapstructure:"transport"`
	HTTPPort  int    `mapstructure:"http_port"`
}

// SandboxConfig holds default resources for sandboxes the bridge provisions.
type SandboxConfig struct {
	MemoryMB int               `mapstructure:"memory_mb"`
	CPUs     float64           `mapstructure:"cpus"`
	Images   map[string]string `mapstructure:"images"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Mode  string `mapstructure:"mode"`
	Level string `mapstructure:"level"`
}

// New loads and validates the application configuration. Values come from
// config.yaml when present, overridden by BOXLET_* environment variables,
// with built-in defaults applying last.
func New() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Environment bindings shared with the sandbox package so config file,
	// environment, and defaults resolve in the same order everywhere.
	_ = v.BindEnv("server.url", "BOXLET_SERVER_URL")
	_ = v.BindEnv("server.api_key", "BOXLET_API_KEY")
	_ = v.BindEnv("server.namespace", "BOXLET_NAMESPACE")

	v.SetDefault("server.url", "http://127.0.0.1:5555")
	v.SetDefault("server.namespace", "default")
	v.SetDefault("bridge.transport", "stdio")
	v.SetDefault("bridge.http_port", 8080)
	v.SetDefault("sandbox.memory_mb", 512)
	v.SetDefault("sandbox.cpus", 1.0)
	v.SetDefault("logging.mode", "production")
	v.SetDefault("logging.level", "info")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// If config file not found, continue with defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	return &config, nil
}

// validate ensures the configuration is valid
func (c *Config) validate() error {
	if c.Server.URL == "" {
		return fmt.Errorf("server.url must not be empty")
	}

	if c.Bridge.Transport != "stdio" && c.Bridge.Transport != "http" {
		return fmt.Errorf("invalid bridge.transport: %s, must be 'stdio' or 'http'", c.Bridge.Transport)
	}

	if c.Sandbox.MemoryMB <= 0 {
		return fmt.Errorf("sandbox.memory_mb must be positive, got: %d", c.Sandbox.MemoryMB)
	}

	if c.Sandbox.CPUs <= 0 {
		return fmt.Errorf("sandbox.cpus must be positive, got: %g", c.Sandbox.CPUs)
	}

	if c.Logging.Mode != "production" && c.Logging.Mode != "development" {
		return fmt.Errorf("invalid logging.mode: %s, must be 'production' or 'development'", c.Logging.Mode)
	}

	return nil
}

// Image returns the configured image override for a language tag, or the
// empty string when the language default should be used.
func (c *Config) Image(languageTag string) string {
	return c.Sandbox.Images[languageTag]
}

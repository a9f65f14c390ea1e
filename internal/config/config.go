package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

const ConfigFile = "library.toml"

const (
	DefaultPort        = 3000
	DefaultTitle       = "Library GraphQL"
	DefaultSearchLimit = 50
)

// Config holds the library configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Search SearchConfig `toml:"search"`
	Log    LogConfig    `toml:"log"`
}

// ServerConfig defines settings for the HTTP server.
type ServerConfig struct {
	Port int `toml:"port"`
	// Playground serves the in-browser explorer on GET /graphql.
	Playground bool   `toml:"playground"`
	Title      string `toml:"title"`
}

// SearchConfig defines settings for the full-text index.
type SearchConfig struct {
	Limit int `toml:"limit"`
}

// LogConfig defines the log level ("debug", "info", "warn", "error") and
// format ("text" or "json").
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:       DefaultPort,
			Playground: true,
			Title:      DefaultTitle,
		},
		Search: SearchConfig{
			Limit: DefaultSearchLimit,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads configuration from the given file.
// Returns default config if path is empty or the file doesn't exist.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	// Keys missing from the file keep their defaults.
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	if cfg.Server.Port <= 0 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.Server.Title == "" {
		cfg.Server.Title = DefaultTitle
	}
	if cfg.Search.Limit <= 0 {
		cfg.Search.Limit = DefaultSearchLimit
	}

	return cfg, nil
}

// Save writes the configuration to the given file.
func (c *Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

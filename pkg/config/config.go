package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the regexp-match host
type Config struct {
	// Engine settings. An empty EnginePath evaluates patterns in-process.
	EnginePath    string   `yaml:"engine_path" env:"REGEXP_MATCH_ENGINE"`
	EngineArgs    []string `yaml:"engine_args"`
	MemoryLimitMB int      `yaml:"memory_limit_mb" env:"REGEXP_MATCH_MEMORY_LIMIT_MB"`

	// Per-query limits
	Timeout        time.Duration `yaml:"timeout" env:"REGEXP_MATCH_TIMEOUT"`
	MaxInputBytes  int           `yaml:"max_input_bytes"`
	MaxOutputBytes int           `yaml:"max_output_bytes" env:"REGEXP_MATCH_MAX_OUTPUT"`

	// Behavior flags
	Debug bool `yaml:"debug" env:"REGEXP_MATCH_DEBUG"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Timeout:        100 * time.Millisecond,
		MaxInputBytes:  1 << 20,
		MaxOutputBytes: 64 * 1024,
	}
}

// Load loads configuration from file and environment
func Load() (*Config, error) {
	cfg := DefaultConfig()

	// Try to load from config file
	configPath := getConfigPath()
	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	// Override with environment variables
	if err := loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// getConfigPath returns the config file path
func getConfigPath() string {
	// Check for explicit config path
	if path := os.Getenv("REGEXP_MATCH_CONFIG"); path != "" {
		return path
	}

	// Check XDG config directory
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "regexp-match", "config.yaml")
	}

	// Fall back to home directory
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "regexp-match", "config.yaml")
	}

	return ""
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(cfg *Config, path string) error {
	// #nosec G304 - The config file path comes from trusted sources (env var or standard locations)
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, cfg)
}

// loadFromEnv loads configuration from environment variables
func loadFromEnv(cfg *Config) error {
	if engine := os.Getenv("REGEXP_MATCH_ENGINE"); engine != "" {
		cfg.EnginePath = engine
	}

	if timeout := os.Getenv("REGEXP_MATCH_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return fmt.Errorf("invalid REGEXP_MATCH_TIMEOUT: %w", err)
		}
		cfg.Timeout = d
	}

	if maxOutput := os.Getenv("REGEXP_MATCH_MAX_OUTPUT"); maxOutput != "" {
		n, err := strconv.Atoi(maxOutput)
		if err != nil {
			return fmt.Errorf("invalid REGEXP_MATCH_MAX_OUTPUT: %w", err)
		}
		cfg.MaxOutputBytes = n
	}

	if mem := os.Getenv("REGEXP_MATCH_MEMORY_LIMIT_MB"); mem != "" {
		n, err := strconv.Atoi(mem)
		if err != nil {
			return fmt.Errorf("invalid REGEXP_MATCH_MEMORY_LIMIT_MB: %w", err)
		}
		cfg.MemoryLimitMB = n
	}

	if debug := os.Getenv("REGEXP_MATCH_DEBUG"); debug != "" {
		switch debug {
		case "true", "1", "yes":
			cfg.Debug = true
		case "false", "0", "no":
			cfg.Debug = false
		default:
			return fmt.Errorf("invalid REGEXP_MATCH_DEBUG value: %q (use true/false)", debug)
		}
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}

	if c.MaxInputBytes <= 0 {
		return fmt.Errorf("max_input_bytes must be positive")
	}

	if c.MaxOutputBytes <= 0 {
		return fmt.Errorf("max_output_bytes must be positive")
	}

	if c.MemoryLimitMB < 0 {
		return fmt.Errorf("memory_limit_mb must be non-negative")
	}

	if len(c.EngineArgs) > 0 && c.EnginePath == "" {
		return fmt.Errorf("engine_args requires engine_path")
	}

	return nil
}

package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// =============================================================================
// Config Types
// =============================================================================

// Config holds all application configuration.
type Config struct {
	Project   ProjectConfig   `mapstructure:"project"`
	Validator ValidatorConfig `mapstructure:"validator"`
	Log       LogConfig       `mapstructure:"log"`
}

// ProjectConfig holds project directory configuration.
type ProjectConfig struct {
	// Dir is the project root scanned for docker-compose files.
	Dir string `mapstructure:"dir"`

	// ComposeVersion is written into a freshly created compose file.
	ComposeVersion string `mapstructure:"compose_version"`
}

// ValidatorConfig holds compose validation configuration.
type ValidatorConfig struct {
	// Tool is the external compose binary invoked as `<tool> -f <path> config -q`.
	Tool string `mapstructure:"tool"`

	// Timeout bounds one external validation run.
	Timeout time.Duration `mapstructure:"timeout"`

	// InProcess switches validation to the compose-go loader, for hosts
	// without a compose binary.
	InProcess bool `mapstructure:"in_process"`

	// Skip disables validity checking on merges entirely.
	Skip bool `mapstructure:"skip"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// =============================================================================
// Config Loading
// =============================================================================

// LoadConfig loads configuration from file and environment.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("project.dir", ".")
	v.SetDefault("project.compose_version", "3.7")
	v.SetDefault("validator.tool", "docker-compose")
	v.SetDefault("validator.timeout", "30s")
	v.SetDefault("validator.in_process", false)
	v.SetDefault("validator.skip", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Load from file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			// Only return error if file was explicitly specified and is invalid
			if _, ok := err.(viper.ConfigParseError); ok {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
			// File not found is OK, we'll use defaults
		}
	}

	// Enable environment variable overrides
	v.SetEnvPrefix("COMPOSEKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unmarshal config
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// =============================================================================
// Logger Setup
// =============================================================================

// SetupLogger creates a logger with the configured level and format.
func SetupLogger(cfg *Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if strings.ToLower(cfg.Log.Format) == "text" {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}

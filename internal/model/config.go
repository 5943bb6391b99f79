package model

import (
	"fmt"
	"runtime"
	"strings"
	"time"
)

// Config holds all tool configuration
type Config struct {
	Export      ExportConfig      `yaml:"export" mapstructure:"export"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
}

// ExportConfig controls history export
type ExportConfig struct {
	Dir             string `yaml:"dir" mapstructure:"dir"`                           // Directory for generated export files
	FilenamePattern string `yaml:"filename_pattern" mapstructure:"filename_pattern"` // time.Format layout for default file names
	Format          string `yaml:"format" mapstructure:"format"`                     // text, yaml or json
}

// OutputConfig controls terminal and report rendering
type OutputConfig struct {
	Locale  string `yaml:"locale" mapstructure:"locale"` // BCP 47 tag used for thousands grouping
	Verbose bool   `yaml:"verbose" mapstructure:"verbose"`
}

// CacheConfig controls allocation memoization
type CacheConfig struct {
	Enabled         bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL             time.Duration `yaml:"ttl" mapstructure:"ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" mapstructure:"cleanup_interval"`
}

// LogConfig controls structured logging
type LogConfig struct {
	Level       string `yaml:"level" mapstructure:"level"`             // debug, info, warn, error
	Environment string `yaml:"environment" mapstructure:"environment"` // production or development
}

// ConcurrencyConfig controls batch processing
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// Export formats
const (
	FormatText = "text"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Export: ExportConfig{
			Dir:             ".",
			FilenamePattern: "Warisan_Riwayat_20060102_150405",
			Format:          FormatText,
		},
		Output: OutputConfig{
			Locale: "en",
		},
		Cache: CacheConfig{
			Enabled:         true,
			TTL:             30 * time.Minute,
			CleanupInterval: 10 * time.Minute,
		},
		Log: LogConfig{
			Level:       "warn",
			Environment: "development",
		},
		Concurrency: ConcurrencyConfig{
			Workers: runtime.NumCPU(),
		},
	}
}

// ValidFormat reports whether f names a supported export format
func ValidFormat(f string) bool {
	switch f {
	case FormatText, FormatYAML, FormatJSON:
		return true
	}
	return false
}

// Validate checks the configuration and reports every problem at once
func (c *Config) Validate() error {
	var problems []string

	if !ValidFormat(c.Export.Format) {
		problems = append(problems, fmt.Sprintf("invalid export format '%s': must be one of [text yaml json]", c.Export.Format))
	}
	if strings.TrimSpace(c.Export.FilenamePattern) == "" {
		problems = append(problems, "export filename pattern cannot be empty")
	}
	if strings.TrimSpace(c.Output.Locale) == "" {
		problems = append(problems, "output locale cannot be empty")
	}
	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		problems = append(problems, fmt.Sprintf("invalid cache ttl %v: must be positive when cache is enabled", c.Cache.TTL))
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("invalid log level '%s'", c.Log.Level))
	}
	switch c.Log.Environment {
	case "production", "development":
	default:
		problems = append(problems, fmt.Sprintf("invalid log environment '%s': must be production or development", c.Log.Environment))
	}
	if c.Concurrency.Workers < 1 {
		problems = append(problems, fmt.Sprintf("invalid worker count %d: must be at least 1", c.Concurrency.Workers))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

// Package config handles configuration loading and validation for dropsort.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// ConfigErrorType represents the type of configuration error.
type ConfigErrorType string

const (
	FileNotFound    ConfigErrorType = "FILE_NOT_FOUND"
	InvalidTOML     ConfigErrorType = "INVALID_TOML"
	ValidationError ConfigErrorType = "VALIDATION_ERROR"
)

// ConfigError represents an error that occurred during configuration loading.
type ConfigError struct {
	Type    ConfigErrorType
	Path    string
	Message string
}

func (e *ConfigError) Error() string {
	switch e.Type {
	case FileNotFound:
		return fmt.Sprintf("configuration file not found: %s", e.Path)
	case InvalidTOML:
		return fmt.Sprintf("invalid TOML in configuration file: %s", e.Message)
	case ValidationError:
		return fmt.Sprintf("configuration validation error: %s", e.Message)
	default:
		return fmt.Sprintf("configuration error: %s", e.Message)
	}
}

// WatchSettings tunes arrival handling.
type WatchSettings struct {
	SettleDelayMs     int      `toml:"settle_delay_ms"`
	StableThresholdMs int      `toml:"stable_threshold_ms"`
	IgnorePatterns    []string `toml:"ignore_patterns"`
}

// LogSettings controls daemon logging output.
type LogSettings struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "text", "json", or "auto"
}

// Configuration holds all settings for dropsort.
type Configuration struct {
	StagingDir     string        `toml:"staging_dir"`
	DatasetDir     string        `toml:"dataset_dir"`
	Platforms      []string      `toml:"platforms"`
	ImageExtension string        `toml:"image_ext"`
	LabelExtension string        `toml:"label_ext"`
	Watch          WatchSettings `toml:"watch"`
	Log            LogSettings   `toml:"log"`
}

// Validate checks that the configuration has all required fields.
func (c *Configuration) Validate() error {
	if c.StagingDir == "" {
		return &ConfigError{Type: ValidationError, Message: "staging_dir cannot be empty"}
	}
	if c.DatasetDir == "" {
		return &ConfigError{Type: ValidationError, Message: "dataset_dir cannot be empty"}
	}
	if c.StagingDir == c.DatasetDir {
		return &ConfigError{Type: ValidationError, Message: "staging_dir and dataset_dir must differ"}
	}

	if len(c.Platforms) == 0 {
		return &ConfigError{Type: ValidationError, Message: "platforms must contain at least one label"}
	}
	seen := make(map[string]bool, len(c.Platforms))
	for i, p := range c.Platforms {
		if p == "" {
			return &ConfigError{Type: ValidationError, Message: fmt.Sprintf("platforms[%d] cannot be empty", i)}
		}
		lower := strings.ToLower(p)
		if strings.Contains(lower, "_") {
			return &ConfigError{
				Type:    ValidationError,
				Message: fmt.Sprintf("platforms[%d] %q cannot contain the filename delimiter '_'", i, p),
			}
		}
		if seen[lower] {
			return &ConfigError{
				Type:    ValidationError,
				Message: fmt.Sprintf("platforms[%d] %q duplicates an earlier label", i, p),
			}
		}
		seen[lower] = true
	}

	for _, ext := range []struct{ name, value string }{
		{"image_ext", c.ImageExtension},
		{"label_ext", c.LabelExtension},
	} {
		if ext.value == "" {
			return &ConfigError{Type: ValidationError, Message: ext.name + " cannot be empty"}
		}
		if !strings.HasPrefix(ext.value, ".") {
			return &ConfigError{
				Type:    ValidationError,
				Message: fmt.Sprintf("%s %q must start with a dot", ext.name, ext.value),
			}
		}
	}
	if strings.EqualFold(c.ImageExtension, c.LabelExtension) {
		return &ConfigError{Type: ValidationError, Message: "image_ext and label_ext must differ"}
	}

	if c.Watch.SettleDelayMs < 0 {
		return &ConfigError{Type: ValidationError, Message: "watch.settle_delay_ms cannot be negative"}
	}
	if c.Watch.StableThresholdMs < 0 {
		return &ConfigError{Type: ValidationError, Message: "watch.stable_threshold_ms cannot be negative"}
	}

	return nil
}

// normalize expands tildes and fills in fields the file omitted.
func (c *Configuration) normalize() {
	c.StagingDir = expandPath(c.StagingDir)
	c.DatasetDir = expandPath(c.DatasetDir)
	c.ImageExtension = strings.ToLower(c.ImageExtension)
	c.LabelExtension = strings.ToLower(c.LabelExtension)

	if len(c.Watch.IgnorePatterns) == 0 {
		c.Watch.IgnorePatterns = defaultIgnorePatterns()
	}
	if c.Watch.SettleDelayMs == 0 {
		c.Watch.SettleDelayMs = defaultSettleDelayMs
	}
	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = defaultLogFormat
	}
}

// Load reads and parses a configuration file from the given path.
// Missing optional fields fall back to defaults before validation.
func Load(filePath string) (*Configuration, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &ConfigError{Type: FileNotFound, Path: filePath}
		}
		return nil, &ConfigError{Type: FileNotFound, Path: filePath, Message: err.Error()}
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, &ConfigError{Type: InvalidTOML, Message: err.Error()}
	}

	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads config if the path names a file, or returns defaults
// (normalized and validated) when no path is given or the file is absent.
func LoadOrDefault(filePath string) (*Configuration, error) {
	if filePath == "" {
		cfg := Default()
		cfg.normalize()
		return cfg, nil
	}
	cfg, err := Load(filePath)
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) && cfgErr.Type == FileNotFound {
		fallback := Default()
		fallback.normalize()
		return fallback, nil
	}
	return cfg, err
}

// expandPath resolves a leading ~/ against the current user's home directory.
func expandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		if path == "~" {
			return home
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

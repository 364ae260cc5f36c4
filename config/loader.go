// Package config provides configuration loading and parsing functionality
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigFormat represents the configuration file format
type ConfigFormat string

const (
	FormatYAML ConfigFormat = "yaml"
	FormatJSON ConfigFormat = "json"
)

// Loader handles configuration loading from various sources
type Loader struct {
	// Configuration search paths
	searchPaths []string

	// Environment variable prefix
	envPrefix string

	// Default configuration
	defaultConfig *Config
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{
		searchPaths: []string{
			".",
			"./config",
			"./configs",
			"/etc/facade",
			os.Getenv("HOME") + "/.facade",
		},
		envPrefix:     "FACADE",
		defaultConfig: DefaultConfig(),
	}
}

// SetSearchPaths sets the configuration file search paths
func (l *Loader) SetSearchPaths(paths []string) *Loader {
	l.searchPaths = paths
	return l
}

// SetEnvPrefix sets the environment variable prefix
func (l *Loader) SetEnvPrefix(prefix string) *Loader {
	l.envPrefix = prefix
	return l
}

// SetDefaultConfig sets the default configuration
func (l *Loader) SetDefaultConfig(config *Config) *Loader {
	l.defaultConfig = config
	return l
}

// Load loads configuration from the specified file, applies environment
// variable overrides and validates the result
func (l *Loader) Load(filename string) (*Config, error) {
	config := l.defaultConfig
	if config == nil {
		config = DefaultConfig()
	}

	if filename != "" {
		fileConfig, err := l.loadFromFile(filename)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file %s: %w", filename, err)
		}
		config = fileConfig
	}

	if err := l.loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load config from environment: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// LoadFromFile loads configuration from a specific file
func (l *Loader) LoadFromFile(filename string) (*Config, error) {
	return l.loadFromFile(filename)
}

// LoadFromReader loads configuration from an io.Reader
func (l *Loader) LoadFromReader(reader io.Reader, format ConfigFormat) (*Config, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration data: %w", err)
	}

	return l.parseConfig(data, format)
}

// AutoLoad automatically discovers and loads configuration
func (l *Loader) AutoLoad() (*Config, error) {
	configFile, err := l.findConfigFile()
	if err != nil {
		// No config file found, fall back to defaults plus environment
		config := DefaultConfig()
		if err := l.loadFromEnv(config); err != nil {
			return nil, err
		}
		if err := config.Validate(); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
		return config, nil
	}

	return l.Load(configFile)
}

// loadFromFile reads and parses a configuration file
func (l *Loader) loadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigFileNotFound, filename)
		}
		return nil, err
	}

	format, err := formatForFile(filename)
	if err != nil {
		return nil, err
	}

	return l.parseConfig(data, format)
}

// parseConfig unmarshals configuration data in the given format on top
// of the defaults
func (l *Loader) parseConfig(data []byte, format ConfigFormat) (*Config, error) {
	config := DefaultConfig()

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfigParseError, err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfigParseError, err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported format %s", ErrConfigParseError, format)
	}

	return config, nil
}

// findConfigFile searches the configured paths for a configuration file
func (l *Loader) findConfigFile() (string, error) {
	names := []string{"facade.yaml", "facade.yml", "facade.json"}

	for _, dir := range l.searchPaths {
		for _, name := range names {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, nil
			}
		}
	}

	return "", ErrConfigFileNotFound
}

// loadFromEnv overrides configuration values from environment variables
func (l *Loader) loadFromEnv(config *Config) error {
	if v := os.Getenv(l.envPrefix + "_APP_NAME"); v != "" {
		config.App.Name = v
	}
	if v := os.Getenv(l.envPrefix + "_APP_ENVIRONMENT"); v != "" {
		config.App.Environment = Environment(v)
	}
	if v := os.Getenv(l.envPrefix + "_APP_DEBUG"); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s_APP_DEBUG: %v", ErrConfigParseError, l.envPrefix, err)
		}
		config.App.Debug = debug
	}

	if v := os.Getenv(l.envPrefix + "_LOG_LEVEL"); v != "" {
		config.Log.Level = v
	}
	if v := os.Getenv(l.envPrefix + "_LOG_FORMAT"); v != "" {
		config.Log.Format = v
	}
	if v := os.Getenv(l.envPrefix + "_LOG_OUTPUT"); v != "" {
		config.Log.Output = v
	}

	if v := os.Getenv(l.envPrefix + "_DEFAULT_KIND"); v != "" {
		config.Facade.DefaultKind = v
	}
	if v := os.Getenv(l.envPrefix + "_DROP_AFTER_STOP"); v != "" {
		drop, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s_DROP_AFTER_STOP: %v", ErrConfigParseError, l.envPrefix, err)
		}
		config.Facade.DropAfterStop = drop
	}
	if v := os.Getenv(l.envPrefix + "_JOIN_TIMEOUT"); v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s_JOIN_TIMEOUT: %v", ErrConfigParseError, l.envPrefix, err)
		}
		config.Facade.JoinTimeout = timeout
	}

	return nil
}

// formatForFile derives the configuration format from a file extension
func formatForFile(filename string) (ConfigFormat, error) {
	switch filepath.Ext(filename) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unsupported config file extension", ErrConfigParseError)
	}
}

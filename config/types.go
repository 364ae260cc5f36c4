// Package config provides configuration management for the facade library
package config

import (
	"time"
)

// Environment represents the deployment environment
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "production"
)

// String returns the string representation of Environment
func (e Environment) String() string {
	return string(e)
}

// IsValid checks if the environment is valid
func (e Environment) IsValid() bool {
	switch e {
	case EnvDevelopment, EnvTesting, EnvStaging, EnvProduction:
		return true
	default:
		return false
	}
}

// Kind names accepted by facade configuration blocks
const (
	KindPassive     = "passive"
	KindActive      = "active"
	KindDistributor = "distributor"
)

// isValidKind checks a facade kind name
func isValidKind(kind string) bool {
	switch kind {
	case KindPassive, KindActive, KindDistributor:
		return true
	default:
		return false
	}
}

// Config represents the complete facade library configuration
type Config struct {
	// Application configuration
	App AppConfig `yaml:"app" json:"app"`

	// Logging configuration
	Log LogConfig `yaml:"log" json:"log"`

	// Default facade wrapping behaviour
	Facade FacadeConfig `yaml:"facade" json:"facade"`

	// Per target-type overrides for auto-wrap (keyed by type name)
	Types map[string]WrapConfig `yaml:"types,omitempty" json:"types,omitempty"`
}

// AppConfig contains application-level configuration
type AppConfig struct {
	// Application name
	Name string `yaml:"name" json:"name"`

	// Deployment environment
	Environment Environment `yaml:"environment" json:"environment"`

	// Debug mode
	Debug bool `yaml:"debug" json:"debug"`
}

// LogConfig contains logging configuration
type LogConfig struct {
	// Log level (debug, info, warn, error)
	Level string `yaml:"level" json:"level"`

	// Log format (json, text)
	Format string `yaml:"format" json:"format"`

	// Output destination (stdout, stderr, file path)
	Output string `yaml:"output" json:"output"`
}

// FacadeConfig contains the default wrapping behaviour
type FacadeConfig struct {
	// Default facade kind applied when a type has no override
	DefaultKind string `yaml:"default_kind" json:"default_kind"`

	// DropAfterStop keeps the silent drop-on-stop policy when true;
	// when false late invokes report an error to the caller
	DropAfterStop bool `yaml:"drop_after_stop" json:"drop_after_stop"`

	// JoinTimeout bounds coordinated shutdown waits (0 = unbounded)
	JoinTimeout time.Duration `yaml:"join_timeout" json:"join_timeout"`
}

// WrapConfig contains the auto-wrap rule for one target type
type WrapConfig struct {
	// Facade kind for this type
	Kind string `yaml:"kind" json:"kind"`

	// Number of delegates a distributor starts with
	Delegates int `yaml:"delegates,omitempty" json:"delegates,omitempty"`

	// Facade kind for pre-populated distributor delegates
	DelegateKind string `yaml:"delegate_kind,omitempty" json:"delegate_kind,omitempty"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:        "facade",
			Environment: EnvDevelopment,
			Debug:       false,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			Output: "stdout",
		},
		Facade: FacadeConfig{
			DefaultKind:   KindPassive,
			DropAfterStop: true,
			JoinTimeout:   0,
		},
		Types: make(map[string]WrapConfig),
	}
}

// Validate checks the configuration for consistency
func (c *Config) Validate() error {
	if c.App.Name == "" {
		return ErrInvalidAppName
	}
	if !c.App.Environment.IsValid() {
		return ErrInvalidEnvironment
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return ErrInvalidLogLevel
	}

	if !isValidKind(c.Facade.DefaultKind) {
		return ErrInvalidKind
	}
	if c.Facade.JoinTimeout < 0 {
		return ErrInvalidJoinTimeout
	}

	for name, wrap := range c.Types {
		if name == "" {
			return ErrInvalidTypeName
		}
		if !isValidKind(wrap.Kind) {
			return ErrInvalidKind
		}
		if wrap.Delegates < 0 {
			return ErrInvalidDelegates
		}
		if wrap.Kind == KindDistributor && wrap.Delegates > 0 {
			if wrap.DelegateKind != KindPassive && wrap.DelegateKind != KindActive {
				return ErrInvalidDelegateKind
			}
		}
	}

	return nil
}

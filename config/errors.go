// Package config provides error definitions for configuration management
package config

import "errors"

// Configuration validation errors
var (
	ErrInvalidAppName      = errors.New("invalid application name")
	ErrInvalidEnvironment  = errors.New("invalid environment")
	ErrInvalidLogLevel     = errors.New("invalid log level")
	ErrInvalidKind         = errors.New("invalid facade kind")
	ErrInvalidDelegateKind = errors.New("invalid delegate kind")
	ErrInvalidDelegates    = errors.New("invalid delegate count")
	ErrInvalidTypeName     = errors.New("invalid target type name")
	ErrInvalidJoinTimeout  = errors.New("invalid join timeout")
)

// Configuration loading errors
var (
	ErrConfigFileNotFound  = errors.New("configuration file not found")
	ErrConfigParseError    = errors.New("configuration parse error")
	ErrConfigValidateError = errors.New("configuration validation error")
	ErrConfigWatchError    = errors.New("configuration watch error")
)

package core

import "errors"

// Facade construction errors
var (
	ErrNilTarget   = errors.New("facade target is nil")
	ErrUnknownKind = errors.New("unknown facade kind")
	ErrNoFactory   = errors.New("no target factory configured")
)

// Invocation and lifecycle errors
var (
	ErrStopped    = errors.New("facade is stopped")
	ErrNoDelegate = errors.New("no delegate facade available")
)

// Auto-wrap errors
var (
	ErrTypeNotConfigured = errors.New("target type not configured for auto-wrap")
)

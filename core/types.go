package core

import (
	"log/slog"
	"time"
)

// Kind identifies the facade variant used to wrap a target.
type Kind uint8

const (
	// KindPassive executes invocations synchronously on the caller's goroutine
	KindPassive Kind = iota

	// KindActive queues invocations for a dedicated worker goroutine
	KindActive

	// KindDistributor round-robins invocations across delegate facades
	KindDistributor
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindPassive:
		return "passive"
	case KindActive:
		return "active"
	case KindDistributor:
		return "distributor"
	default:
		return "unknown"
	}
}

// ParseKind parses a facade kind from its string form.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "passive":
		return KindPassive, nil
	case "active":
		return KindActive, nil
	case "distributor":
		return KindDistributor, nil
	default:
		return 0, ErrUnknownKind
	}
}

// WorkerState represents the current state of an Active facade's worker.
type WorkerState uint8

const (
	// StateIdle means the worker has not been started yet
	StateIdle WorkerState = iota

	// StateRunning means the worker is processing its queue
	StateRunning

	// StateStopping means a stop has been requested
	StateStopping

	// StateStopped means the worker has exited; this state is terminal
	StateStopped
)

// String returns the string representation of WorkerState.
func (s WorkerState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Callback receives the result of a successful invocation. For Active
// facades it runs on the worker goroutine; callers that need the result
// on their own goroutine should marshal it themselves or wait on the
// returned Future instead.
type Callback func(result any)

// TargetFactory creates a fresh target instance. Distributors use it to
// derive new delegate targets from their template.
type TargetFactory func() Target

// Options contains configuration options for constructing a facade.
type Options struct {
	// Name is a human-readable name for the facade
	Name string

	// DropAfterStop controls what happens to an Invoke that arrives after
	// Stop. When true (the default) the message is silently dropped and
	// only its future resolves with ErrStopped; when false Invoke also
	// returns ErrStopped to the caller.
	DropAfterStop bool

	// Registry tracks the facade's worker for JoinAll.
	// Nil selects DefaultRegistry.
	Registry *Registry

	// TargetFactory derives fresh delegate targets for a Distributor
	TargetFactory TargetFactory

	// Logger receives lifecycle and drop diagnostics.
	// Nil selects slog.Default.
	Logger *slog.Logger
}

// DefaultOptions returns sensible default options.
func DefaultOptions() Options {
	return Options{
		Name:          "",
		DropAfterStop: true,
	}
}

// Stats contains runtime statistics for a facade.
type Stats struct {
	// ID of the facade
	ID string

	// Name of the facade
	Name string

	// Kind of the facade
	Kind Kind

	// Current worker state (always StateIdle for Passive facades)
	State WorkerState

	// Total messages invoked against the target
	MessagesProcessed uint64

	// Messages that never ran: still queued when Stop arrived, or
	// invoked after it
	MessagesDropped uint64

	// Messages currently queued (always 0 for Passive facades)
	QueueLen int

	// Time when the facade was created
	CreatedAt time.Time

	// Last message invocation time
	LastMessageAt time.Time
}

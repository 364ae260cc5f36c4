package core

import (
	"context"
)

// Target is the capability interface every wrappable object implements.
// Dispatch resolves an operation name and its argument payload against
// the object's own dispatch table. Operation names and argument types
// are opaque to the facade core; unsupported operations should be
// reported through the returned error.
type Target interface {
	// Dispatch invokes the named operation with the given arguments.
	Dispatch(op string, args []any) (any, error)
}

// Control is the handle a facade passes to control-aware targets so a
// target can act on its own facade, typically to stop a self-terminating
// worker from inside an operation.
type Control interface {
	// ID returns the unique identifier of the owning facade.
	ID() string

	// Kind returns the owning facade's variant.
	Kind() Kind

	// Stop requests the owning facade to stop. Safe to call from the
	// worker goroutine itself.
	Stop() error
}

// ControlAware is implemented by targets that want a handle on their
// owning facade. BindControl is called exactly once, at wrap time;
// a given target instance is owned by at most one facade at a time.
type ControlAware interface {
	// BindControl installs the owning facade's control handle.
	BindControl(ctrl Control)
}

// Facade is a proxy standing in for a target, intercepting operation
// calls. The three variants share this surface: Passive executes on the
// caller's goroutine, Active serializes execution on a dedicated worker
// goroutine, and Distributor round-robins across delegate facades.
type Facade interface {
	Control

	// Invoke executes or enqueues the named operation. The returned
	// Future is the single-assignment result slot: it resolves with the
	// operation's value or error once the invocation has run. Passive
	// facades resolve it before returning; Active facades resolve it
	// later on the worker goroutine. The immediate error covers
	// synchronous failures only (passive invocation errors, routing
	// errors, rejected enqueues).
	//
	// If cb is non-nil it is called with the result after a successful
	// invocation, on whichever goroutine executed the operation.
	Invoke(op string, args []any, cb Callback) (*Future, error)

	// Start launches the facade's worker, if it has one. Idempotent:
	// calling Start on a running or stopped facade is a no-op.
	Start() error

	// Done returns a channel that is closed once the facade's worker
	// goroutine has exited. Facades without a worker return an already
	// closed channel.
	Done() <-chan struct{}

	// Target returns the wrapped target.
	Target() Target

	// Stats returns current runtime statistics for this facade.
	Stats() Stats
}

// joinContext blocks until done is closed or ctx is cancelled.
func joinContext(ctx context.Context, done <-chan struct{}) error {
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

package core

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// PassiveFacade executes invocations synchronously on the caller's
// goroutine. It owns no queue and no worker; Start and Stop are no-ops.
// It exists so passive and active wrapping are interchangeable behind
// the Facade interface.
type PassiveFacade struct {
	id     string
	name   string
	target Target
	logger *slog.Logger

	createdAt time.Time
	done      chan struct{}

	// Atomic counters for statistics
	processed     uint64
	lastMessageAt int64 // Unix nanoseconds
}

// NewPassive creates a Passive facade around target and installs the
// control handle if the target is control-aware.
func NewPassive(target Target, opts Options) *PassiveFacade {
	f := &PassiveFacade{
		id:        uuid.NewString(),
		name:      opts.Name,
		target:    target,
		logger:    facadeLogger(opts),
		createdAt: time.Now(),
		done:      make(chan struct{}),
	}

	// No worker to wait for
	close(f.done)

	bindControl(target, f)
	return f
}

// ID returns the unique identifier of this facade.
func (f *PassiveFacade) ID() string {
	return f.id
}

// Kind returns KindPassive.
func (f *PassiveFacade) Kind() Kind {
	return KindPassive
}

// Invoke executes the named operation on the target immediately, on the
// caller's goroutine. The returned Future is already resolved. If the
// operation succeeds and cb is non-nil, cb runs before Invoke returns.
// Operation errors propagate synchronously through the returned error.
func (f *PassiveFacade) Invoke(op string, args []any, cb Callback) (*Future, error) {
	msg := newMessage(op, args, cb)
	msg.invoke(f.target)

	atomic.AddUint64(&f.processed, 1)
	atomic.StoreInt64(&f.lastMessageAt, time.Now().UnixNano())

	_, err, _ := msg.future.Result()
	return msg.future, err
}

// Start is a no-op; a Passive facade has no worker.
func (f *PassiveFacade) Start() error {
	return nil
}

// Stop is a no-op; a Passive facade has no worker.
func (f *PassiveFacade) Stop() error {
	return nil
}

// Done returns an already closed channel.
func (f *PassiveFacade) Done() <-chan struct{} {
	return f.done
}

// Target returns the wrapped target.
func (f *PassiveFacade) Target() Target {
	return f.target
}

// Stats returns current runtime statistics for this facade.
func (f *PassiveFacade) Stats() Stats {
	return Stats{
		ID:                f.id,
		Name:              f.name,
		Kind:              KindPassive,
		State:             StateIdle,
		MessagesProcessed: atomic.LoadUint64(&f.processed),
		CreatedAt:         f.createdAt,
		LastMessageAt:     lastMessageTime(atomic.LoadInt64(&f.lastMessageAt)),
	}
}

// facadeLogger resolves the logger for a facade from its options.
func facadeLogger(opts Options) *slog.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return slog.Default()
}

// bindControl installs the control handle on control-aware targets.
func bindControl(target Target, ctrl Control) {
	if aware, ok := target.(ControlAware); ok {
		aware.BindControl(ctrl)
	}
}

// lastMessageTime converts the atomic nanosecond stamp to a time.Time.
func lastMessageTime(ns int64) time.Time {
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

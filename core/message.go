package core

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Future is a single-assignment result slot shared between the goroutine
// that issued an invocation and the goroutine that executes it. Errors
// raised inside the target surface here, on the caller's side, never on
// the worker: fire-and-forget callers simply discard the Future.
type Future struct {
	done chan struct{}

	once  sync.Once
	value any
	err   error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// resolve assigns the outcome exactly once. Later calls are ignored.
func (f *Future) resolve(value any, err error) {
	f.once.Do(func() {
		f.value = value
		f.err = err
		close(f.done)
	})
}

// Done returns a channel that is closed once the result is available.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the result is available or the context is cancelled.
func (f *Future) Wait(ctx context.Context) (any, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Result returns the outcome without blocking. The bool reports whether
// the invocation has completed yet.
func (f *Future) Result() (any, error, bool) {
	select {
	case <-f.done:
		return f.value, f.err, true
	default:
		return nil, nil, false
	}
}

// Message represents a captured, not-yet-executed invocation. It is
// created on the caller's goroutine at interception time, consumed
// exactly once by the worker goroutine and discarded afterwards; queued
// messages are never persisted or retried.
type Message struct {
	// Op is the name of the operation to invoke
	Op string

	// Args is the ordered invocation argument list, opaque to the core
	Args []any

	// EnqueuedAt is the time the message was captured
	EnqueuedAt time.Time

	callback Callback
	future   *Future
}

func newMessage(op string, args []any, cb Callback) *Message {
	return &Message{
		Op:         op,
		Args:       args,
		EnqueuedAt: time.Now(),
		callback:   cb,
		future:     newFuture(),
	}
}

// Future returns the message's result slot.
func (m *Message) Future() *Future {
	return m.future
}

// invoke runs the captured operation against the target, resolves the
// future and fires the callback on success. It never raises: target
// errors and panics are captured into the future so the executing
// goroutine survives any failing message.
func (m *Message) invoke(target Target) {
	value, err := dispatch(target, m.Op, m.Args)
	if err != nil {
		m.future.resolve(nil, err)
		return
	}

	m.future.resolve(value, nil)

	if m.callback != nil {
		m.callback(value)
	}
}

// dispatch calls the target's Dispatch, converting panics into errors so
// a misbehaving operation cannot take down the worker goroutine.
func dispatch(target Target, op string, args []any) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("operation %q panicked: %v", op, r)
		}
	}()

	return target.Dispatch(op, args)
}

package core

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// ActiveFacade serializes all invocations against its target on a single
// dedicated worker goroutine fed by an unbounded FIFO queue. Callers
// never block on Invoke; results and errors travel back through each
// message's Future and optional callback.
type ActiveFacade struct {
	id     string
	name   string
	target Target
	queue  *queue
	logger *slog.Logger

	// Registry the worker registers with while its goroutine is live
	registry *Registry

	// Guards the running/stopped/live transitions below. Never held
	// across a target invocation.
	mu      sync.Mutex
	running bool
	stopped bool
	live    bool // worker goroutine exists

	// Closed when the worker goroutine exits
	done chan struct{}

	dropAfterStop bool
	createdAt     time.Time

	// Atomic counters for statistics
	state         int32 // WorkerState
	processed     uint64
	dropped       uint64
	lastMessageAt int64 // Unix nanoseconds
}

// NewActive creates an Active facade around target and installs the
// control handle if the target is control-aware. The worker goroutine is
// launched lazily by the first Invoke, or explicitly via Start.
func NewActive(target Target, opts Options) *ActiveFacade {
	f := &ActiveFacade{
		id:            uuid.NewString(),
		name:          opts.Name,
		target:        target,
		queue:         newQueue(),
		logger:        facadeLogger(opts),
		registry:      facadeRegistry(opts),
		done:          make(chan struct{}),
		dropAfterStop: opts.DropAfterStop,
		createdAt:     time.Now(),
	}

	atomic.StoreInt32(&f.state, int32(StateIdle))

	bindControl(target, f)
	return f
}

// ID returns the unique identifier of this facade.
func (f *ActiveFacade) ID() string {
	return f.id
}

// Kind returns KindActive.
func (f *ActiveFacade) Kind() Kind {
	return KindActive
}

// Invoke captures the operation as a Message and enqueues it for the
// worker goroutine, starting the worker if necessary. It returns
// immediately; the result is delivered later through the returned Future
// and, on success, the callback (both on the worker goroutine).
//
// A message arriving after Stop is not executed. Its future resolves
// with ErrStopped so waiters never hang; whether Invoke itself also
// returns ErrStopped is governed by Options.DropAfterStop.
func (f *ActiveFacade) Invoke(op string, args []any, cb Callback) (*Future, error) {
	f.Start()

	msg := newMessage(op, args, cb)
	if !f.queue.Push(msg) {
		atomic.AddUint64(&f.dropped, 1)
		msg.future.resolve(nil, ErrStopped)

		if !f.dropAfterStop {
			return msg.future, ErrStopped
		}

		f.logger.Warn("message dropped after stop",
			"facade", f.id, "name", f.name, "op", op)
		return msg.future, nil
	}

	return msg.future, nil
}

// Start launches the worker goroutine and registers it for JoinAll.
// Idempotent: Start on a running facade is a no-op, and a stopped facade
// is terminal, so Start after Stop is also a safe no-op.
func (f *ActiveFacade) Start() error {
	f.mu.Lock()
	if f.running || f.live || f.stopped {
		f.mu.Unlock()
		return nil
	}

	f.running = true
	f.live = true
	atomic.StoreInt32(&f.state, int32(StateRunning))

	f.registry.register(f)
	go f.run()
	f.mu.Unlock()

	f.logger.Debug("facade worker started", "facade", f.id, "name", f.name)
	return nil
}

// Stop requests cooperative shutdown: the in-flight message, if any, is
// allowed to finish, pending queued messages are dropped with their
// futures resolved to ErrStopped, and the worker goroutine unwinds.
// Stop never waits for the worker to exit;
// use Done or Registry.JoinAll for that. Idempotent and safe from any
// goroutine, including the worker's own.
func (f *ActiveFacade) Stop() error {
	f.mu.Lock()
	if f.stopped || !f.live || !f.running {
		f.mu.Unlock()
		return nil
	}

	f.stopped = true
	f.running = false
	f.live = false
	atomic.StoreInt32(&f.state, int32(StateStopping))
	f.mu.Unlock()

	// Closing the queue is the stop signal: it wakes a worker blocked on
	// Pop and hands back the messages the worker will never run. Each of
	// those resolves with ErrStopped so waiters do not hang.
	residue := f.queue.Close()
	for _, msg := range residue {
		msg.future.resolve(nil, ErrStopped)
	}
	if n := len(residue); n > 0 {
		atomic.AddUint64(&f.dropped, uint64(n))
		f.logger.Debug("queued messages dropped at stop",
			"facade", f.id, "name", f.name, "count", n)
	}

	f.logger.Debug("facade stop requested", "facade", f.id, "name", f.name)
	return nil
}

// Done returns a channel closed once the worker goroutine has exited.
// For a facade that was never started, the channel never closes; JoinAll
// only tracks started workers.
func (f *ActiveFacade) Done() <-chan struct{} {
	return f.done
}

// Target returns the wrapped target.
func (f *ActiveFacade) Target() Target {
	return f.target
}

// State returns the current worker state.
func (f *ActiveFacade) State() WorkerState {
	return WorkerState(atomic.LoadInt32(&f.state))
}

// Stats returns current runtime statistics for this facade.
func (f *ActiveFacade) Stats() Stats {
	return Stats{
		ID:                f.id,
		Name:              f.name,
		Kind:              KindActive,
		State:             f.State(),
		MessagesProcessed: atomic.LoadUint64(&f.processed),
		MessagesDropped:   atomic.LoadUint64(&f.dropped),
		QueueLen:          f.queue.Len(),
		CreatedAt:         f.createdAt,
		LastMessageAt:     lastMessageTime(atomic.LoadInt64(&f.lastMessageAt)),
	}
}

// run is the worker loop. It processes messages strictly in FIFO order,
// one at a time; a failing message resolves its own future and never
// terminates the loop. The loop exits when the queue is closed.
func (f *ActiveFacade) run() {
	defer func() {
		atomic.StoreInt32(&f.state, int32(StateStopped))
		f.registry.deregister(f)
		close(f.done)
		f.logger.Debug("facade worker exited", "facade", f.id, "name", f.name)
	}()

	for {
		msg, ok := f.queue.Pop()
		if !ok {
			return
		}

		msg.invoke(f.target)

		atomic.AddUint64(&f.processed, 1)
		atomic.StoreInt64(&f.lastMessageAt, time.Now().UnixNano())
	}
}

// facadeRegistry resolves the registry for a facade from its options.
func facadeRegistry(opts Options) *Registry {
	if opts.Registry != nil {
		return opts.Registry
	}
	return DefaultRegistry
}

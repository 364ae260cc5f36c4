package core

import (
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Distributor is a facade over an ordered set of delegate facades. Each
// invocation is routed to the next delegate in strict round-robin order;
// the Nth call after the delegate list reaches size k goes to
// delegates[N mod k]. With no delegates it degrades to passive, direct
// execution against its own template target.
type Distributor struct {
	id     string
	name   string
	logger *slog.Logger

	// Options inherited by delegates created through AddDelegate
	opts Options

	// Factory for deriving fresh delegate targets
	factory TargetFactory

	// Guards the delegate list, cursor and template. Never held across a
	// delegate invocation, so one slow delegate cannot serialize the rest.
	mu        sync.Mutex
	delegates []Facade
	cursor    int
	template  Target

	createdAt time.Time
	done      chan struct{}

	// Atomic counters for the passive fallback path
	fallbackProcessed uint64
	lastMessageAt     int64 // Unix nanoseconds
}

// NewDistributor creates a Distributor. The template target backs the
// empty-list passive fallback and, together with Options.TargetFactory,
// seeds delegate targets for AddDelegate. Either may be nil; at least
// one must be provided before the corresponding path is used.
func NewDistributor(template Target, opts Options) *Distributor {
	d := &Distributor{
		id:        uuid.NewString(),
		name:      opts.Name,
		logger:    facadeLogger(opts),
		opts:      opts,
		factory:   opts.TargetFactory,
		cursor:    -1,
		template:  template,
		createdAt: time.Now(),
		done:      make(chan struct{}),
	}

	// Routing runs on the caller's goroutine; there is no worker to join
	close(d.done)

	if template != nil {
		bindControl(template, d)
	}
	return d
}

// ID returns the unique identifier of this facade.
func (d *Distributor) ID() string {
	return d.id
}

// Kind returns KindDistributor.
func (d *Distributor) Kind() Kind {
	return KindDistributor
}

// Invoke routes the operation to the next delegate in round-robin order.
// Delegate selection happens under the distributor's lock; the delegate
// invocation itself does not, so unrelated delegates never contend.
// With an empty delegate list the operation executes passively against
// the distributor's own template target.
func (d *Distributor) Invoke(op string, args []any, cb Callback) (*Future, error) {
	d.mu.Lock()

	if len(d.delegates) == 0 {
		d.mu.Unlock()
		return d.invokeFallback(op, args, cb)
	}

	d.cursor = (d.cursor + 1) % len(d.delegates)
	delegate := d.delegates[d.cursor]
	d.mu.Unlock()

	// Defensive: unreachable given the empty-list fast path above
	if delegate == nil {
		return nil, ErrNoDelegate
	}

	return delegate.Invoke(op, args, cb)
}

// invokeFallback executes the operation directly, like a Passive facade.
func (d *Distributor) invokeFallback(op string, args []any, cb Callback) (*Future, error) {
	target, err := d.fallbackTarget()
	if err != nil {
		return nil, err
	}

	msg := newMessage(op, args, cb)
	msg.invoke(target)

	atomic.AddUint64(&d.fallbackProcessed, 1)
	atomic.StoreInt64(&d.lastMessageAt, time.Now().UnixNano())

	_, err, _ = msg.future.Result()
	return msg.future, err
}

// fallbackTarget returns the template target, materializing it from the
// factory on first use.
func (d *Distributor) fallbackTarget() (Target, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.template == nil {
		if d.factory == nil {
			return nil, ErrNilTarget
		}
		d.template = d.factory()
		bindControl(d.template, d)
	}

	return d.template, nil
}

// AddDelegate wraps target in a new facade of the given kind and appends
// it to the delegate list. A nil target is derived from the
// distributor's target factory. This is the only way to grow the
// delegate set; delegates are never removed.
func (d *Distributor) AddDelegate(kind Kind, target Target) (Facade, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if target == nil {
		if d.factory == nil {
			return nil, ErrNoFactory
		}
		target = d.factory()
	}

	opts := d.opts
	opts.Name = delegateName(d.name, len(d.delegates))

	var delegate Facade
	switch kind {
	case KindPassive:
		delegate = NewPassive(target, opts)
	case KindActive:
		delegate = NewActive(target, opts)
	default:
		return nil, ErrUnknownKind
	}

	d.delegates = append(d.delegates, delegate)

	d.logger.Debug("delegate added",
		"distributor", d.id, "delegate", delegate.ID(), "kind", kind.String())
	return delegate, nil
}

// Delegates returns a snapshot of the delegate list.
func (d *Distributor) Delegates() []Facade {
	d.mu.Lock()
	defer d.mu.Unlock()

	snapshot := make([]Facade, len(d.delegates))
	copy(snapshot, d.delegates)
	return snapshot
}

// Start starts every delegate. The distributor itself has no worker.
func (d *Distributor) Start() error {
	var lastErr error
	for _, delegate := range d.Delegates() {
		if err := delegate.Start(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// Stop stops every delegate. Idempotent; the distributor keeps routing
// to stopped delegates, whose own after-stop policy then applies.
func (d *Distributor) Stop() error {
	var lastErr error
	for _, delegate := range d.Delegates() {
		if err := delegate.Stop(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// Done returns an already closed channel; routing has no worker. Use the
// delegates' own Done channels or Registry.JoinAll to await their exit.
func (d *Distributor) Done() <-chan struct{} {
	return d.done
}

// Target returns the distributor's template target, which may be nil
// until the passive fallback first materializes it.
func (d *Distributor) Target() Target {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.template
}

// Stats returns statistics for the distributor's own fallback path.
// Per-delegate statistics are available from the delegates themselves.
func (d *Distributor) Stats() Stats {
	d.mu.Lock()
	queued := 0
	for _, delegate := range d.delegates {
		queued += delegate.Stats().QueueLen
	}
	d.mu.Unlock()

	return Stats{
		ID:                d.id,
		Name:              d.name,
		Kind:              KindDistributor,
		State:             StateIdle,
		MessagesProcessed: atomic.LoadUint64(&d.fallbackProcessed),
		QueueLen:          queued,
		CreatedAt:         d.createdAt,
		LastMessageAt:     lastMessageTime(atomic.LoadInt64(&d.lastMessageAt)),
	}
}

// delegateName derives a delegate's name from its distributor and index.
func delegateName(base string, index int) string {
	if base == "" {
		return ""
	}
	return base + "-" + strconv.Itoa(index)
}

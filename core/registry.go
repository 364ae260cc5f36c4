package core

import (
	"context"
	"sync"
)

// Registry is process-scoped bookkeeping of live Active facade workers.
// Workers register when their goroutine starts and deregister when it
// exits; JoinAll is the coordinated-shutdown primitive that waits for
// every registered worker to drain after Stop has been issued.
type Registry struct {
	mu      sync.Mutex
	workers map[string]*ActiveFacade
}

// DefaultRegistry is the registry facades use unless Options.Registry
// is set.
var DefaultRegistry = NewRegistry()

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		workers: make(map[string]*ActiveFacade),
	}
}

func (r *Registry) register(f *ActiveFacade) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.workers[f.id] = f
}

func (r *Registry) deregister(f *ActiveFacade) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.workers, f.id)
}

// Snapshot returns the facades whose workers are currently live.
func (r *Registry) Snapshot() []*ActiveFacade {
	r.mu.Lock()
	defer r.mu.Unlock()

	facades := make([]*ActiveFacade, 0, len(r.workers))
	for _, f := range r.workers {
		facades = append(facades, f)
	}
	return facades
}

// Len returns the number of live workers.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.workers)
}

// Stats returns statistics for every live worker.
func (r *Registry) Stats() []Stats {
	var stats []Stats
	for _, f := range r.Snapshot() {
		stats = append(stats, f.Stats())
	}
	return stats
}

// JoinAll blocks until every currently registered worker goroutine has
// exited. Workers that already exited between snapshot and wait are
// tolerated; their Done channel is closed. JoinAll does not stop
// anything itself, callers issue Stop (or let targets stop their own
// facades) first.
func (r *Registry) JoinAll() {
	for _, f := range r.Snapshot() {
		<-f.Done()
	}
}

// JoinAllContext is JoinAll bounded by a context deadline.
func (r *Registry) JoinAllContext(ctx context.Context) error {
	for _, f := range r.Snapshot() {
		if err := joinContext(ctx, f.Done()); err != nil {
			return err
		}
	}
	return nil
}

// JoinAll waits on the DefaultRegistry.
func JoinAll() {
	DefaultRegistry.JoinAll()
}

// JoinAllContext waits on the DefaultRegistry with a context deadline.
func JoinAllContext(ctx context.Context) error {
	return DefaultRegistry.JoinAllContext(ctx)
}

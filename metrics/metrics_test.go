package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mkwrd/facade/core"
)

type nopTarget struct{}

func (nopTarget) Dispatch(op string, args []any) (any, error) {
	return nil, nil
}

func TestCollectorGather(t *testing.T) {
	registry := core.NewRegistry()

	opts := core.DefaultOptions()
	opts.Name = "metered"
	opts.Registry = registry

	f := core.NewActive(nopTarget{}, opts)
	f.Start()
	defer func() {
		f.Stop()
		registry.JoinAll()
	}()

	promRegistry := prometheus.NewPedanticRegistry()
	if err := promRegistry.Register(NewCollector(registry)); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	families, err := promRegistry.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}

	found := make(map[string]bool)
	for _, family := range families {
		found[family.GetName()] = true
	}

	for _, name := range []string{
		"facade_workers_live",
		"facade_messages_processed_total",
		"facade_messages_dropped_total",
		"facade_queue_depth",
	} {
		if !found[name] {
			t.Errorf("metric family %q missing from gather output", name)
		}
	}
}

func TestCollectorDefaultsRegistry(t *testing.T) {
	if NewCollector(nil).registry != core.DefaultRegistry {
		t.Error("nil registry should select core.DefaultRegistry")
	}
}

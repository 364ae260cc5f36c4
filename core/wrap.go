package core

import (
	"fmt"
	"sync"
)

// Wrap constructs a facade of the given kind around target. For
// KindDistributor the target serves as the template and may be nil if
// Options.TargetFactory is set; the other kinds require a target.
func Wrap(kind Kind, target Target, opts Options) (Facade, error) {
	switch kind {
	case KindPassive:
		if target == nil {
			return nil, ErrNilTarget
		}
		return NewPassive(target, opts), nil

	case KindActive:
		if target == nil {
			return nil, ErrNilTarget
		}
		return NewActive(target, opts), nil

	case KindDistributor:
		if target == nil && opts.TargetFactory == nil {
			return nil, ErrNilTarget
		}
		return NewDistributor(target, opts), nil

	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, kind)
	}
}

// AutoWrap describes how targets of one type should be wrapped by a
// Factory: which facade kind to use and, for distributors, how many
// delegates of which kind to pre-populate from the target factory.
type AutoWrap struct {
	// Kind of facade to construct
	Kind Kind

	// Delegates is the number of delegates a distributor starts with
	Delegates int

	// DelegateKind is the facade kind for pre-populated delegates
	DelegateKind Kind

	// TargetFactory derives delegate targets; required when Delegates > 0
	// and no concrete target is supplied at wrap time
	TargetFactory TargetFactory
}

// Factory is the class-level auto-wrap convenience: it wraps targets
// according to a configured default per target type name, so call sites
// construct domain objects without choosing a facade kind themselves.
type Factory struct {
	mu       sync.RWMutex
	fallback AutoWrap
	types    map[string]AutoWrap
	opts     Options
}

// NewFactory creates a Factory with the given type-independent fallback.
// opts seeds the Options of every facade the factory constructs.
func NewFactory(fallback AutoWrap, opts Options) *Factory {
	return &Factory{
		fallback: fallback,
		types:    make(map[string]AutoWrap),
		opts:     opts,
	}
}

// SetType configures the auto-wrap rule for one target type name.
func (fa *Factory) SetType(typeName string, rule AutoWrap) {
	fa.mu.Lock()
	defer fa.mu.Unlock()
	fa.types[typeName] = rule
}

// Rule returns the auto-wrap rule applied to the given type name and
// whether it is a per-type rule rather than the fallback.
func (fa *Factory) Rule(typeName string) (AutoWrap, bool) {
	fa.mu.RLock()
	defer fa.mu.RUnlock()

	if rule, ok := fa.types[typeName]; ok {
		return rule, true
	}
	return fa.fallback, false
}

// Wrap constructs a facade for target per the rule configured for
// typeName. For distributor rules the configured number of delegates is
// pre-populated; target (or the rule's factory) seeds their instances.
func (fa *Factory) Wrap(typeName string, target Target) (Facade, error) {
	rule, _ := fa.Rule(typeName)

	opts := fa.opts
	if opts.Name == "" {
		opts.Name = typeName
	}
	if rule.TargetFactory != nil {
		opts.TargetFactory = rule.TargetFactory
	}

	facade, err := Wrap(rule.Kind, target, opts)
	if err != nil {
		return nil, fmt.Errorf("auto-wrap of type %q failed: %w", typeName, err)
	}

	if rule.Kind == KindDistributor && rule.Delegates > 0 {
		dist := facade.(*Distributor)
		for i := 0; i < rule.Delegates; i++ {
			if _, err := dist.AddDelegate(rule.DelegateKind, nil); err != nil {
				return nil, fmt.Errorf("auto-wrap of type %q failed: %w", typeName, err)
			}
		}
	}

	return facade, nil
}

// WrapKnown is Wrap restricted to explicitly configured types: a type
// name without a per-type rule fails with ErrTypeNotConfigured instead
// of falling back to the type-independent default.
func (fa *Factory) WrapKnown(typeName string, target Target) (Facade, error) {
	if _, ok := fa.Rule(typeName); !ok {
		return nil, fmt.Errorf("%w: %q", ErrTypeNotConfigured, typeName)
	}
	return fa.Wrap(typeName, target)
}

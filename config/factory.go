// Package config provides the bridge from loaded configuration to facade construction
package config

import (
	"context"
	"fmt"

	"github.com/mkwrd/facade/core"
)

// NewFactory builds a core.Factory from a loaded configuration: the
// facade block supplies the fallback rule and the drop-after-stop
// policy, and each types entry becomes a per-type auto-wrap rule.
// opts seeds the options of every facade the factory constructs; its
// DropAfterStop is overridden from the configuration, and its
// TargetFactory serves distributor rules that pre-populate delegates.
func NewFactory(cfg *Config, opts core.Options) (*core.Factory, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigValidateError, err)
	}

	fallback, err := autoWrapRule(WrapConfig{Kind: cfg.Facade.DefaultKind})
	if err != nil {
		return nil, err
	}

	opts.DropAfterStop = cfg.Facade.DropAfterStop
	factory := core.NewFactory(fallback, opts)

	for name, wrap := range cfg.Types {
		rule, err := autoWrapRule(wrap)
		if err != nil {
			return nil, fmt.Errorf("type %q: %w", name, err)
		}
		factory.SetType(name, rule)
	}

	return factory, nil
}

// Join waits for every worker in reg to drain, bounded by the
// configured join timeout when one is set. A nil reg selects
// core.DefaultRegistry.
func (c *Config) Join(reg *core.Registry) error {
	if reg == nil {
		reg = core.DefaultRegistry
	}

	if c.Facade.JoinTimeout <= 0 {
		reg.JoinAll()
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.Facade.JoinTimeout)
	defer cancel()
	return reg.JoinAllContext(ctx)
}

// autoWrapRule converts one configuration block into a core auto-wrap rule
func autoWrapRule(wrap WrapConfig) (core.AutoWrap, error) {
	kind, err := core.ParseKind(wrap.Kind)
	if err != nil {
		return core.AutoWrap{}, fmt.Errorf("%w: %q", ErrInvalidKind, wrap.Kind)
	}

	rule := core.AutoWrap{Kind: kind, Delegates: wrap.Delegates}
	if wrap.DelegateKind != "" {
		delegateKind, err := core.ParseKind(wrap.DelegateKind)
		if err != nil {
			return core.AutoWrap{}, fmt.Errorf("%w: %q", ErrInvalidDelegateKind, wrap.DelegateKind)
		}
		rule.DelegateKind = delegateKind
	}

	return rule, nil
}

package container

import (
	"errors"
	"fmt"

	"github.com/km-arc/go-mvc/framework/component"
)

// ── Provider interface ────────────────────────────────────────────────────────

// Provider contributes components to the catalog and gets a chance to act
// once the registry has been wired.
//
//	type AppProvider struct{ container.BaseProvider }
//
//	func (AppProvider) Register(c *component.Catalog) {
//	    c.Service(impl.NewDemoService, component.Implements((*service.DemoService)(nil)))
//	}
//
//	func (AppProvider) Boot(app *container.Container) error {
//	    svc, err := container.Resolve[service.DemoService](app, "demoService")
//	    ...
//	}
type Provider interface {
	// Register adds registrations to the catalog.
	// Nothing is built yet, so do not resolve here; use Boot for that.
	component.Module

	// Boot is called after the registry has been wired.
	// Every component is resolvable here.
	Boot(app *Container) error
}

// Binder is implemented by providers that put pre-built values, such as the
// configuration, into the registry. Bind runs after scanning and before
// wiring.
type Binder interface {
	Bind(app *Container) error
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider is an embeddable struct with a no-op Boot.
//
//	type MyProvider struct{ container.BaseProvider }
//	func (MyProvider) Register(c *component.Catalog) { ... }
type BaseProvider struct{}

func (BaseProvider) Boot(*Container) error { return nil }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry runs the provider phases in order: Register on every
// provider before anything is built, Bind before wiring, Boot after wiring.
type ProviderRegistry struct {
	providers  []Provider
	registered map[Provider]bool
	booted     bool
}

// NewProviderRegistry creates an empty registry.
func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{registered: make(map[Provider]bool)}
}

// Register adds a provider and calls its Register method. Adding the same
// provider twice is a no-op.
func (r *ProviderRegistry) Register(p Provider, catalog *component.Catalog) {
	if r.registered[p] {
		return
	}
	r.registered[p] = true
	r.providers = append(r.providers, p)
	p.Register(catalog)
}

// Bind calls Bind on every provider that implements Binder, in registration
// order.
func (r *ProviderRegistry) Bind(app *Container) error {
	var errs []error
	for _, p := range r.providers {
		if b, ok := p.(Binder); ok {
			if err := b.Bind(app); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// Boot calls Boot on every provider in registration order. All providers are
// booted even if one fails; the failures are joined.
func (r *ProviderRegistry) Boot(app *Container) error {
	if r.booted {
		return nil
	}
	r.booted = true

	var errs []error
	for _, p := range r.providers {
		if err := p.Boot(app); err != nil {
			errs = append(errs, fmt.Errorf("%w: %T: %w", ErrProviderBootFailed, p, err))
		}
	}
	return errors.Join(errs...)
}

// Booted returns true if Boot has been called.
func (r *ProviderRegistry) Booted() bool { return r.booted }

// Providers returns every registered provider in order.
func (r *ProviderRegistry) Providers() []Provider { return r.providers }

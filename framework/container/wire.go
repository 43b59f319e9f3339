package container

import (
	"reflect"

	"go.uber.org/dig"

	"github.com/km-arc/go-mvc/framework/component"
)

// Wire builds every live component in dependency order and publishes the
// registry. Dependencies are satisfied through dig: a constructor parameter
// is matched by type, and a field of a component.In struct tagged
// `name:"key"` is matched by registry key.
//
// Every failure is collected into one *StartupError. On failure nothing is
// published and the registry stays empty.
func (c *Container) Wire() error {
	if c.sealed {
		return ErrSealed
	}

	dc := dig.New(dig.RecoverFromPanics())

	var errs []error
	for _, p := range c.plans {
		// a component that lost every key is not part of the registry
		if !p.live() {
			continue
		}
		if err := c.provide(dc, p); err != nil {
			errs = append(errs, &BuildError{Component: p.name(), Err: err})
		}
	}
	if len(errs) > 0 {
		return &StartupError{Errs: errs}
	}

	for _, p := range c.plans {
		if !p.live() {
			continue
		}
		if err := dc.Invoke(capture(p)); err != nil {
			errs = append(errs, &BuildError{Component: p.name(), Err: err})
		}
	}
	if len(errs) > 0 {
		for _, p := range c.plans {
			p.value = reflect.Value{}
		}
		return &StartupError{Errs: errs}
	}

	for _, p := range c.plans {
		for _, key := range p.keys {
			c.entries.Store(key, p.value.Interface())
		}
	}
	c.sealed = true

	c.logger.Debug("registry wired", "components", len(c.Components()), "keys", c.entries.Size())
	return nil
}

// provide adds the component's constructor and one alias per registry key
// it owns. A name key is offered as the concrete type and every capability
// under dig.Name(key); a capability key is offered as the bare interface.
func (c *Container) provide(dc *dig.Container, p *plan) error {
	def := p.def
	ctor := def.Constructor
	if ctor == nil {
		ctor = instanceFunc(def.Type, def.Instance)
	}
	if err := dc.Provide(ctor); err != nil {
		return err
	}

	capabilities := make(map[string]reflect.Type, len(def.Capabilities))
	for _, iface := range def.Capabilities {
		capabilities[component.QualifiedName(iface)] = iface
	}

	for _, key := range p.keys {
		if iface, ok := capabilities[key]; ok {
			if err := dc.Provide(aliasFunc(def.Type, iface)); err != nil {
				return err
			}
			continue
		}
		if err := dc.Provide(aliasFunc(def.Type, def.Type), dig.Name(key)); err != nil {
			return err
		}
		for _, iface := range def.Capabilities {
			if err := dc.Provide(aliasFunc(def.Type, iface), dig.Name(key)); err != nil {
				return err
			}
		}
	}
	return nil
}

// instanceFunc returns func() T yielding v.
func instanceFunc(t reflect.Type, v any) any {
	fn := reflect.FuncOf(nil, []reflect.Type{t}, false)
	value := reflect.ValueOf(v)
	return reflect.MakeFunc(fn, func([]reflect.Value) []reflect.Value {
		return []reflect.Value{value}
	}).Interface()
}

// aliasFunc returns func(from) to, converting the argument.
func aliasFunc(from, to reflect.Type) any {
	fn := reflect.FuncOf([]reflect.Type{from}, []reflect.Type{to}, false)
	return reflect.MakeFunc(fn, func(args []reflect.Value) []reflect.Value {
		out := reflect.New(to).Elem()
		out.Set(args[0])
		return []reflect.Value{out}
	}).Interface()
}

// capture returns func(T) that stores the built instance on p.
func capture(p *plan) any {
	fn := reflect.FuncOf([]reflect.Type{p.def.Type}, nil, false)
	return reflect.MakeFunc(fn, func(args []reflect.Value) []reflect.Value {
		p.value = args[0]
		return nil
	}).Interface()
}

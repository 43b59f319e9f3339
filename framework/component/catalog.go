package component

import (
	"errors"
	"fmt"
	"reflect"
	"sort"

	"go.uber.org/dig"
)

// In marks a parameter struct whose fields are injection targets. A field
// tagged `name:"demoService"` is looked up by registry name; an untagged
// field by its declared type.
//
//	type ControllerParams struct {
//	    component.In
//	    Service service.DemoService `name:"demoService"`
//	}
type In = dig.In

// Module groups the registrations of one application package.
//
//	type Module struct{}
//
//	func (Module) Register(c *component.Catalog) {
//	    c.Service(impl.NewDemoService, component.Implements((*service.DemoService)(nil)))
//	    c.Handler(controller.New, component.RequestMapping("/web"), ...)
//	}
type Module interface {
	Register(c *Catalog)
}

// Catalog is the registration table of every component compiled into the
// binary, keyed by qualified type name. It is filled during startup from a
// single goroutine and only read afterwards.
type Catalog struct {
	defs map[string]*Definition
	errs []error
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{defs: make(map[string]*Definition)}
}

// Install calls Register on every module.
func (c *Catalog) Install(modules ...Module) {
	for _, m := range modules {
		m.Register(c)
	}
}

// Handler registers a request handler. component is either a constructor
// func or a pre-built value.
func (c *Catalog) Handler(component any, opts ...Option) {
	c.add(RoleHandler, component, opts)
}

// Service registers a service that handlers and other services may depend on.
func (c *Catalog) Service(component any, opts ...Option) {
	c.add(RoleService, component, opts)
}

func (c *Catalog) add(role Role, component any, opts []Option) {
	def, err := newDefinition(role, component)
	if err == nil {
		for _, opt := range opts {
			if err = opt.apply(def); err != nil {
				break
			}
		}
	}
	if err == nil {
		if _, exists := c.defs[def.QualifiedName]; exists {
			err = ErrDuplicateComponent
		}
	}
	if err != nil {
		name := ""
		if def != nil {
			name = def.QualifiedName
		}
		c.errs = append(c.errs, &DefinitionError{Component: name, Err: err})
		return
	}
	c.defs[def.QualifiedName] = def
}

// Lookup returns the definition registered under a qualified name.
func (c *Catalog) Lookup(qualifiedName string) (*Definition, bool) {
	def, ok := c.defs[qualifiedName]
	return def, ok
}

// Names returns every qualified name, sorted.
func (c *Catalog) Names() []string {
	out := make([]string, 0, len(c.defs))
	for name := range c.defs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of accepted definitions.
func (c *Catalog) Len() int { return len(c.defs) }

// Err reports every rejected registration, or nil.
func (c *Catalog) Err() error {
	return errors.Join(c.errs...)
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

func newDefinition(role Role, component any) (*Definition, error) {
	if component == nil {
		return nil, ErrNilComponent
	}

	def := &Definition{Descriptor: Descriptor{Role: role}}
	v := reflect.ValueOf(component)

	if v.Kind() == reflect.Func {
		if v.IsNil() {
			return nil, ErrNilComponent
		}
		t := v.Type()
		switch {
		case t.NumOut() == 0 || t.NumOut() > 2:
			return nil, fmt.Errorf("%w: %s must return the component and an optional error", ErrBadConstructor, t)
		case t.NumOut() == 2 && t.Out(1) != errorType:
			return nil, fmt.Errorf("%w: second result of %s must be error", ErrBadConstructor, t)
		case t.Out(0).Kind() == reflect.Interface:
			return nil, fmt.Errorf("%w: %s must return a concrete type", ErrBadConstructor, t)
		case dig.IsOut(t.Out(0)):
			return nil, fmt.Errorf("%w: result objects are not supported", ErrBadConstructor)
		}
		def.Type = t.Out(0)
		def.Constructor = component
	} else {
		if (v.Kind() == reflect.Pointer || v.Kind() == reflect.Map) && v.IsNil() {
			return nil, ErrNilComponent
		}
		def.Type = v.Type()
		def.Instance = component
	}

	def.QualifiedName = QualifiedName(def.Type)
	if def.QualifiedName == "" {
		return nil, fmt.Errorf("%w: %s", ErrUnnamedType, def.Type)
	}
	return def, nil
}

package container

import (
	"fmt"
	"log/slog"
	"reflect"
	"sort"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/km-arc/go-mvc/framework/component"
	"github.com/km-arc/go-mvc/framework/logging"
)

// plan is one registered component waiting to be built.
type plan struct {
	def   *component.Definition
	keys  []string // registry keys this component still owns
	value reflect.Value
}

func (p *plan) name() string {
	if p.def.QualifiedName != "" {
		return p.def.QualifiedName
	}
	return p.def.Type.String()
}

// live reports whether any registry key still points at the component.
func (p *plan) live() bool { return len(p.keys) > 0 }

func (p *plan) drop(key string) {
	for i, k := range p.keys {
		if k == key {
			p.keys = append(p.keys[:i], p.keys[i+1:]...)
			return
		}
	}
}

// Entry is one published registry key.
type Entry struct {
	Name     string
	Instance any
}

// Component is a live registered component with its built instance.
type Component struct {
	Definition *component.Definition
	Instance   any
	Names      []string
}

// Container is the component registry: one instance per registered type,
// reachable under its name keys and capability keys.
//
// Registration and wiring happen on a single goroutine during startup. Once
// Wire succeeds the registry is sealed and lookups are safe from any
// goroutine.
type Container struct {
	catalog *component.Catalog
	logger  *slog.Logger

	// key → owning plan, build time only
	owners map[string]*plan

	// registration order, which is discovery order
	plans  []*plan
	byName map[string]*plan

	// published after a successful Wire
	entries *xsync.MapOf[string, any]
	sealed  bool
}

// New creates an empty registry that takes constructors from catalog.
func New(catalog *component.Catalog, logger *slog.Logger) *Container {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Container{
		catalog: catalog,
		logger:  logger,
		owners:  make(map[string]*plan),
		byName:  make(map[string]*plan),
		entries: xsync.NewMapOf[string, any](),
	}
}

// ── Registration ──────────────────────────────────────────────────────────────

// Register records a discovered component. A handler is keyed by its
// default name. A service is keyed by its explicit name (or the default
// name) and also by the qualified name of every capability it declares.
//
// A key that is already taken is reassigned to the newer component and a
// warning is logged.
func (c *Container) Register(d component.Descriptor) error {
	if c.sealed {
		return &RegistrationError{Component: d.QualifiedName, Err: ErrSealed}
	}
	def, ok := c.catalog.Lookup(d.QualifiedName)
	if !ok {
		return &RegistrationError{Component: d.QualifiedName, Err: ErrNoConstructor}
	}
	if _, dup := c.byName[d.QualifiedName]; dup {
		return &RegistrationError{Component: d.QualifiedName, Err: ErrAlreadyRegistered}
	}

	p := &plan{def: def}
	c.plans = append(c.plans, p)
	c.byName[d.QualifiedName] = p
	for _, key := range keysFor(d, def) {
		c.claim(key, p)
	}
	return nil
}

// Instance registers a pre-built value under name. The value is also
// injectable by its type.
//
//	c.Instance("config", cfg)
func (c *Container) Instance(name string, v any) error {
	if c.sealed {
		return &RegistrationError{Component: name, Err: ErrSealed}
	}
	if name == "" {
		return &RegistrationError{Component: fmt.Sprintf("%T", v), Err: ErrEmptyName}
	}
	if v == nil {
		return &RegistrationError{Component: name, Err: ErrNilInstance}
	}

	t := reflect.TypeOf(v)
	p := &plan{def: &component.Definition{
		Descriptor: component.Descriptor{
			QualifiedName: component.QualifiedName(t),
			Role:          component.RoleService,
			ExplicitName:  name,
		},
		Type:     t,
		Instance: v,
	}}
	c.plans = append(c.plans, p)
	c.claim(name, p)
	return nil
}

func (c *Container) claim(key string, p *plan) {
	prev, taken := c.owners[key]
	if taken && prev == p {
		return
	}
	if taken {
		c.logger.Warn("registry key overwritten",
			"key", key,
			"previous", prev.name(),
			"component", p.name())
		prev.drop(key)
	}
	c.owners[key] = p
	p.keys = append(p.keys, key)
}

func keysFor(d component.Descriptor, def *component.Definition) []string {
	simple := component.DefaultName(d.SimpleName())
	if d.Role == component.RoleHandler {
		return []string{simple}
	}
	name := d.ExplicitName
	if name == "" {
		name = simple
	}
	keys := []string{name}
	for _, iface := range def.Capabilities {
		keys = append(keys, component.QualifiedName(iface))
	}
	return keys
}

// ── Lookup ────────────────────────────────────────────────────────────────────

// Lookup returns the instance registered under key. It finds nothing before
// Wire has succeeded.
func (c *Container) Lookup(key string) (any, bool) {
	return c.entries.Load(key)
}

// Wired reports whether the registry has been built and published.
func (c *Container) Wired() bool { return c.sealed }

// Names returns every published key, sorted.
func (c *Container) Names() []string {
	out := make([]string, 0, c.entries.Size())
	c.entries.Range(func(key string, _ any) bool {
		out = append(out, key)
		return true
	})
	sort.Strings(out)
	return out
}

// Entries returns every published key with its instance, sorted by key.
func (c *Container) Entries() []Entry {
	names := c.Names()
	out := make([]Entry, 0, len(names))
	for _, name := range names {
		v, _ := c.entries.Load(name)
		out = append(out, Entry{Name: name, Instance: v})
	}
	return out
}

// Components returns the live components in discovery order. Instances are
// nil until Wire has succeeded.
func (c *Container) Components() []Component {
	out := make([]Component, 0, len(c.plans))
	for _, p := range c.plans {
		if !p.live() {
			continue
		}
		comp := Component{Definition: p.def, Names: append([]string(nil), p.keys...)}
		if c.sealed && p.value.IsValid() {
			comp.Instance = p.value.Interface()
		}
		out = append(out, comp)
	}
	return out
}

// ── Generics helper ───────────────────────────────────────────────────────────

// Resolve looks up key and type-asserts the instance.
//
//	svc, err := container.Resolve[service.DemoService](c, "demoService")
func Resolve[T any](c *Container, key string) (T, error) {
	var zero T
	instance, ok := c.Lookup(key)
	if !ok {
		return zero, &ResolveError{Key: key, Err: ErrNotFound}
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, &ResolveError{
			Key:  key,
			Want: reflect.TypeOf((*T)(nil)).Elem().String(),
			Got:  fmt.Sprintf("%T", instance),
			Err:  ErrTypeMismatch,
		}
	}
	return typed, nil
}

// MustResolve is like Resolve but panics on failure.
func MustResolve[T any](c *Container, key string) T {
	v, err := Resolve[T](c, key)
	if err != nil {
		panic(err)
	}
	return v
}

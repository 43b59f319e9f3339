// Package scanner enumerates the components compiled into the binary that
// live under a package root, the way a class-path scanner walks a package
// directory tree.
package scanner

import (
	"errors"
	"fmt"
	"iter"
	"sort"
	"strings"

	"github.com/km-arc/go-mvc/framework/component"
)

// ErrRootNotFound is wrapped by ScanError when nothing is registered at or
// below the requested root.
var ErrRootNotFound = errors.New("package root not found")

// ScanError reports a root that does not resolve to a namespace.
type ScanError struct {
	Root string
	Err  error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scan %q: %v", e.Root, e.Err)
}

func (e *ScanError) Unwrap() error { return e.Err }

// namespace is one package path segment.
type namespace struct {
	types    []string // qualified names declared directly in this package
	children map[string]*namespace
}

func newNamespace() *namespace {
	return &namespace{children: make(map[string]*namespace)}
}

// Scanner walks the package tree of a catalog.
type Scanner struct {
	catalog *component.Catalog
	root    *namespace
}

// New indexes the catalog's qualified names into a package tree.
func New(catalog *component.Catalog) *Scanner {
	s := &Scanner{catalog: catalog, root: newNamespace()}
	for _, name := range catalog.Names() {
		ns := s.root
		if pkg := component.PackageOf(name); pkg != "" {
			for _, seg := range strings.Split(pkg, "/") {
				child, ok := ns.children[seg]
				if !ok {
					child = newNamespace()
					ns.children[seg] = child
				}
				ns = child
			}
		}
		ns.types = append(ns.types, name)
	}
	return s
}

// Scan returns the descriptors of every component under root, a
// slash-separated package path. The sequence is evaluated lazily on each
// range and can be ranged over any number of times. Within a package, types
// come first, then sub-packages, both sorted by name.
func (s *Scanner) Scan(root string) (iter.Seq[component.Descriptor], error) {
	names, err := s.Names(root)
	if err != nil {
		return nil, err
	}
	return func(yield func(component.Descriptor) bool) {
		for name := range names {
			def, ok := s.catalog.Lookup(name)
			if !ok {
				continue
			}
			if !yield(def.Descriptor) {
				return
			}
		}
	}, nil
}

// Names is like Scan but yields only qualified type names.
func (s *Scanner) Names(root string) (iter.Seq[string], error) {
	ns, err := s.find(root)
	if err != nil {
		return nil, err
	}
	return func(yield func(string) bool) {
		walk(ns, yield)
	}, nil
}

func (s *Scanner) find(root string) (*namespace, error) {
	root = strings.Trim(strings.TrimSpace(root), "/")
	ns := s.root
	if root == "" {
		return ns, nil
	}
	for _, seg := range strings.Split(root, "/") {
		child, ok := ns.children[seg]
		if !ok {
			return nil, &ScanError{Root: root, Err: ErrRootNotFound}
		}
		ns = child
	}
	return ns, nil
}

// walk reports false once yield asked to stop.
func walk(ns *namespace, yield func(string) bool) bool {
	for _, name := range ns.types {
		if !yield(name) {
			return false
		}
	}
	keys := make([]string, 0, len(ns.children))
	for k := range ns.children {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !walk(ns.children[k], yield) {
			return false
		}
	}
	return true
}

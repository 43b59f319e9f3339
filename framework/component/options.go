package component

import (
	"fmt"
	"reflect"
	"runtime"
	"slices"
	"strings"
)

// Option refines a registration.
type Option interface {
	apply(*Definition) error
}

type optionFunc func(*Definition) error

func (f optionFunc) apply(d *Definition) error { return f(d) }

// Named registers a service under an explicit name instead of the derived one.
func Named(name string) Option {
	return optionFunc(func(d *Definition) error {
		if d.Role != RoleService {
			return fmt.Errorf("%w: Named applies to services", ErrWrongRole)
		}
		d.ExplicitName = strings.TrimSpace(name)
		return nil
	})
}

// Implements declares the capability interfaces a service is also keyed by.
// Pass nil interface pointers:
//
//	component.Implements((*service.DemoService)(nil))
func Implements(ifaces ...any) Option {
	return optionFunc(func(d *Definition) error {
		if d.Role != RoleService {
			return fmt.Errorf("%w: Implements applies to services", ErrWrongRole)
		}
		for _, p := range ifaces {
			t := reflect.TypeOf(p)
			if t == nil || t.Kind() != reflect.Pointer || t.Elem().Kind() != reflect.Interface {
				return fmt.Errorf("%w: %v is not a pointer to an interface", ErrNotCapability, t)
			}
			iface := t.Elem()
			if !d.Type.Implements(iface) {
				return fmt.Errorf("%w: %s does not implement %s", ErrNotCapability, d.Type, iface)
			}
			if !slices.Contains(d.Capabilities, iface) {
				d.Capabilities = append(d.Capabilities, iface)
			}
		}
		return nil
	})
}

// RequestMapping sets the URL prefix shared by every route of a handler.
func RequestMapping(prefix string) Option {
	return optionFunc(func(d *Definition) error {
		if d.Role != RoleHandler {
			return fmt.Errorf("%w: RequestMapping applies to handlers", ErrWrongRole)
		}
		d.Prefix = prefix
		return nil
	})
}

// Route marks a handler method as serving pattern. method is a method
// expression on the handler type; pattern is used as a regular expression
// as-is, so literal metacharacters must be escaped by the caller.
//
//	component.Route("/test", (*DemoController).Test, component.RequestParam(2, "param"))
func Route(pattern string, method any, params ...ParamMarker) Option {
	return optionFunc(func(d *Definition) error {
		if d.Role != RoleHandler {
			return fmt.Errorf("%w: Route applies to handlers", ErrWrongRole)
		}
		mr, err := newMethodRoute(d.Type, pattern, method, params)
		if err != nil {
			return err
		}
		d.Routes = append(d.Routes, mr)
		return nil
	})
}

// RequestParam binds the request parameter key to method parameter index
// (receiver excluded). rules use the validation package syntax.
func RequestParam(index int, key string, rules ...string) ParamMarker {
	return ParamMarker{Index: index, Key: key, Rules: strings.Join(rules, "|")}
}

func newMethodRoute(recv reflect.Type, pattern string, method any, params []ParamMarker) (MethodRoute, error) {
	v := reflect.ValueOf(method)
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return MethodRoute{}, fmt.Errorf("%w: %q: method must be a func", ErrBadRoute, pattern)
	}
	t := v.Type()
	if t.NumIn() == 0 || !recv.AssignableTo(t.In(0)) {
		return MethodRoute{}, fmt.Errorf("%w: %q: %s is not a method expression on %s", ErrBadRoute, pattern, t, recv)
	}
	if t.IsVariadic() {
		return MethodRoute{}, fmt.Errorf("%w: %q: variadic methods are not supported", ErrBadRoute, pattern)
	}
	if t.NumOut() > 1 || (t.NumOut() == 1 && t.Out(0) != errorType) {
		return MethodRoute{}, fmt.Errorf("%w: %q: method may only return an error", ErrBadRoute, pattern)
	}

	mr := MethodRoute{Pattern: pattern, Method: v, Name: funcName(v)}
	seen := make(map[int]bool, len(params))
	for _, p := range params {
		switch {
		case p.Index < 0 || p.Index >= mr.Arity():
			return MethodRoute{}, fmt.Errorf("%w: %q: parameter index %d out of range", ErrBadRoute, pattern, p.Index)
		case strings.TrimSpace(p.Key) == "":
			return MethodRoute{}, fmt.Errorf("%w: %q: parameter %d has an empty key", ErrBadRoute, pattern, p.Index)
		case seen[p.Index]:
			return MethodRoute{}, fmt.Errorf("%w: %q: parameter %d marked twice", ErrBadRoute, pattern, p.Index)
		}
		seen[p.Index] = true
		mr.Params = append(mr.Params, p)
	}
	return mr, nil
}

// funcName turns "github.com/acme/web.(*DemoController).Test" into
// "DemoController.Test".
func funcName(v reflect.Value) string {
	fn := runtime.FuncForPC(v.Pointer())
	if fn == nil {
		return v.Type().String()
	}
	name := fn.Name()
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return strings.NewReplacer("(*", "", "(", "", ")", "").Replace(name)
}

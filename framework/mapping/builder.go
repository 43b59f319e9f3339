package mapping

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"regexp"

	"github.com/km-arc/go-mvc/framework/component"
	"github.com/km-arc/go-mvc/framework/container"
	mvchttp "github.com/km-arc/go-mvc/framework/http"
	"github.com/km-arc/go-mvc/framework/http/validation"
	"github.com/km-arc/go-mvc/framework/logging"
)

// ErrNotWired is returned when Build runs before the registry is wired.
var ErrNotWired = errors.New("registry has not been wired")

var (
	ErrBadPattern   = errors.New("invalid route pattern")
	ErrBadParam     = errors.New("unsupported parameter type")
	ErrDuplicateKey = errors.New("request parameter key bound twice")
	ErrBadRules     = errors.New("invalid validation rules")
)

// RouteError reports a route that could not be compiled or planned.
type RouteError struct {
	Handler string
	Method  string
	Pattern string
	Err     error
}

func (e *RouteError) Error() string {
	return fmt.Sprintf("route %q (%s): %v", e.Pattern, e.Method, e.Err)
}

func (e *RouteError) Unwrap() error { return e.Err }

var (
	rawRequestType  = reflect.TypeOf((*http.Request)(nil))
	requestType     = reflect.TypeOf((*mvchttp.Request)(nil))
	rawResponseType = reflect.TypeOf((*http.ResponseWriter)(nil)).Elem()
	responseType    = reflect.TypeOf((*mvchttp.Response)(nil))
)

// Build compiles the routes of every live handler in c, in discovery order
// and, within a handler, in registration order. All route errors are
// returned together in a *container.StartupError.
func Build(c *container.Container, logger *slog.Logger) (*Table, error) {
	if !c.Wired() {
		return nil, ErrNotWired
	}
	if logger == nil {
		logger = logging.Discard()
	}

	t := &Table{}
	var errs []error
	for _, comp := range c.Components() {
		def := comp.Definition
		if def.Role != component.RoleHandler {
			continue
		}
		handler := comp.Names[0]
		target := reflect.ValueOf(comp.Instance)

		for _, mr := range def.Routes {
			r, err := buildRoute(def.Prefix, mr, logger)
			if err != nil {
				errs = append(errs, &RouteError{Handler: handler, Method: mr.Name, Pattern: def.Prefix + mr.Pattern, Err: err})
				continue
			}
			r.Handler = handler
			r.Target = target
			t.routes = append(t.routes, r)

			logger.Info("mapped route", "pattern", r.Source, "handler", r.Name)
		}
	}
	if len(errs) > 0 {
		return nil, &container.StartupError{Errs: errs}
	}
	return t, nil
}

func buildRoute(prefix string, mr component.MethodRoute, logger *slog.Logger) (*Route, error) {
	source := CollapseSlashes(prefix + mr.Pattern)
	re, err := regexp.Compile(`^(?:` + source + `)$`)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadPattern, err)
	}

	plan, err := buildPlan(mr, logger)
	if err != nil {
		return nil, err
	}
	return &Route{
		Pattern: re,
		Source:  source,
		Method:  mr.Method,
		Name:    mr.Name,
		Plan:    plan,
	}, nil
}

func buildPlan(mr component.MethodRoute, logger *slog.Logger) (Plan, error) {
	n := mr.Arity()
	plan := Plan{Params: make([]Binding, n), Query: make(map[string]int)}

	for i := 0; i < n; i++ {
		t := mr.ParamType(i)
		plan.Params[i] = Binding{Type: t}
		switch t {
		case rawRequestType, requestType:
			plan.Params[i].Kind = KindRequest
			plan.Handles = append(plan.Handles, i)
		case rawResponseType, responseType:
			plan.Params[i].Kind = KindResponse
			plan.Handles = append(plan.Handles, i)
		}
	}

	for _, m := range mr.Params {
		b := &plan.Params[m.Index]
		if b.Kind != KindNone {
			logger.Warn("request parameter marker on a handle is ignored",
				"handler", mr.Name, "index", m.Index, "key", m.Key)
			continue
		}
		if !Bindable(b.Type) {
			return Plan{}, fmt.Errorf("%w: parameter %d (%q) is %s, want a string or integer kind", ErrBadParam, m.Index, m.Key, b.Type)
		}
		if _, dup := plan.Query[m.Key]; dup {
			return Plan{}, fmt.Errorf("%w: %q", ErrDuplicateKey, m.Key)
		}
		if _, err := validation.ParseRules(m.Rules); err != nil {
			return Plan{}, fmt.Errorf("%w: %w", ErrBadRules, err)
		}
		b.Kind = KindQuery
		b.Key = m.Key
		b.Rules = m.Rules
		plan.Query[m.Key] = m.Index
	}
	return plan, nil
}

// Bindable reports whether a request parameter can be converted to t.
func Bindable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

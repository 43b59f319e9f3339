// Package mapping builds the route table: one compiled pattern and one
// parameter plan per handler route, in discovery order.
package mapping

import (
	"reflect"
	"regexp"

	"github.com/km-arc/go-mvc/framework/http/validation"
)

// Kind says where a method parameter gets its value from.
type Kind int

const (
	KindNone     Kind = iota // zero value of the declared type
	KindQuery                // named request parameter
	KindRequest              // the request handle
	KindResponse             // the response handle
)

func (k Kind) String() string {
	switch k {
	case KindQuery:
		return "query"
	case KindRequest:
		return "request"
	case KindResponse:
		return "response"
	default:
		return "none"
	}
}

// Binding is the plan for one method parameter.
type Binding struct {
	Kind  Kind
	Key   string       // KindQuery only
	Type  reflect.Type // declared parameter type
	Rules string       // validation rules, KindQuery only
}

// Plan covers every parameter of a handler method, receiver excluded.
type Plan struct {
	Params []Binding
	// Query maps a request parameter key to its position.
	Query map[string]int
	// Handles lists the request and response positions.
	Handles []int
}

// Rules returns the validation rules of every bound key that has some.
func (p Plan) Rules() validation.Rules {
	var rules validation.Rules
	for key, i := range p.Query {
		if r := p.Params[i].Rules; r != "" {
			if rules == nil {
				rules = make(validation.Rules)
			}
			rules[key] = r
		}
	}
	return rules
}

// Route is one row of the table. Routes are never modified after Build.
type Route struct {
	Pattern *regexp.Regexp
	// Source is the collapsed pattern before anchoring, e.g. "/web/test".
	Source string
	// Handler is the registry key of the owning component.
	Handler string
	// Target is the handler instance passed as the receiver.
	Target reflect.Value
	// Method is the method expression.
	Method reflect.Value
	Name   string
	Plan   Plan
}

// Table is the ordered, immutable route table. It is safe for concurrent
// reads.
type Table struct {
	routes []*Route
}

// Match returns the first route whose pattern matches the whole path.
func (t *Table) Match(path string) (*Route, bool) {
	for _, r := range t.routes {
		if r.Pattern.MatchString(path) {
			return r, true
		}
	}
	return nil, false
}

// Routes returns a copy of the table rows in match order.
func (t *Table) Routes() []Route {
	out := make([]Route, len(t.routes))
	for i, r := range t.routes {
		out[i] = *r
	}
	return out
}

// Len returns the number of routes.
func (t *Table) Len() int { return len(t.routes) }

var slashes = regexp.MustCompile(`/{2,}`)

// CollapseSlashes replaces every run of '/' with a single one.
func CollapseSlashes(path string) string {
	return slashes.ReplaceAllString(path, "/")
}

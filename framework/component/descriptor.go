package component

import "reflect"

// Role tells the registry how to key a component and whether the route
// table builder looks at it.
type Role int

const (
	RoleService Role = iota
	RoleHandler
)

func (r Role) String() string {
	switch r {
	case RoleHandler:
		return "handler"
	case RoleService:
		return "service"
	default:
		return "unknown"
	}
}

// Descriptor is what the scanner hands to the registry for each eligible type.
type Descriptor struct {
	QualifiedName string
	Role          Role
	ExplicitName  string // services only; "" means derive from the type name
}

// SimpleName returns the type name without its package path.
func (d Descriptor) SimpleName() string {
	return SimpleName(d.QualifiedName)
}

// Definition is one row of the registration table: everything the runtime
// needs to build a component and, for handlers, to route to it.
type Definition struct {
	Descriptor

	// Type is the concrete type the constructor yields (or of Instance).
	Type reflect.Type
	// Constructor is a func whose parameters are its dependencies and whose
	// first result is Type, optionally followed by an error.
	Constructor any
	// Instance is a pre-built value registered instead of a constructor.
	Instance any
	// Capabilities are the interface types the component is also keyed by.
	Capabilities []reflect.Type

	Prefix string
	Routes []MethodRoute
}

// MethodRoute is a route marker on one handler method.
type MethodRoute struct {
	Pattern string
	// Method is a method expression, e.g. (*DemoController).Test; its first
	// parameter is the receiver.
	Method reflect.Value
	Name   string
	Params []ParamMarker
}

// Arity is the number of declared parameters, receiver excluded.
func (r MethodRoute) Arity() int {
	return r.Method.Type().NumIn() - 1
}

// ParamType returns the declared type of parameter i, receiver excluded.
func (r MethodRoute) ParamType(i int) reflect.Type {
	return r.Method.Type().In(i + 1)
}

// ParamMarker binds a named request parameter to a method parameter position.
type ParamMarker struct {
	Index int
	Key   string
	Rules string // validation rules, e.g. "required|integer"
}

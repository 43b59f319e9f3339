package dispatch

import (
	"errors"
	"fmt"
)

var (
	ErrNoRoute     = errors.New("no route matches path")
	ErrConversion  = errors.New("cannot convert request parameter")
	ErrMalformed   = errors.New("malformed request parameters")
	ErrArgMismatch = errors.New("argument does not fit parameter")
)

// RouteMissError is returned when no route matches the normalized path.
type RouteMissError struct {
	Path string
}

func (e *RouteMissError) Error() string {
	return fmt.Sprintf("%v: %q", ErrNoRoute, e.Path)
}

func (e *RouteMissError) Unwrap() error { return ErrNoRoute }

// ArgumentBindingError reports a request parameter that could not be turned
// into a method argument. It is answered like a missing route.
type ArgumentBindingError struct {
	Route string
	Key   string
	Value string
	Err   error
}

func (e *ArgumentBindingError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("bind %s: %v", e.Route, e.Err)
	}
	return fmt.Sprintf("bind %s: parameter %q=%q: %v", e.Route, e.Key, e.Value, e.Err)
}

func (e *ArgumentBindingError) Unwrap() error { return e.Err }

// InvocationError reports a handler method that panicked or returned an
// error.
type InvocationError struct {
	Route string
	Panic any    // recovered value, nil when Err came back from the method
	Stack []byte // stack at the panic
	Err   error
}

func (e *InvocationError) Error() string {
	if e.Panic != nil {
		return fmt.Sprintf("invoke %s: panic: %v", e.Route, e.Panic)
	}
	return fmt.Sprintf("invoke %s: %v", e.Route, e.Err)
}

func (e *InvocationError) Unwrap() error { return e.Err }

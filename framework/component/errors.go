package component

import (
	"errors"
	"fmt"
)

var (
	ErrNilComponent       = errors.New("component cannot be nil")
	ErrBadConstructor     = errors.New("invalid constructor")
	ErrUnnamedType        = errors.New("component type must be a named type")
	ErrDuplicateComponent = errors.New("component already registered")
	ErrNotCapability      = errors.New("capability is not an interface implemented by the component")
	ErrBadRoute           = errors.New("invalid route marker")
	ErrWrongRole          = errors.New("option not valid for this role")
)

// DefinitionError reports a registration table row that could not be accepted.
type DefinitionError struct {
	Component string
	Err       error
}

func (e *DefinitionError) Error() string {
	if e.Component == "" {
		return fmt.Sprintf("component: %v", e.Err)
	}
	return fmt.Sprintf("component %s: %v", e.Component, e.Err)
}

func (e *DefinitionError) Unwrap() error { return e.Err }

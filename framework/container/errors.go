package container

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoConstructor      = errors.New("no constructor registered for component")
	ErrAlreadyRegistered  = errors.New("component already registered")
	ErrSealed             = errors.New("registry is sealed after wiring")
	ErrNotFound           = errors.New("no component registered under key")
	ErrTypeMismatch       = errors.New("component has a different type")
	ErrEmptyName          = errors.New("registry name cannot be empty")
	ErrNilInstance        = errors.New("instance cannot be nil")
	ErrProviderBootFailed = errors.New("provider boot failed")
)

// RegistrationError reports a descriptor the registry refused.
type RegistrationError struct {
	Component string
	Err       error
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("register %s: %v", e.Component, e.Err)
}

func (e *RegistrationError) Unwrap() error { return e.Err }

// BuildError reports a component that could not be provided to the
// construction plan or whose construction failed.
type BuildError struct {
	Component string
	Err       error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("build %s: %v", e.Component, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }

// ResolveError reports a failed typed lookup.
type ResolveError struct {
	Key  string
	Want string
	Got  string
	Err  error
}

func (e *ResolveError) Error() string {
	if e.Got != "" {
		return fmt.Sprintf("resolve %q: %v: want %s, got %s", e.Key, e.Err, e.Want, e.Got)
	}
	return fmt.Sprintf("resolve %q: %v", e.Key, e.Err)
}

func (e *ResolveError) Unwrap() error { return e.Err }

// StartupError collects every failure of one startup phase.
type StartupError struct {
	Errs []error
}

func (e *StartupError) Error() string {
	if len(e.Errs) == 1 {
		return "startup failed: " + e.Errs[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "startup failed with %d errors:", len(e.Errs))
	for _, err := range e.Errs {
		b.WriteString("\n  - ")
		b.WriteString(err.Error())
	}
	return b.String()
}

func (e *StartupError) Unwrap() []error { return e.Errs }

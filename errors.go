package component

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrMissingDependency is matched by errors raised when a type needed by a
	// component is not available in the current runtime.
	ErrMissingDependency = errors.New("missing dependency")

	// ErrConstruction is matched by any failure while instantiating a component.
	ErrConstruction = errors.New("construction failed")

	// ErrInjection is matched by failures while writing a resolved value into a field.
	ErrInjection = errors.New("injection failed")

	// ErrAccessDenied is matched when elevated access to a field is refused.
	ErrAccessDenied = errors.New("access denied")
)

// MissingDependencyError is returned by a Constructor when the component
// references a type that cannot be resolved. The cache treats the component
// as unavailable.
type MissingDependencyError struct {
	Component  reflect.Type
	Dependency string
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("dependency %s of component %s is not found", e.Dependency, typeName(e.Component))
}

func (e *MissingDependencyError) Is(target error) bool {
	return target == ErrMissingDependency
}

// ConstructionError wraps any other failure raised while instantiating a component.
type ConstructionError struct {
	Component reflect.Type
	Cause     error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("component %s could not be instantiated:\n\t%v", typeName(e.Component), e.Cause)
}

func (e *ConstructionError) Unwrap() error {
	return e.Cause
}

func (e *ConstructionError) Is(target error) bool {
	return target == ErrConstruction
}

// InjectionError is returned when a resolved value could not be written into a field.
type InjectionError struct {
	Component reflect.Type
	Field     string
	Cause     error
}

func (e *InjectionError) Error() string {
	return fmt.Sprintf("failed to inject field %s of component %s:\n\t%v", e.Field, typeName(e.Component), e.Cause)
}

func (e *InjectionError) Unwrap() error {
	return e.Cause
}

func (e *InjectionError) Is(target error) bool {
	return target == ErrInjection
}

// AccessError is returned when an access scope cannot be acquired or used.
type AccessError struct {
	Field  string
	Reason string
	denied bool
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("cannot access field %s: %s", e.Field, e.Reason)
}

func (e *AccessError) Is(target error) bool {
	return e.denied && target == ErrAccessDenied
}

func typeName(typ reflect.Type) string {
	if typ == nil {
		return "<nil>"
	}
	return typ.String()
}

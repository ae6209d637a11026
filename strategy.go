package component

import (
	"fmt"
	"reflect"
)

// Strategy resolves values for fields carrying one kind of marker annotation.
//
// Resolve returns found == false when no value is available, the field must then be
// left untouched. Implementations must be safe for concurrent use.
type Strategy interface {
	AnnotationKind() AnnotationKind
	// ValueType is the type of the values produced, nil if it depends on the field.
	ValueType() reflect.Type
	Resolve(target any, field Field, annotation Annotation) (value any, found bool)
}

// ResolveFunc is the typed resolution function of a strategy built with NewStrategy.
type ResolveFunc[V any] func(target any, field Field, annotation Annotation) (V, bool)

type typedStrategy[V any] struct {
	kind    AnnotationKind
	typ     reflect.Type
	resolve ResolveFunc[V]
}

// NewStrategy builds a strategy producing values of type V for fields annotated with kind.
// The registry only binds it to fields able to hold a V.
func NewStrategy[V any](kind AnnotationKind, resolve ResolveFunc[V]) Strategy {
	return &typedStrategy[V]{
		kind:    kind,
		typ:     TypeOf[V](),
		resolve: resolve,
	}
}

func (s *typedStrategy[V]) AnnotationKind() AnnotationKind {
	return s.kind
}

func (s *typedStrategy[V]) ValueType() reflect.Type {
	return s.typ
}

func (s *typedStrategy[V]) Resolve(target any, field Field, annotation Annotation) (any, bool) {
	value, found := s.resolve(target, field, annotation)
	if !found {
		return nil, false
	}
	return value, true
}

func (s *typedStrategy[V]) String() string {
	return fmt.Sprintf("strategy<%s -> %s>", s.kind, s.typ)
}

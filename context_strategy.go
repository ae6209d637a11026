package component

import (
	"reflect"
	"sync"
)

// ContextKind is the annotation kind served by ContextStrategy, e.g. `context:""`.
const ContextKind AnnotationKind = "context"

type suppliedValue struct {
	name  string
	value reflect.Value
}

// ContextStrategy injects supplied values into fields annotated with `context`, matching them by
// the declared type of the field. `context:"name"` restricts the match to values supplied under
// that name. The last supplied value wins, so supplying again replaces what later injections see.
type ContextStrategy struct {
	mu     sync.RWMutex
	values []suppliedValue
}

func NewContextStrategy(values ...any) *ContextStrategy {
	s := &ContextStrategy{}
	for _, v := range values {
		s.Supply(v)
	}
	return s
}

// Supply makes a value available for injection, nil values are ignored.
func (s *ContextStrategy) Supply(value any) *ContextStrategy {
	return s.SupplyNamed("", value)
}

// SupplyNamed makes a value available for fields annotated with `context:"name"`.
func (s *ContextStrategy) SupplyNamed(name string, value any) *ContextStrategy {
	if value == nil {
		return s
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = append(s.values, suppliedValue{name: name, value: reflect.ValueOf(value)})
	return s
}

func (s *ContextStrategy) AnnotationKind() AnnotationKind {
	return ContextKind
}

func (s *ContextStrategy) ValueType() reflect.Type {
	return nil
}

func (s *ContextStrategy) Resolve(_ any, field Field, annotation Annotation) (any, bool) {
	name := annotation.Name()

	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.values) - 1; i >= 0; i-- {
		supplied := s.values[i]
		if supplied.name != name {
			continue
		}
		if matchType(field.Type, supplied.value.Type()) {
			return supplied.value.Interface(), true
		}
	}
	return nil, false
}

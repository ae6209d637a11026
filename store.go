package component

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// Store maps component types to their cached component. Entries are never replaced.
type Store struct {
	inner sync.Map
}

func NewStore() *Store {
	return &Store{}
}

// Put stores the component unless one is already stored for the type,
// it returns the component held by the store.
func (s *Store) Put(typ reflect.Type, comp *Component) *Component {
	actual, _ := s.inner.LoadOrStore(typ, comp)
	return actual.(*Component)
}

func (s *Store) Get(typ reflect.Type) (comp *Component, found bool) {
	raw, found := s.inner.Load(typ)
	if found {
		return raw.(*Component), true
	}

	return nil, false
}

// Range calls f on every stored component, stopping if f returns false.
// Components stored concurrently may or may not be visited.
func (s *Store) Range(f func(comp *Component) bool) {
	s.inner.Range(func(_, raw any) bool {
		return f(raw.(*Component))
	})
}

// Types lists the stored component types, sorted by name.
func (s *Store) Types() []reflect.Type {
	var types []reflect.Type
	s.inner.Range(func(typ, _ any) bool {
		types = append(types, typ.(reflect.Type))
		return true
	})
	sort.Slice(types, func(i, j int) bool {
		return types[i].String() < types[j].String()
	})
	return types
}

func (s *Store) Len() int {
	n := 0
	s.inner.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Close closes the components implementing Closeable and empties the store.
func (s *Store) Close() error {
	closeErrors := make([]error, 0)
	s.inner.Range(func(typ, raw any) bool {
		comp := raw.(*Component)
		if closeable, ok := comp.Instance().(Closeable); ok {
			if err := closeable.Close(); err != nil {
				closeErrors = append(
					closeErrors,
					fmt.Errorf("failed to close component %s:\n\t%w", typ, err),
				)
			}
		}
		s.inner.Delete(typ)
		return true // continue iteration
	})

	return errors.Join(closeErrors...)
}

package component

import (
	"fmt"
	"reflect"

	"github.com/a-peyrard/component/fn"
	"github.com/a-peyrard/component/option"
)

type (
	// StrategyRegistry gives the strategy to use for an annotation on a field of a given type.
	StrategyRegistry interface {
		Lookup(kind AnnotationKind, fieldType reflect.Type) (Strategy, bool)
	}

	// Registry is a StrategyRegistry holding strategies ordered by priority.
	//
	// When several strategies can serve a field, the highest priority wins, and among
	// equal priorities the last registered wins. Lookups never block registrations.
	Registry struct {
		strategies *SortedCOWSlice[registration]
	}

	RegisterOptions struct {
		priority int
	}

	registration struct {
		strategy Strategy
		priority int
	}
)

func Priority(priority int) option.Option[RegisterOptions] {
	return func(opts *RegisterOptions) {
		opts.priority = priority
	}
}

func NewRegistry() *Registry {
	return &Registry{
		strategies: NewSortedCOWSlice[registration](fn.ReverseComparator(compareByPriority)),
	}
}

func (r *Registry) Register(s Strategy, opts ...option.Option[RegisterOptions]) error {
	if s == nil {
		return fmt.Errorf("cannot register a nil strategy")
	}
	if s.AnnotationKind() == "" {
		return fmt.Errorf("strategy %T must react to a non empty annotation kind", s)
	}
	options := option.Build(&RegisterOptions{}, opts...)
	r.strategies.Add(registration{strategy: s, priority: options.priority})

	return nil
}

func (r *Registry) MustRegister(s Strategy, opts ...option.Option[RegisterOptions]) *Registry {
	if err := r.Register(s, opts...); err != nil {
		panic(fmt.Sprintf("failed to register strategy %T:\n\t%v", s, err))
	}
	return r
}

func (r *Registry) Lookup(kind AnnotationKind, fieldType reflect.Type) (Strategy, bool) {
	for _, reg := range r.strategies.All() {
		if reg.strategy.AnnotationKind() != kind {
			continue
		}
		valueType := reg.strategy.ValueType()
		if valueType == nil || fieldType == nil || matchType(fieldType, valueType) {
			return reg.strategy, true
		}
	}
	return nil, false
}

// Strategies lists the registered strategies, by precedence.
func (r *Registry) Strategies() []Strategy {
	registrations := r.strategies.All()
	strategies := make([]Strategy, len(registrations))
	for i, reg := range registrations {
		strategies[i] = reg.strategy
	}
	return strategies
}

// Len returns the number of registered strategies.
func (r *Registry) Len() int {
	return r.strategies.Len()
}

func compareByPriority(r1, r2 registration) fn.ComparisonResult {
	return fn.CompareInts(r1.priority, r2.priority)
}

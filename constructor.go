package component

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"runtime"
	"sync"

	"github.com/a-peyrard/component/slices"
)

type (
	// Constructor produces a new instance of a component type, as a pointer to the struct.
	//
	// When the component needs a type that is not available, Construct returns an error
	// matching ErrMissingDependency (usually a *MissingDependencyError).
	Constructor interface {
		Construct(typ reflect.Type) (any, error)
	}

	ConstructorFunc func(typ reflect.Type) (any, error)

	// FactoryConstructor constructs components with registered factory functions, resolving
	// the factory parameters from supplied values. Types without a factory are allocated
	// with their zero value.
	FactoryConstructor struct {
		mu        sync.RWMutex
		factories map[reflect.Type]*factory
		supplied  []reflect.Value
	}

	factory struct {
		name   string
		fn     reflect.Value
		params []reflect.Type
	}
)

func (f ConstructorFunc) Construct(typ reflect.Type) (any, error) {
	return f(typ)
}

func NewFactoryConstructor() *FactoryConstructor {
	return &FactoryConstructor{
		factories: make(map[reflect.Type]*factory),
	}
}

// Register adds a factory, a function returning a pointer to a struct, and optionally an error.
// Its parameters are resolved from supplied values. A later factory for the same type replaces
// the previous one.
func (c *FactoryConstructor) Register(factoryMethod any) error {
	t := reflect.TypeOf(factoryMethod)
	if t == nil || t.Kind() != reflect.Func {
		return errors.New("factory must be a function")
	}
	if t.NumOut() != 1 && t.NumOut() != 2 {
		return errors.New("factory must either return the instance and an error, or just the instance")
	}
	if t.NumOut() == 2 && t.Out(1) != ErrorType {
		return errors.New("if factory returns two elements, it must return an error as the second element")
	}
	provides := t.Out(0)
	if provides.Kind() != reflect.Pointer || provides.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("factory must return a pointer to a struct, got %s", provides)
	}

	params := make([]reflect.Type, t.NumIn())
	for i := range params {
		params[i] = t.In(i)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.factories[provides.Elem()] = &factory{
		name:   filepath.Base(runtime.FuncForPC(reflect.ValueOf(factoryMethod).Pointer()).Name()),
		fn:     reflect.ValueOf(factoryMethod),
		params: params,
	}

	return nil
}

func (c *FactoryConstructor) MustRegister(factoryMethod any) *FactoryConstructor {
	if err := c.Register(factoryMethod); err != nil {
		panic(fmt.Sprintf("failed to register factory %T:\n\t%v", factoryMethod, err))
	}
	return c
}

// Supply makes a value available as a factory parameter, the last supplied value matching
// a parameter type wins.
func (c *FactoryConstructor) Supply(value any) *FactoryConstructor {
	if value == nil {
		return c
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.supplied = append(c.supplied, reflect.ValueOf(value))
	return c
}

func (c *FactoryConstructor) Construct(typ reflect.Type) (any, error) {
	typ = componentType(typ)
	if typ == nil {
		return nil, &ConstructionError{Cause: errors.New("cannot construct a nil type")}
	}

	c.mu.RLock()
	f, found := c.factories[typ]
	c.mu.RUnlock()

	if !found {
		if typ.Kind() != reflect.Struct {
			return nil, &ConstructionError{Component: typ, Cause: fmt.Errorf("no factory registered and %s is not a struct", typ)}
		}
		return reflect.New(typ).Interface(), nil
	}

	params, err := slices.UnsafeMap(f.params, func(param reflect.Type) (reflect.Value, error) {
		value, found := c.supplyFor(param)
		if !found {
			return reflect.Value{}, &MissingDependencyError{Component: typ, Dependency: param.String()}
		}
		return value, nil
	})
	if err != nil {
		return nil, err
	}

	return f.call(typ, params)
}

func (c *FactoryConstructor) supplyFor(param reflect.Type) (reflect.Value, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i := len(c.supplied) - 1; i >= 0; i-- {
		if matchType(param, c.supplied[i].Type()) {
			return c.supplied[i], true
		}
	}
	return reflect.Value{}, false
}

func (f *factory) call(typ reflect.Type, params []reflect.Value) (instance any, err error) {
	// panic recovery, as `Call` can panic if the factory has a panic
	var results []reflect.Value
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = &ConstructionError{Component: typ, Cause: fmt.Errorf("panic calling factory %s: %v", f.name, r)}
			}
		}()
		results = f.fn.Call(params)
	}()
	if err != nil {
		return nil, err
	}

	if len(results) == 2 && !results[1].IsNil() {
		factoryErr := results[1].Interface().(error)
		if errors.Is(factoryErr, ErrMissingDependency) {
			return nil, factoryErr
		}
		return nil, &ConstructionError{Component: typ, Cause: factoryErr}
	}
	if results[0].IsNil() {
		return nil, &ConstructionError{Component: typ, Cause: fmt.Errorf("factory %s returned a nil instance", f.name)}
	}

	return results[0].Interface(), nil
}

package component

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/a-peyrard/component/option"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Cache instantiates component types at most once, injects their annotated fields, and keeps
// them as singletons for its whole lifetime.
//
// The cache is the error boundary of construction: a component failing to construct or to be
// injected is logged and reported as unavailable, it is never cached, so the next request
// attempts the construction again. Re-injection errors are returned to the caller.
//
// A Cache is safe for concurrent use. Concurrent first requests of the same type construct it
// once, the other callers wait and get the same instance.
type Cache struct {
	id          string
	registry    StrategyRegistry
	constructor Constructor
	store       *Store
	lock        *LockManager[reflect.Type]

	logger             zerolog.Logger
	policy             AccessPolicy
	preloadConcurrency int
	onFailure          FailureHandler
}

type (
	strategyLister interface {
		Strategies() []Strategy
	}

	describedStrategy interface {
		Description() string
	}
)

func New(registry StrategyRegistry, constructor Constructor, opts ...option.Option[Options]) *Cache {
	options := option.Build(defaultOptions(), opts...)
	if constructor == nil {
		constructor = NewFactoryConstructor()
	}

	id := uuid.NewString()
	return &Cache{
		id:          id,
		registry:    registry,
		constructor: constructor,
		store:       NewStore(),
		lock:        NewLockManager[reflect.Type](),

		logger:             options.logger.With().Str("cache", id).Logger(),
		policy:             options.policy,
		preloadConcurrency: options.preloadConcurrency,
		onFailure:          options.onFailure,
	}
}

// ID identifies the cache in logs.
func (c *Cache) ID() string {
	return c.id
}

// GetOrCreate returns the instance of the component type, constructing and injecting it on
// first request. It returns false if the component is not available.
func (c *Cache) GetOrCreate(typ reflect.Type) (any, bool) {
	comp, found := c.GetComponent(typ)
	if !found {
		return nil, false
	}
	return comp.Instance(), true
}

// Get returns the component of type T, T being either the struct type or a pointer to it.
func Get[T any](c *Cache) (T, bool) {
	var zero T
	instance, found := c.GetOrCreate(TypeOf[T]())
	if !found {
		return zero, false
	}
	typed, ok := instance.(T)
	if !ok {
		// T is the struct type itself
		if ptr := reflect.ValueOf(instance); ptr.Kind() == reflect.Pointer {
			if typed, ok = ptr.Elem().Interface().(T); ok {
				return typed, true
			}
		}
		return zero, false
	}
	return typed, true
}

// GetComponent is GetOrCreate returning the cached component itself.
func (c *Cache) GetComponent(typ reflect.Type) (*Component, bool) {
	typ = componentType(typ)
	if typ == nil {
		return nil, false
	}
	if comp, found := c.store.Get(typ); found {
		return comp, true
	}

	comp, err := c.create(typ)
	if err != nil {
		c.reject(typ, err)
		return nil, false
	}
	return comp, true
}

func (c *Cache) create(typ reflect.Type) (*Component, error) {
	unlock := c.lock.Lock(typ)
	defer unlock()

	// now that we have the lock, check if the component was built while we were waiting
	if comp, found := c.store.Get(typ); found {
		return comp, nil
	}

	instance, err := c.construct(typ)
	if err != nil {
		return nil, err
	}

	injector := NewInjector(c.registry, typ, WithInjectorAccessPolicy(c.policy))
	if err := injector.Inject(instance); err != nil {
		return nil, err
	}

	comp := c.store.Put(typ, &Component{
		typ:      typ,
		instance: instance,
		injector: injector,
	})
	c.logger.Debug().
		Str("component", typ.String()).
		Int("fields", len(injector.Fields())).
		Msg("component instantiated")

	return comp, nil
}

func (c *Cache) construct(typ reflect.Type) (instance any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &ConstructionError{Component: typ, Cause: fmt.Errorf("panic in constructor: %v", r)}
		}
	}()

	instance, err = c.constructor.Construct(typ)
	if err != nil {
		if errors.Is(err, ErrMissingDependency) || errors.Is(err, ErrConstruction) {
			return nil, err
		}
		return nil, &ConstructionError{Component: typ, Cause: err}
	}
	if instance == nil {
		return nil, &ConstructionError{Component: typ, Cause: errors.New("constructor returned a nil instance")}
	}
	if got := reflect.TypeOf(instance); got != reflect.PointerTo(typ) {
		return nil, &ConstructionError{Component: typ, Cause: fmt.Errorf("constructor returned a %s, expected *%s", got, typ)}
	}

	return instance, nil
}

func (c *Cache) reject(typ reflect.Type, err error) {
	var missing *MissingDependencyError
	if errors.As(err, &missing) {
		c.logger.Debug().
			Str("component", typ.String()).
			Str("dependency", missing.Dependency).
			Msgf("a dependent type, %s, of the component %s is not found, the component is ignored", missing.Dependency, typ)
	} else {
		c.logger.Warn().
			Err(err).
			Str("component", typ.String()).
			Msgf("the component %s could not be instantiated, it is ignored", typ)
	}

	if c.onFailure != nil {
		c.onFailure(typ, err)
	}
}

// ReinjectAll runs the injection again on every cached component, typically after the
// available strategies changed. All components are processed, the errors are joined.
func (c *Cache) ReinjectAll() error {
	var errs []error
	c.store.Range(func(comp *Component) bool {
		if err := comp.Inject(); err != nil {
			c.logger.Error().Err(err).Str("component", comp.Type().String()).Msg("re-injection failed")
			errs = append(errs, err)
		}
		return true
	})
	return errors.Join(errs...)
}

// ReinjectInstances injects instances not managed by the cache, each with a fresh injector
// for its runtime type. The instances are not cached. All instances are processed, the
// errors are joined.
func (c *Cache) ReinjectInstances(instances ...any) error {
	var errs []error
	for _, instance := range instances {
		if err := c.ReinjectInstance(instance); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ReinjectInstance injects a single instance not managed by the cache.
func (c *Cache) ReinjectInstance(instance any) error {
	if instance == nil {
		return &InjectionError{Cause: errors.New("cannot inject a nil instance")}
	}
	injector := NewInjector(c.registry, reflect.TypeOf(instance), WithInjectorAccessPolicy(c.policy))
	if err := injector.Inject(instance); err != nil {
		c.logger.Error().Err(err).Str("component", injector.Type().String()).Msg("injection of instance failed")
		return err
	}
	return nil
}

// Preload requests all the given types concurrently, and returns the ones available, in the
// given order. It only fails if the context is done before all types were processed.
func (c *Cache) Preload(ctx context.Context, types ...reflect.Type) ([]reflect.Type, error) {
	available := make([]bool, len(types))

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(c.preloadConcurrency)
	for i, typ := range types {
		i, typ := i, typ
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			_, available[i] = c.GetComponent(typ)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("preload interrupted:\n\t%w", err)
	}

	result := make([]reflect.Type, 0, len(types))
	for i, typ := range types {
		if available[i] {
			result = append(result, componentType(typ))
		}
	}
	return result, nil
}

// Types lists the cached component types.
func (c *Cache) Types() []reflect.Type {
	return c.store.Types()
}

// Len returns the number of cached components.
func (c *Cache) Len() int {
	return c.store.Len()
}

// Close tears the cache down: cached components implementing Closeable are closed,
// and the cache is emptied.
func (c *Cache) Close() error {
	return c.store.Close()
}

// Describe lists the registered strategies, when the registry can enumerate them, and the
// cached components with their annotated fields.
func (c *Cache) Describe() string {
	var b strings.Builder
	fmt.Fprintf(&b, "* Cache %s (access policy: %s)\n", c.id, c.policy)
	if lister, ok := c.registry.(strategyLister); ok {
		b.WriteString("* Strategies:\n")
		for _, s := range lister.Strategies() {
			fmt.Fprintf(&b, "\t- %T (annotation=%s)\n", s, s.AnnotationKind())
			if described, ok := s.(describedStrategy); ok {
				if desc := described.Description(); desc != "" {
					fmt.Fprintf(&b, "\t\tdescription: %s\n", desc)
				}
			}
		}
	}
	b.WriteString("* Cached components:\n")
	for _, typ := range c.store.Types() {
		comp, found := c.store.Get(typ)
		if !found {
			continue
		}
		fmt.Fprintf(&b, "\t- %s\n", typ)
		for _, f := range comp.Injector().Fields() {
			annotations := make([]string, len(f.Annotations))
			for i, a := range f.Annotations {
				annotations[i] = a.String()
			}
			fmt.Fprintf(&b, "\t\t%s %s\n", f, strings.Join(annotations, " "))
		}
	}
	return b.String()
}

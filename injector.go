package component

import (
	"fmt"
	"reflect"
	"sync"
	"unsafe"

	"github.com/a-peyrard/component/option"
	"github.com/a-peyrard/component/slices"
)

type (
	// Injector populates the annotated fields of instances of one component type.
	//
	// It is built once per type: the annotated fields are discovered at build time, the
	// strategies are looked up at injection time so re-injection picks up registry changes.
	Injector struct {
		typ      reflect.Type
		registry StrategyRegistry
		policy   AccessPolicy
		fields   []Field

		// serializes injections, and guards written
		mu sync.Mutex
		// values written by this injector, a field still holding one of them is
		// not considered as pre-populated
		written map[writtenKey]writtenValue
	}

	InjectorOptions struct {
		policy AccessPolicy
	}

	writtenKey struct {
		instance uintptr
		field    int
	}

	writtenValue struct {
		value any
		// identity of func values, which can't be compared
		identity unsafe.Pointer
	}
)

func WithInjectorAccessPolicy(policy AccessPolicy) option.Option[InjectorOptions] {
	return func(opts *InjectorOptions) {
		opts.policy = policy
	}
}

// NewInjector builds the injector of a struct type (or pointer to struct type).
func NewInjector(registry StrategyRegistry, typ reflect.Type, opts ...option.Option[InjectorOptions]) *Injector {
	options := option.Build(&InjectorOptions{policy: Elevated}, opts...)
	typ = componentType(typ)

	return &Injector{
		typ:      typ,
		registry: registry,
		policy:   options.policy,
		fields:   slices.Filter(Fields(typ), Field.IsAnnotated),
		written:  make(map[writtenKey]writtenValue),
	}
}

func (i *Injector) Type() reflect.Type {
	return i.typ
}

// Fields returns the annotated fields of the component type.
func (i *Injector) Fields() []Field {
	return i.fields
}

// Inject populates the annotated fields of the instance, which must be a pointer to the
// injector component type.
//
// A field already holding a value is left as is, unless the value was written by a previous
// injection of this injector. A field without any recognized annotation, or for which the
// strategy has no value, is left untouched. The first failure to write a field is returned
// as an *InjectionError.
func (i *Injector) Inject(instance any) error {
	target := reflect.ValueOf(instance)
	if instance == nil || target.Kind() != reflect.Pointer || target.IsNil() || target.Elem().Type() != i.typ {
		return &InjectionError{
			Component: i.typ,
			Cause:     fmt.Errorf("instance must be a non-nil *%s, got %T", typeName(i.typ), instance),
		}
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	for idx, field := range i.fields {
		if err := i.injectField(target, instance, idx, field); err != nil {
			return &InjectionError{Component: i.typ, Field: field.Name, Cause: err}
		}
	}
	return nil
}

func (i *Injector) injectField(target reflect.Value, instance any, idx int, field Field) error {
	strategy, annotation, found := i.strategyFor(field)
	if !found {
		return nil
	}

	scope, err := acquireAccess(i.policy, target, field)
	if err != nil {
		return err
	}
	defer scope.Release()

	current, err := scope.Get()
	if err != nil {
		return err
	}
	key := writtenKey{instance: target.Pointer(), field: idx}
	if previous, found := i.written[key]; !isDefault(current) && (!found || !previous.heldBy(current)) {
		return nil
	}

	value, found, err := safeResolve(strategy, instance, field, annotation)
	if err != nil || !found {
		return err
	}
	resolved := reflect.ValueOf(value)
	if isNil(resolved) {
		return nil
	}
	if err := scope.Set(resolved); err != nil {
		return fmt.Errorf("unable to set value resolved by %s:\n\t%w", annotation, err)
	}
	i.written[key] = writtenValue{value: value, identity: funcIdentity(current)}

	return nil
}

// strategyFor returns the first annotation of the field, in declaration order,
// having a strategy in the registry.
func (i *Injector) strategyFor(field Field) (Strategy, Annotation, bool) {
	if i.registry == nil {
		return nil, Annotation{}, false
	}
	for _, annotation := range field.Annotations {
		if strategy, found := i.registry.Lookup(annotation.Kind, field.Type); found {
			return strategy, annotation, true
		}
	}
	return nil, Annotation{}, false
}

// safeResolve calls the strategy, turning a panic into an error.
func safeResolve(strategy Strategy, instance any, field Field, annotation Annotation) (value any, found bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			value, found, err = nil, false, fmt.Errorf("panic resolving value of %s: %v", annotation, r)
		}
	}()
	value, found = strategy.Resolve(instance, field, annotation)
	return value, found, nil
}

// heldBy tells if the field still holds the written value.
func (w writtenValue) heldBy(current reflect.Value) bool {
	if w.identity != nil {
		return w.identity == funcIdentity(current)
	}
	return sameValue(current.Interface(), w.value)
}

// funcIdentity returns the closure pointer held by an addressable func field, nil for
// any other value.
func funcIdentity(v reflect.Value) unsafe.Pointer {
	if v.Kind() != reflect.Func || !v.CanAddr() {
		return nil
	}
	return *(*unsafe.Pointer)(unsafe.Pointer(v.UnsafeAddr()))
}

// isDefault tells if the field holds its zero value, empty maps and slices count as default.
func isDefault(v reflect.Value) bool {
	if v.IsZero() {
		return true
	}
	switch v.Kind() {
	case reflect.Map, reflect.Slice:
		return v.Len() == 0
	default:
		return false
	}
}

func sameValue(a, b any) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	if va.Kind() == reflect.Func {
		return va.Pointer() == vb.Pointer()
	}
	if va.Comparable() {
		return va.Equal(vb)
	}
	return reflect.DeepEqual(a, b)
}

package component

import "reflect"

var ErrorType = TypeOf[error]()

// Closeable is implemented by components holding resources released on cache teardown.
type Closeable interface {
	Close() error
}

// matchType tells if a value of providedType can be used where queryType is expected.
func matchType(queryType, providedType reflect.Type) bool {
	if queryType == providedType {
		return true
	}
	if queryType.Kind() == reflect.Interface && providedType.Implements(queryType) {
		return true
	}
	return providedType.AssignableTo(queryType)
}

func TypeOf[I any]() reflect.Type {
	var i I
	t := reflect.TypeOf(i)
	if t == nil {
		t = reflect.TypeOf((*I)(nil)).Elem()
	}
	return t
}

// componentType normalizes a component type: instances are pointers to structs,
// but the component is identified by the struct type itself.
func componentType(typ reflect.Type) reflect.Type {
	if typ != nil && typ.Kind() == reflect.Pointer && typ.Elem().Kind() == reflect.Struct {
		return typ.Elem()
	}
	return typ
}

func isNil(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	default:
		return false
	}
}

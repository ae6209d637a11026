package reflectutils

import (
	"fmt"
	"reflect"

	"github.com/a-peyrard/component/fn"
	"github.com/a-peyrard/component/set"
)

// WalkStruct applies a tri-consumer on all exported fields and nested fields of a given object.
func WalkStruct[T any](element T, consumer fn.TriConsumer[reflect.Value, reflect.Type, []string]) {
	walkStructInternal(reflect.ValueOf(element), []string{}, consumer)
}

func walkStructInternal(val reflect.Value, path []string, consumer fn.TriConsumer[reflect.Value, reflect.Type, []string]) {
	var (
		nestedVal   reflect.Value
		structField reflect.StructField
	)
	// apply the consumer
	consumer(val, val.Type(), path)

	// dereference the value
	val = Deref(val)

	if !val.IsValid() {
		return
	}

	// loop on fields
	if val.Kind() == reflect.Struct {
		typ := val.Type()
		for i := 0; i < typ.NumField(); i++ {
			structField = typ.Field(i)
			if !structField.IsExported() {
				continue
			}
			nestedVal = val.Field(i)

			walkStructInternal(nestedVal, append(path, structField.Name), consumer)
		}
	}
}

// WalkFields applies a consumer on every declared field of a struct type, exported or not,
// descending into embedded structs (by value or by pointer) right after visiting them.
//
// The consumer receives the field, the struct type declaring it, and the full index path
// from the root type. The order is the declaration order, depth first.
func WalkFields(typ reflect.Type, consumer fn.TriConsumer[reflect.StructField, reflect.Type, []int]) {
	if typ == nil {
		return
	}
	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return
	}
	walkFieldsInternal(typ, nil, set.NewWithValues(typ), consumer)
}

func walkFieldsInternal(typ reflect.Type, index []int, visiting set.Set[reflect.Type], consumer fn.TriConsumer[reflect.StructField, reflect.Type, []int]) {
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		path := append(append(make([]int, 0, len(index)+1), index...), i)
		consumer(field, typ, path)

		if !field.Anonymous {
			continue
		}
		embedded := field.Type
		if embedded.Kind() == reflect.Pointer {
			embedded = embedded.Elem()
		}
		// a struct embedding (a pointer to) itself would loop forever
		if embedded.Kind() != reflect.Struct || visiting.Contains(embedded) {
			continue
		}
		visiting.Add(embedded)
		walkFieldsInternal(embedded, path, visiting, consumer)
		visiting.Remove(embedded)
	}
}

// FieldByIndex returns the nested field of a struct value, following the index path
// through embedded pointers. Unlike reflect.Value.FieldByIndex, it returns an error
// instead of panicking when an embedded pointer on the path is nil.
func FieldByIndex(val reflect.Value, index []int) (reflect.Value, error) {
	for depth, i := range index {
		if depth > 0 && val.Kind() == reflect.Pointer {
			if val.IsNil() {
				return reflect.Value{}, fmt.Errorf("nil embedded pointer %s on the path to the field", val.Type())
			}
			val = val.Elem()
		}
		if val.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("expected a struct at depth %d, got %s", depth, val.Kind())
		}
		val = val.Field(i)
	}
	return val, nil
}

// Deref dereferences recursively a reflect.Value until it reaches a non-pointer or non-interface value
func Deref(value reflect.Value) reflect.Value {
	if value.Kind() == reflect.Ptr || value.Kind() == reflect.Interface {
		return Deref(value.Elem())
	}
	return value
}

// CreateNilStructs creates new struct instances for nil struct pointers
func CreateNilStructs(val reflect.Value, typ reflect.Type, _ []string) {
	if typ.Kind() == reflect.Pointer &&
		val.IsNil() &&
		typ.Elem().Kind() == reflect.Struct {

		val.Set(reflect.New(typ.Elem()))
	}
}

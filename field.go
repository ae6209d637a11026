package component

import (
	"fmt"
	"reflect"

	"github.com/a-peyrard/component/reflectutils"
)

// Field describes a declared field of a component type, possibly promoted from an embedded struct.
type Field struct {
	Name string
	Type reflect.Type
	// Index is the index path from the component type, through embedded structs.
	Index []int
	// Exported tells if the field is accessible without an elevated access scope.
	Exported bool
	// Owner is the struct type declaring the field.
	Owner       reflect.Type
	Annotations []Annotation
}

// Annotation returns the annotation of the given kind, if the field declares it.
func (f Field) Annotation(kind AnnotationKind) (Annotation, bool) {
	for _, a := range f.Annotations {
		if a.Kind == kind {
			return a, true
		}
	}
	return Annotation{}, false
}

// IsAnnotated tells if the field declares at least one annotation.
func (f Field) IsAnnotated() bool {
	return len(f.Annotations) > 0
}

func (f Field) String() string {
	return fmt.Sprintf("%s.%s (%s)", f.Owner.Name(), f.Name, f.Type)
}

// Fields lists the declared fields of a struct type (or pointer to struct), including the ones
// promoted from embedded structs. The order is deterministic: declaration order, depth first.
func Fields(typ reflect.Type) []Field {
	var fields []Field
	reflectutils.WalkFields(typ, func(sf reflect.StructField, owner reflect.Type, index []int) {
		fields = append(fields, Field{
			Name:        sf.Name,
			Type:        sf.Type,
			Index:       index,
			Exported:    sf.IsExported(),
			Owner:       owner,
			Annotations: parseAnnotations(sf.Tag),
		})
	})
	return fields
}

package component

import (
	"fmt"
	"reflect"
	"strings"
	"unsafe"

	"github.com/a-peyrard/component/reflectutils"
)

// AccessPolicy controls whether injection may bypass the visibility of unexported fields.
type AccessPolicy int

const (
	// Elevated allows reading and writing unexported fields through an access scope.
	Elevated AccessPolicy = iota
	// ExportedOnly denies any elevation, only exported fields can be injected.
	ExportedOnly
)

func (p AccessPolicy) String() string {
	switch p {
	case Elevated:
		return "elevated"
	case ExportedOnly:
		return "exported"
	default:
		return fmt.Sprintf("AccessPolicy(%d)", int(p))
	}
}

// ParseAccessPolicy parses the textual form of an access policy.
func ParseAccessPolicy(s string) (AccessPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "elevated":
		return Elevated, nil
	case "exported":
		return ExportedOnly, nil
	default:
		return Elevated, fmt.Errorf("unknown access policy %q", s)
	}
}

// accessScope is the capability to read and write one field of one instance, regardless
// of its visibility. It must be released once the field operation is done.
type accessScope struct {
	field    Field
	value    reflect.Value
	released bool
}

// acquireAccess opens an access scope on the field of the instance, which must be
// a non-nil pointer to a struct.
func acquireAccess(policy AccessPolicy, instance reflect.Value, field Field) (*accessScope, error) {
	if !instance.IsValid() || instance.Kind() != reflect.Pointer || instance.IsNil() || instance.Elem().Kind() != reflect.Struct {
		return nil, &AccessError{Field: field.Name, Reason: fmt.Sprintf("instance must be a non-nil pointer to a struct, got %s", instance.Kind())}
	}

	target, err := reflectutils.FieldByIndex(instance.Elem(), field.Index)
	if err != nil {
		return nil, &AccessError{Field: field.Name, Reason: err.Error()}
	}

	if !target.CanSet() {
		if policy == ExportedOnly {
			return nil, &AccessError{Field: field.Name, Reason: "elevated access is not allowed by the access policy", denied: true}
		}
		if !target.CanAddr() {
			return nil, &AccessError{Field: field.Name, Reason: "field is not addressable"}
		}
		// the field is unexported (or reached through an unexported embedding): alias it
		// with a value not carrying the read-only flag
		target = reflect.NewAt(target.Type(), unsafe.Pointer(target.UnsafeAddr())).Elem()
	}

	return &accessScope{field: field, value: target}, nil
}

func (s *accessScope) Get() (reflect.Value, error) {
	if s.released {
		return reflect.Value{}, &AccessError{Field: s.field.Name, Reason: "access scope already released"}
	}
	return s.value, nil
}

func (s *accessScope) Set(value reflect.Value) error {
	if s.released {
		return &AccessError{Field: s.field.Name, Reason: "access scope already released"}
	}
	if !value.IsValid() {
		return &AccessError{Field: s.field.Name, Reason: "cannot set an invalid value"}
	}
	if !value.Type().AssignableTo(s.value.Type()) {
		return &AccessError{Field: s.field.Name, Reason: fmt.Sprintf("value of type %s is not assignable to %s", value.Type(), s.value.Type())}
	}
	s.value.Set(value)
	return nil
}

func (s *accessScope) Release() {
	s.released = true
	s.value = reflect.Value{}
}

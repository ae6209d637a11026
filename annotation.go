package component

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// AnnotationKind identifies a marker annotation, it is the key of a struct tag.
type AnnotationKind string

// Annotation is a marker annotation attached to a field, e.g. `env:"HOME,default=/root"`.
type Annotation struct {
	Kind  AnnotationKind
	Value string
}

// Name returns the first element of the annotation value, before any comma.
func (a Annotation) Name() string {
	name, _, _ := strings.Cut(a.Value, ",")
	return strings.TrimSpace(name)
}

// Option returns the value of a `key=value` option of the annotation.
func (a Annotation) Option(key string) (string, bool) {
	for _, opt := range a.options() {
		k, v, found := strings.Cut(opt, "=")
		if found && strings.TrimSpace(k) == key {
			return strings.TrimSpace(v), true
		}
	}
	return "", false
}

// HasFlag tells if the annotation carries a bare option, e.g. `optional`.
func (a Annotation) HasFlag(flag string) bool {
	for _, opt := range a.options() {
		if strings.TrimSpace(opt) == flag {
			return true
		}
	}
	return false
}

func (a Annotation) options() []string {
	_, rest, found := strings.Cut(a.Value, ",")
	if !found {
		return nil
	}
	return strings.Split(rest, ",")
}

func (a Annotation) String() string {
	return fmt.Sprintf("@%s(%q)", a.Kind, a.Value)
}

// parseAnnotations lists the annotations declared in a struct tag, in declaration order.
// It follows the struct tag conventions of reflect.StructTag, but enumerates all the keys
// instead of looking one up. Annotations valued "-" are explicitly disabled and skipped.
func parseAnnotations(tag reflect.StructTag) []Annotation {
	var annotations []Annotation
	for tag != "" {
		// skip leading space
		i := 0
		for i < len(tag) && tag[i] == ' ' {
			i++
		}
		tag = tag[i:]
		if tag == "" {
			break
		}

		// scan to colon, a space, a quote or a control character is a syntax error
		i = 0
		for i < len(tag) && tag[i] > ' ' && tag[i] != ':' && tag[i] != '"' && tag[i] != 0x7f {
			i++
		}
		if i == 0 || i+1 >= len(tag) || tag[i] != ':' || tag[i+1] != '"' {
			break
		}
		kind := AnnotationKind(tag[:i])
		tag = tag[i+1:]

		// scan quoted string to find value
		i = 1
		for i < len(tag) && tag[i] != '"' {
			if tag[i] == '\\' {
				i++
			}
			i++
		}
		if i >= len(tag) {
			break
		}
		quoted := string(tag[:i+1])
		tag = tag[i+1:]

		value, err := strconv.Unquote(quoted)
		if err != nil {
			break
		}
		if value == "-" {
			continue
		}
		annotations = append(annotations, Annotation{Kind: kind, Value: value})
	}
	return annotations
}

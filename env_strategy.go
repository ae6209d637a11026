package component

import (
	"os"
	"reflect"
)

// EnvKind is the annotation kind served by EnvStrategy, e.g. `env:"HOME"`.
const EnvKind AnnotationKind = "env"

// EnvStrategy injects environment variables into string fields annotated with `env:"NAME"`.
// `env:"NAME,default=value"` falls back to value when the variable is not set, otherwise
// an unset variable leaves the field untouched.
type EnvStrategy struct {
	// LookupEnv defaults to os.LookupEnv.
	LookupEnv func(key string) (string, bool)
}

func (e *EnvStrategy) AnnotationKind() AnnotationKind {
	return EnvKind
}

func (e *EnvStrategy) ValueType() reflect.Type {
	return reflect.TypeOf("")
}

func (e *EnvStrategy) Resolve(_ any, field Field, annotation Annotation) (any, bool) {
	name := annotation.Name()
	if name == "" {
		name = field.Name
	}

	lookup := e.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if value, found := lookup(name); found {
		return value, true
	}
	if value, found := annotation.Option("default"); found {
		return value, true
	}
	return nil, false
}

// Description is shown by Cache.Describe.
func (e *EnvStrategy) Description() string {
	return "Injects environment variables into string fields"
}

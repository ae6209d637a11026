package component

import (
	"reflect"
	"strings"

	"github.com/a-peyrard/component/structs"
)

// ConfigKind is the annotation kind served by ConfigStrategy, e.g. `config:"Server.Port"`.
const ConfigKind AnnotationKind = "config"

// ConfigStrategy injects values read from a configuration struct of type C.
//
// The annotation value is a dotted path in the configuration, optionally prefixed by the
// configuration struct name: with a `ServerConfig` struct, both "Port" and "ServerConfig.Port"
// are accepted. Unknown paths and values not assignable to the field are absent.
type ConfigStrategy[C any] struct {
	cfg    *C
	prefix string
}

func NewConfigStrategy[C any](cfg *C) *ConfigStrategy[C] {
	return &ConfigStrategy[C]{
		cfg:    cfg,
		prefix: TypeOf[C]().Name() + ".",
	}
}

func (c *ConfigStrategy[C]) AnnotationKind() AnnotationKind {
	return ConfigKind
}

func (c *ConfigStrategy[C]) ValueType() reflect.Type {
	return nil
}

func (c *ConfigStrategy[C]) Resolve(_ any, field Field, annotation Annotation) (any, bool) {
	if c.cfg == nil {
		return nil, false
	}
	path := strings.TrimPrefix(annotation.Name(), c.prefix)
	if path == "" {
		return nil, false
	}

	value, err := structs.Get(c.cfg, path)
	if err != nil || value == nil {
		return nil, false
	}
	if !reflect.TypeOf(value).AssignableTo(field.Type) {
		return nil, false
	}
	return value, true
}

package component

import (
	"errors"
	"reflect"
)

// Test types shared by the package tests
type (
	Logger interface {
		Log(msg string) string
	}

	namedLogger struct {
		name string
	}

	Widget struct {
		f Logger `context:""`
	}

	Gadget struct {
		Plain  Logger
		Tagged Logger `context:""`
	}

	Base struct {
		logger Logger `context:""`
	}

	Derived struct {
		Base
		Home string `env:"WIDGET_HOME,default=/srv"`
	}

	DerivedFromPointer struct {
		*Base
	}

	Driver struct{}

	Plugin struct {
		driver *Driver
	}

	Connection struct {
		closed bool
	}

	Fragile struct {
		value string `fragile:""`
	}

	Greeting struct {
		greet func() string `context:""`
	}

	// failingStrategy resolves a value of the wrong type whatever the field.
	failingStrategy struct {
		kind AnnotationKind
	}
)

func (l *namedLogger) Log(msg string) string {
	return l.name + ": " + msg
}

func (c *Connection) Close() error {
	c.closed = true
	return nil
}

func (s failingStrategy) AnnotationKind() AnnotationKind {
	return s.kind
}

func (s failingStrategy) ValueType() reflect.Type {
	return nil
}

func (s failingStrategy) Resolve(any, Field, Annotation) (any, bool) {
	return 42, true
}

// panickingStrategy serves the `fragile` annotation by panicking.
func panickingStrategy() Strategy {
	return NewStrategy("fragile", func(any, Field, Annotation) (string, bool) {
		panic("resolver blew up")
	})
}

func NewPlugin(driver *Driver) *Plugin {
	return &Plugin{driver: driver}
}

func NewFailingConnection() (*Connection, error) {
	return nil, errors.New("connection refused")
}

func registryWith(strategies ...Strategy) *Registry {
	registry := NewRegistry()
	for _, s := range strategies {
		registry.MustRegister(s)
	}
	return registry
}

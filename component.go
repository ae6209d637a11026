package component

import "reflect"

// Component is a cached singleton: the instance of a component type and the injector
// built for that type.
type Component struct {
	typ      reflect.Type
	instance any
	injector *Injector
}

func (c *Component) Type() reflect.Type {
	return c.typ
}

func (c *Component) Instance() any {
	return c.instance
}

func (c *Component) Injector() *Injector {
	return c.injector
}

// Inject re-runs the injection on the instance.
func (c *Component) Inject() error {
	return c.injector.Inject(c.instance)
}

package component

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactoryConstructor_Register(t *testing.T) {
	tests := []struct {
		name    string
		factory any
		err     string
	}{
		{name: "a non function", factory: "nope", err: "factory must be a function"},
		{name: "a nil factory", factory: nil, err: "factory must be a function"},
		{name: "a factory without result", factory: func() {}, err: "either return the instance and an error"},
		{name: "a factory with too many results", factory: func() (*Widget, error, int) { return nil, nil, 0 }, err: "either return the instance and an error"},
		{name: "a factory not returning an error", factory: func() (*Widget, int) { return nil, 0 }, err: "must return an error as the second element"},
		{name: "a factory returning a struct value", factory: func() Widget { return Widget{} }, err: "must return a pointer to a struct"},
		{name: "a factory returning a pointer to a non struct", factory: func() *int { return nil }, err: "must return a pointer to a struct"},
	}

	for _, tt := range tests {
		t.Run("it should refuse "+tt.name, func(t *testing.T) {
			// WHEN
			err := NewFactoryConstructor().Register(tt.factory)

			// THEN
			assert.ErrorContains(t, err, tt.err)
		})
	}

	t.Run("it should panic when registration is required", func(t *testing.T) {
		assert.Panics(t, func() {
			NewFactoryConstructor().MustRegister(42)
		})
	})
}

func TestFactoryConstructor_Construct(t *testing.T) {
	t.Run("it should allocate types without factory", func(t *testing.T) {
		// WHEN
		instance, err := NewFactoryConstructor().Construct(TypeOf[Widget]())

		// THEN
		require.NoError(t, err)
		assert.IsType(t, &Widget{}, instance)
	})

	t.Run("it should refuse non struct types without factory", func(t *testing.T) {
		// WHEN
		_, err := NewFactoryConstructor().Construct(reflect.TypeOf(42))

		// THEN
		assert.ErrorIs(t, err, ErrConstruction)
	})

	t.Run("it should refuse a nil type", func(t *testing.T) {
		// WHEN
		_, err := NewFactoryConstructor().Construct(nil)

		// THEN
		assert.ErrorIs(t, err, ErrConstruction)
	})

	t.Run("it should call the factory with supplied parameters", func(t *testing.T) {
		// GIVEN
		driver := &Driver{}
		constructor := NewFactoryConstructor().MustRegister(NewPlugin).Supply(driver)

		// WHEN
		instance, err := constructor.Construct(reflect.TypeOf(&Plugin{}))

		// THEN
		require.NoError(t, err)
		assert.Same(t, driver, instance.(*Plugin).driver)
	})

	t.Run("it should prefer the last supplied value", func(t *testing.T) {
		// GIVEN
		first, second := &namedLogger{name: "first"}, &namedLogger{name: "second"}
		constructor := NewFactoryConstructor().
			MustRegister(func(l Logger) *Widget { return &Widget{f: l} }).
			Supply(first).
			Supply(nil).
			Supply(second)

		// WHEN
		instance, err := constructor.Construct(TypeOf[Widget]())

		// THEN
		require.NoError(t, err)
		assert.Same(t, second, instance.(*Widget).f)
	})

	t.Run("it should report the missing parameter type", func(t *testing.T) {
		// GIVEN
		constructor := NewFactoryConstructor().MustRegister(NewPlugin)

		// WHEN
		_, err := constructor.Construct(TypeOf[Plugin]())

		// THEN
		require.Error(t, err)
		var missing *MissingDependencyError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, "*component.Driver", missing.Dependency)
		assert.Equal(t, TypeOf[Plugin](), missing.Component)
		assert.Equal(t, "dependency *component.Driver of component component.Plugin is not found", err.Error())
	})

	t.Run("it should let missing dependencies raised by the factory through", func(t *testing.T) {
		// GIVEN
		constructor := NewFactoryConstructor().MustRegister(func() (*Plugin, error) {
			return nil, &MissingDependencyError{Component: TypeOf[Plugin](), Dependency: "libdriver.so"}
		})

		// WHEN
		_, err := constructor.Construct(TypeOf[Plugin]())

		// THEN
		assert.ErrorIs(t, err, ErrMissingDependency)
		assert.NotErrorIs(t, err, ErrConstruction)
	})

	t.Run("it should wrap factory errors", func(t *testing.T) {
		// GIVEN
		constructor := NewFactoryConstructor().MustRegister(NewFailingConnection)

		// WHEN
		_, err := constructor.Construct(TypeOf[Connection]())

		// THEN
		assert.ErrorIs(t, err, ErrConstruction)
		assert.ErrorContains(t, err, "connection refused")
	})

	t.Run("it should recover factory panics", func(t *testing.T) {
		// GIVEN
		constructor := NewFactoryConstructor().MustRegister(func() *Connection {
			panic("kaboom")
		})

		// WHEN
		_, err := constructor.Construct(TypeOf[Connection]())

		// THEN
		assert.ErrorIs(t, err, ErrConstruction)
		assert.ErrorContains(t, err, "kaboom")
	})

	t.Run("it should refuse nil instances", func(t *testing.T) {
		// GIVEN
		constructor := NewFactoryConstructor().MustRegister(func() (*Connection, error) {
			return nil, nil
		})

		// WHEN
		_, err := constructor.Construct(TypeOf[Connection]())

		// THEN
		assert.ErrorIs(t, err, ErrConstruction)
		assert.ErrorContains(t, err, "nil instance")
	})

	t.Run("it should replace a factory registered for the same type", func(t *testing.T) {
		// GIVEN
		second := &Connection{}
		constructor := NewFactoryConstructor().
			MustRegister(NewFailingConnection).
			MustRegister(func() *Connection { return second })

		// WHEN
		instance, err := constructor.Construct(TypeOf[Connection]())

		// THEN
		require.NoError(t, err)
		assert.Same(t, second, instance)
	})
}

func TestConstructorFunc(t *testing.T) {
	t.Run("it should delegate to the function", func(t *testing.T) {
		// GIVEN
		expected := errors.New("boom")
		constructor := ConstructorFunc(func(reflect.Type) (any, error) {
			return nil, expected
		})

		// WHEN
		_, err := constructor.Construct(TypeOf[Widget]())

		// THEN
		assert.Same(t, expected, err)
	})
}

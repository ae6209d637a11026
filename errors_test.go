package component

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors(t *testing.T) {
	t.Run("it should match the sentinels through wrapping", func(t *testing.T) {
		// GIVEN
		access := &AccessError{Field: "f", Reason: "nope", denied: true}
		injection := &InjectionError{Component: TypeOf[Widget](), Field: "f", Cause: access}
		wrapped := fmt.Errorf("while starting:\n\t%w", injection)

		// THEN
		assert.ErrorIs(t, wrapped, ErrInjection)
		assert.ErrorIs(t, wrapped, ErrAccessDenied)
		assert.NotErrorIs(t, wrapped, ErrConstruction)
		assert.Equal(t, "failed to inject field f of component component.Widget:\n\tcannot access field f: nope", injection.Error())
	})

	t.Run("it should only match access denied for refused elevations", func(t *testing.T) {
		// GIVEN
		err := &AccessError{Field: "f", Reason: "field is not addressable"}

		// THEN
		assert.NotErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("it should describe construction errors", func(t *testing.T) {
		// GIVEN
		cause := errors.New("boom")
		err := &ConstructionError{Component: TypeOf[Connection](), Cause: cause}

		// THEN
		assert.ErrorIs(t, err, ErrConstruction)
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, "component component.Connection could not be instantiated:\n\tboom", err.Error())
	})

	t.Run("it should describe missing dependencies without component", func(t *testing.T) {
		// GIVEN
		err := &MissingDependencyError{Dependency: "*sql.DB"}

		// THEN
		assert.ErrorIs(t, err, ErrMissingDependency)
		assert.Equal(t, "dependency *sql.DB of component <nil> is not found", err.Error())
	})
}

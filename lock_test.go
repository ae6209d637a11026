package component

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLockManager(t *testing.T) {
	t.Run("it should serialize holders of the same key", func(t *testing.T) {
		// GIVEN
		const workers = 50
		manager := NewLockManager[string]()
		counter := 0
		var wg sync.WaitGroup

		// WHEN
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				unlock := manager.Lock("key")
				defer unlock()
				current := counter
				counter = current + 1
			}()
		}
		wg.Wait()

		// THEN
		assert.Equal(t, workers, counter)
		assert.Equal(t, 0, manager.size())
	})

	t.Run("it should not block other keys", func(t *testing.T) {
		// GIVEN
		manager := NewLockManager[string]()
		unlockA := manager.Lock("a")
		defer unlockA()

		// WHEN
		done := make(chan struct{})
		go func() {
			unlock := manager.Lock("b")
			unlock()
			close(done)
		}()

		// THEN
		<-done
		assert.Equal(t, 1, manager.size())
	})

	t.Run("it should keep the lock while it is referenced", func(t *testing.T) {
		// GIVEN
		manager := NewLockManager[int]()
		first := manager.GetLockFor(1)
		second := manager.GetLockFor(1)

		// WHEN
		manager.ReleaseLock(1)

		// THEN
		assert.Same(t, first, second)
		assert.Equal(t, 1, manager.size())
		manager.ReleaseLock(1)
		assert.Equal(t, 0, manager.size())
		manager.ReleaseLock(1)
		assert.Equal(t, 0, manager.size())
	})
}

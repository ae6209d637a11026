package component

import "sync"

// LockManager hands out one mutex per key. A mutex is kept while someone holds or waits
// for it, so callers racing on a key always share the same mutex.
type LockManager[K comparable] struct {
	mu    sync.Mutex
	locks map[K]*refLock
}

type refLock struct {
	sync.Mutex
	refs int
}

func NewLockManager[K comparable]() *LockManager[K] {
	return &LockManager[K]{
		locks: make(map[K]*refLock),
	}
}

// Lock locks the mutex of the key and returns the function unlocking it.
func (lm *LockManager[K]) Lock(key K) (unlock func()) {
	lock := lm.GetLockFor(key)
	lock.Lock()
	return func() {
		lock.Unlock()
		lm.ReleaseLock(key)
	}
}

// GetLockFor returns the mutex of the key, every call must be paired with ReleaseLock.
func (lm *LockManager[K]) GetLockFor(key K) sync.Locker {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	lock, exists := lm.locks[key]
	if !exists {
		lock = &refLock{}
		lm.locks[key] = lock
	}
	lock.refs++
	return lock
}

// ReleaseLock forgets the mutex of the key once nobody uses it anymore.
func (lm *LockManager[K]) ReleaseLock(key K) {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	lock, exists := lm.locks[key]
	if !exists {
		return
	}
	lock.refs--
	if lock.refs <= 0 {
		delete(lm.locks, key)
	}
}

func (lm *LockManager[K]) size() int {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return len(lm.locks)
}

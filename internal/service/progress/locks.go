package progress

import (
	"sync"

	"github.com/google/uuid"
)

// profileLocks serializes writers per profile. Entries are dropped once no
// goroutine holds or waits for them.
type profileLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*profileLock
}

type profileLock struct {
	mu   sync.Mutex
	refs int
}

func newProfileLocks() *profileLocks {
	return &profileLocks{locks: make(map[uuid.UUID]*profileLock)}
}

// lock blocks until the caller holds the lock for id and returns the
// function that releases it.
func (l *profileLocks) lock(id uuid.UUID) func() {
	l.mu.Lock()
	entry, ok := l.locks[id]
	if !ok {
		entry = &profileLock{}
		l.locks[id] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}

// size reports the number of live entries.
func (l *profileLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

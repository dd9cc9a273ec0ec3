package usecase

import "sync"

// sessionLocks is a keyed mutex. Entries are reference counted and removed
// once nobody holds or waits on them.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[string]*sessionLock)}
}

func (l *sessionLocks) acquire(id string) *sessionLock {
	l.mu.Lock()
	defer l.mu.Unlock()

	lk, ok := l.locks[id]
	if !ok {
		lk = &sessionLock{}
		l.locks[id] = lk
	}
	lk.refs++
	return lk
}

func (l *sessionLocks) release(id string, lk *sessionLock) {
	l.mu.Lock()
	defer l.mu.Unlock()

	lk.refs--
	if lk.refs == 0 {
		delete(l.locks, id)
	}
}

// Lock blocks until id is free and returns the unlock function.
func (l *sessionLocks) Lock(id string) func() {
	lk := l.acquire(id)
	lk.mu.Lock()
	return func() {
		lk.mu.Unlock()
		l.release(id, lk)
	}
}

// TryLock locks id only if nobody holds it.
func (l *sessionLocks) TryLock(id string) (func(), bool) {
	lk := l.acquire(id)
	if !lk.mu.TryLock() {
		l.release(id, lk)
		return nil, false
	}
	return func() {
		lk.mu.Unlock()
		l.release(id, lk)
	}, true
}

func (l *sessionLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

package session

import "sync"

// Locker serializes turns per session id. Two near-simultaneous messages
// for the same id must not race on turn_count or persona selection;
// distinct ids stay fully concurrent.
type Locker struct {
	mu    sync.Mutex
	locks map[string]*idLock
}

type idLock struct {
	mu   sync.Mutex
	refs int
}

// NewLocker creates a Locker.
func NewLocker() *Locker {
	return &Locker{locks: map[string]*idLock{}}
}

// Lock acquires the mutex for a session id and returns its unlock
// function. Entries are dropped once the last holder releases, so idle
// ids cost nothing.
func (l *Locker) Lock(id string) func() {
	l.mu.Lock()
	entry, ok := l.locks[id]
	if !ok {
		entry = &idLock{}
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
